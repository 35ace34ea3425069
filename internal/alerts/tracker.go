package alerts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/db"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/db/models"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/enums"
	pkgerrors "github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/errors"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/logger"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/metrics"
)

// TrackerParams wires the tracker. Notifier, Cooldown and Metrics are optional.
type TrackerParams struct {
	DB        *db.Client
	Evaluator *Evaluator
	Notifier  Notifier
	Cooldown  Cooldown
	Logger    *logger.Logger
	Metrics   *metrics.InventoryMetrics
}

// Tracker keeps persisted StockAlert records in step with the evaluator and
// sends notifications when an alert is raised or escalates.
type Tracker struct {
	repo      *Repository
	evaluator *Evaluator
	notifier  Notifier
	cooldown  Cooldown
	logg      *logger.Logger
	metrics   *metrics.InventoryMetrics
	now       func() time.Time
}

// SyncResult summarises one full scan.
type SyncResult struct {
	Alerting int
	Raised   int
	Updated  int
	Resolved int
}

func NewTracker(params TrackerParams) (*Tracker, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("db client required")
	}
	if params.Evaluator == nil {
		return nil, fmt.Errorf("evaluator required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	cooldown := params.Cooldown
	if cooldown == nil {
		cooldown = NewMemoryCooldown(DefaultCooldown)
	}
	return &Tracker{
		repo:      NewRepository(params.DB.DB()),
		evaluator: params.Evaluator,
		notifier:  params.Notifier,
		cooldown:  cooldown,
		logg:      logg,
		metrics:   params.Metrics,
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

// AfterMovement re-evaluates the moved product.
func (t *Tracker) AfterMovement(ctx context.Context, txn models.StockTransaction) error {
	_, err := t.Refresh(ctx, txn.ProductID)
	return err
}

// Refresh re-evaluates one product and returns its open alert, if any.
// Notification failures are returned after the alert has been stored.
func (t *Tracker) Refresh(ctx context.Context, productID uuid.UUID) (*models.StockAlert, error) {
	alert, err := t.evaluator.EvaluateOne(ctx, productID)
	if err != nil {
		return nil, err
	}
	open, err := t.repo.ListOpenByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list open alerts")
	}
	if alert == nil {
		_, err := t.resolve(ctx, open)
		return nil, err
	}
	record, _, err := t.apply(ctx, *alert, open)
	return record, err
}

// Sync runs a full scan: raises or updates alerts for every alerting product
// and resolves open alerts whose product recovered or was deactivated.
func (t *Tracker) Sync(ctx context.Context) (SyncResult, error) {
	var result SyncResult
	alerting, err := t.evaluator.All(ctx)
	if err != nil {
		return result, err
	}
	open, err := t.repo.ListOpen(ctx)
	if err != nil {
		return result, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list open alerts")
	}
	openByProduct := map[uuid.UUID][]models.StockAlert{}
	for _, row := range open {
		openByProduct[row.ProductID] = append(openByProduct[row.ProductID], row)
	}

	var errs error
	for _, alert := range alerting {
		id := alert.Product.ID
		_, outcome, err := t.apply(ctx, alert, openByProduct[id])
		delete(openByProduct, id)
		switch outcome {
		case outcomeRaised:
			result.Raised++
		case outcomeUpdated:
			result.Updated++
		}
		errs = multierr.Append(errs, err)
	}

	var stale []models.StockAlert
	for _, rows := range openByProduct {
		stale = append(stale, rows...)
	}
	resolved, err := t.resolve(ctx, stale)
	result.Resolved = int(resolved)
	errs = multierr.Append(errs, err)

	result.Alerting = len(alerting)
	t.metrics.SetOpenAlerts(len(alerting))

	logCtx := t.logg.WithFields(ctx, map[string]any{
		"alerting": result.Alerting,
		"raised":   result.Raised,
		"updated":  result.Updated,
		"resolved": result.Resolved,
	})
	t.logg.Info(logCtx, "stock alert scan complete")
	return result, errs
}

// Acknowledge moves an ACTIVE alert to ACKNOWLEDGED.
func (t *Tracker) Acknowledge(ctx context.Context, id uuid.UUID) (*models.StockAlert, error) {
	alert, err := t.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if alert.Status != enums.AlertStatusActive {
		return nil, alertStateError(alert, "acknowledge")
	}
	now := t.now()
	alert.Status = enums.AlertStatusAcknowledged
	alert.AcknowledgedAt = &now
	if err := t.repo.Save(ctx, alert); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: acknowledge alert")
	}
	return alert, nil
}

// Resolve closes an open alert manually.
func (t *Tracker) Resolve(ctx context.Context, id uuid.UUID) (*models.StockAlert, error) {
	alert, err := t.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if alert.Status == enums.AlertStatusResolved {
		return nil, alertStateError(alert, "resolve")
	}
	now := t.now()
	alert.Status = enums.AlertStatusResolved
	alert.ResolvedAt = &now
	if err := t.repo.Save(ctx, alert); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: resolve alert")
	}
	return alert, nil
}

// List returns stored alerts newest first; nil status lists every alert.
func (t *Tracker) List(ctx context.Context, status *enums.AlertStatus) ([]models.StockAlert, error) {
	rows, err := t.repo.List(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list alerts")
	}
	return rows, nil
}

// Summary counts open alerts per level.
func (t *Tracker) Summary(ctx context.Context) (map[enums.AlertLevel]int, error) {
	open, err := t.repo.ListOpen(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list open alerts")
	}
	out := map[enums.AlertLevel]int{}
	for _, row := range open {
		out[row.Level]++
	}
	return out, nil
}

type outcome int

const (
	outcomeUnchanged outcome = iota
	outcomeRaised
	outcomeUpdated
)

func (t *Tracker) apply(ctx context.Context, alert Alert, open []models.StockAlert) (*models.StockAlert, outcome, error) {
	if len(open) == 0 {
		record := &models.StockAlert{
			ID:        uuid.New(),
			ProductID: alert.Product.ID,
			Level:     alert.Level,
			Status:    enums.AlertStatusActive,
			Quantity:  alert.Product.Quantity,
			Threshold: alert.Product.ReorderThreshold,
			Message:   alert.Message(),
		}
		if err := t.repo.Create(ctx, record); err != nil {
			return nil, outcomeUnchanged, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create alert")
		}
		return record, outcomeRaised, t.notify(ctx, record, alert)
	}

	record := open[0]
	if len(open) > 1 {
		if _, err := t.resolve(ctx, open[1:]); err != nil {
			return nil, outcomeUnchanged, err
		}
	}
	if record.Level == alert.Level {
		// an ACTIVE alert whose first delivery failed is retried on the next evaluation
		if record.Status == enums.AlertStatusActive && record.LastNotifiedAt == nil {
			return &record, outcomeUnchanged, t.notify(ctx, &record, alert)
		}
		return &record, outcomeUnchanged, nil
	}

	escalated := severity(alert.Level) < severity(record.Level)
	record.Level = alert.Level
	record.Quantity = alert.Product.Quantity
	record.Threshold = alert.Product.ReorderThreshold
	record.Message = alert.Message()
	if escalated {
		record.Status = enums.AlertStatusActive
		record.AcknowledgedAt = nil
	}
	if err := t.repo.Save(ctx, &record); err != nil {
		return nil, outcomeUnchanged, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update alert")
	}
	if !escalated {
		return &record, outcomeUpdated, nil
	}
	return &record, outcomeUpdated, t.notify(ctx, &record, alert)
}

func (t *Tracker) resolve(ctx context.Context, open []models.StockAlert) (int64, error) {
	if len(open) == 0 {
		return 0, nil
	}
	ids := make([]uuid.UUID, 0, len(open))
	for _, row := range open {
		ids = append(ids, row.ID)
	}
	n, err := t.repo.ResolveOpen(ctx, ids, t.now())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: resolve alerts")
	}
	return n, nil
}

func (t *Tracker) notify(ctx context.Context, record *models.StockAlert, alert Alert) error {
	if t.notifier == nil {
		return nil
	}
	ctx = t.logg.WithProductID(ctx, record.ProductID.String())
	key := record.ProductID.String() + ":" + string(record.Level)
	allowed, err := t.cooldown.Allow(ctx, key)
	if err != nil {
		t.logg.Error(ctx, "alert cooldown check failed", err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cooldown check failed")
	}
	if !allowed {
		t.logg.Debug(ctx, "alert notification suppressed by cooldown")
		return nil
	}

	err = t.notifier.Notify(ctx, Notification{
		AlertID:   record.ID,
		ProductID: record.ProductID,
		SKU:       alert.Product.SKU,
		Name:      alert.Product.Name,
		Level:     record.Level,
		Quantity:  record.Quantity,
		Threshold: record.Threshold,
		Message:   record.Message,
		RaisedAt:  t.now(),
	})
	if err != nil {
		if relErr := t.cooldown.Release(ctx, key); relErr != nil {
			t.logg.Error(ctx, "failed to release alert cooldown", relErr)
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "alert notification failed")
	}

	now := t.now()
	record.LastNotifiedAt = &now
	if err := t.repo.Save(ctx, record); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: record notification time")
	}
	return nil
}

func (t *Tracker) load(ctx context.Context, id uuid.UUID) (*models.StockAlert, error) {
	alert, err := t.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "alert not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load alert")
	}
	return alert, nil
}

func alertStateError(alert *models.StockAlert, action string) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot %s a %s alert", action, alert.Status)).
		WithDetails(map[string]string{
			"alert_id": alert.ID.String(),
			"status":   string(alert.Status),
			"action":   action,
		})
}

// severity orders levels from most (0) to least urgent.
func severity(level enums.AlertLevel) int {
	switch level {
	case enums.AlertLevelOutOfStock:
		return 0
	case enums.AlertLevelCriticalLow:
		return 1
	}
	return 2
}
