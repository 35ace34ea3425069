package cron

import (
	"context"
	"fmt"

	"github.com/tauheed2233/Grocery-Inventory-Management-System/internal/alerts"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/logger"
)

const LowStockScanJobName = "low_stock_scan"

type alertSyncer interface {
	Sync(ctx context.Context) (alerts.SyncResult, error)
}

type lowStockScanJob struct {
	logg    *logger.Logger
	tracker alertSyncer
}

// NewLowStockScanJob builds the job that reconciles stock alerts with current quantities.
func NewLowStockScanJob(logg *logger.Logger, tracker alertSyncer) (Job, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if tracker == nil {
		return nil, fmt.Errorf("alert tracker required")
	}
	return &lowStockScanJob{logg: logg, tracker: tracker}, nil
}

func (j *lowStockScanJob) Name() string { return LowStockScanJobName }

func (j *lowStockScanJob) Run(ctx context.Context) error {
	result, err := j.tracker.Sync(ctx)
	if result.Raised > 0 || result.Resolved > 0 {
		j.logg.Info(j.logg.WithFields(ctx, map[string]any{
			"raised":   result.Raised,
			"resolved": result.Resolved,
		}), "stock alerts changed")
	}
	return err
}
