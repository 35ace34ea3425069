package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/enums"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/logger"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/metrics"
)

// Notification is the payload handed to every notifier.
type Notification struct {
	AlertID   uuid.UUID        `json:"alert_id"`
	ProductID uuid.UUID        `json:"product_id"`
	SKU       string           `json:"sku"`
	Name      string           `json:"name"`
	Level     enums.AlertLevel `json:"level"`
	Quantity  int              `json:"quantity"`
	Threshold int              `json:"threshold"`
	Message   string           `json:"message"`
	RaisedAt  time.Time        `json:"raised_at"`
}

// Notifier delivers a notification over one channel.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, n Notification) error
}

// ConsoleNotifier writes one line per notification.
type ConsoleNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsoleNotifier(w io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{w: w}
}

func (c *ConsoleNotifier) Name() string { return "console" }

func (c *ConsoleNotifier) Notify(_ context.Context, n Notification) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintf(c.w, "[%s] %s %s\n", n.RaisedAt.Format(time.DateTime), n.Level, n.Message)
	return err
}

// LogNotifier emits notifications as structured warnings.
type LogNotifier struct {
	logg *logger.Logger
}

func NewLogNotifier(logg *logger.Logger) *LogNotifier {
	if logg == nil {
		logg = logger.Nop()
	}
	return &LogNotifier{logg: logg}
}

func (l *LogNotifier) Name() string { return "log" }

func (l *LogNotifier) Notify(ctx context.Context, n Notification) error {
	ctx = l.logg.WithFields(l.logg.WithProductID(ctx, n.ProductID.String()), map[string]any{
		"sku":       n.SKU,
		"level":     string(n.Level),
		"quantity":  n.Quantity,
		"threshold": n.Threshold,
	})
	l.logg.Warn(ctx, n.Message)
	return nil
}

// Publisher is the slice of the redis client the redis notifier needs.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload any) (int64, error)
}

// RedisNotifier publishes JSON notifications on a pub/sub channel.
type RedisNotifier struct {
	pub     Publisher
	channel string
}

func NewRedisNotifier(pub Publisher, channel string) (*RedisNotifier, error) {
	if pub == nil {
		return nil, fmt.Errorf("redis publisher required")
	}
	if channel == "" {
		return nil, fmt.Errorf("redis channel required")
	}
	return &RedisNotifier{pub: pub, channel: channel}, nil
}

func (r *RedisNotifier) Name() string { return "redis" }

func (r *RedisNotifier) Notify(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	if _, err := r.pub.Publish(ctx, r.channel, payload); err != nil {
		return fmt.Errorf("publish %s: %w", r.channel, err)
	}
	return nil
}

// MultiNotifier fans a notification out to every channel and joins their errors.
type MultiNotifier struct {
	notifiers []Notifier
	metrics   *metrics.InventoryMetrics
}

func NewMultiNotifier(m *metrics.InventoryMetrics, notifiers ...Notifier) *MultiNotifier {
	return &MultiNotifier{notifiers: notifiers, metrics: m}
}

func (m *MultiNotifier) Name() string { return "multi" }

func (m *MultiNotifier) Notify(ctx context.Context, n Notification) error {
	var errs error
	for _, notifier := range m.notifiers {
		err := notifier.Notify(ctx, n)
		m.metrics.IncNotification(notifier.Name(), err == nil)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", notifier.Name(), err))
		}
	}
	return errs
}
