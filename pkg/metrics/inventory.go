package metrics

import "github.com/prometheus/client_golang/prometheus"

// InventoryMetrics tracks stock movements and alert delivery.
type InventoryMetrics struct {
	movements     *prometheus.CounterVec
	units         *prometheus.CounterVec
	rejected      *prometheus.CounterVec
	openAlerts    prometheus.Gauge
	notifications *prometheus.CounterVec
}

// NewInventoryMetrics registers the inventory metrics on the provided registerer.
func NewInventoryMetrics(reg prometheus.Registerer) *InventoryMetrics {
	if reg == nil {
		return &InventoryMetrics{}
	}
	movements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "grocer_stock_movements_total",
		Help: "Applied stock movements by kind.",
	}, []string{"kind"})
	units := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "grocer_stock_movement_units_total",
		Help: "Absolute units moved by kind.",
	}, []string{"kind"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "grocer_stock_movements_rejected_total",
		Help: "Rejected stock movements by error code.",
	}, []string{"code"})
	openAlerts := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "grocer_open_stock_alerts",
		Help: "Products currently at or below their reorder threshold.",
	})
	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "grocer_alert_notifications_total",
		Help: "Alert notifications by channel and result.",
	}, []string{"channel", "result"})
	reg.MustRegister(movements, units, rejected, openAlerts, notifications)
	return &InventoryMetrics{
		movements:     movements,
		units:         units,
		rejected:      rejected,
		openAlerts:    openAlerts,
		notifications: notifications,
	}
}

// ObserveMovement counts one applied movement.
func (m *InventoryMetrics) ObserveMovement(kind string, delta int) {
	if m == nil || m.movements == nil {
		return
	}
	if delta < 0 {
		delta = -delta
	}
	m.movements.WithLabelValues(label(kind)).Inc()
	m.units.WithLabelValues(label(kind)).Add(float64(delta))
}

// IncRejected counts a movement rejected with the given error code.
func (m *InventoryMetrics) IncRejected(code string) {
	if m == nil || m.rejected == nil {
		return
	}
	m.rejected.WithLabelValues(label(code)).Inc()
}

// SetOpenAlerts records the size of the latest full alert scan.
func (m *InventoryMetrics) SetOpenAlerts(count int) {
	if m == nil || m.openAlerts == nil {
		return
	}
	m.openAlerts.Set(float64(count))
}

// IncNotification counts one notification attempt.
func (m *InventoryMetrics) IncNotification(channel string, ok bool) {
	if m == nil || m.notifications == nil {
		return
	}
	result := "success"
	if !ok {
		result = "failure"
	}
	m.notifications.WithLabelValues(label(channel), result).Inc()
}
