package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestCronJobMetricsTracksOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewCronJobMetrics(reg)
	job := "low_stock_scan"
	metrics.ObserveDuration(job, 250*time.Millisecond)
	metrics.IncSuccess(job)
	metrics.IncFailure(job)
	metrics.IncFailure(job)
	metrics.IncSkipped()

	if got := testutil.ToFloat64(metrics.runs.WithLabelValues(job, outcomeSuccess)); got != 1 {
		t.Fatalf("expected success=1, got %f", got)
	}
	if got := testutil.ToFloat64(metrics.runs.WithLabelValues(job, outcomeFailure)); got != 2 {
		t.Fatalf("expected failure=2, got %f", got)
	}
	if got := testutil.ToFloat64(metrics.skipped); got != 1 {
		t.Fatalf("expected skipped=1, got %f", got)
	}
	if got := testutil.ToFloat64(metrics.lastSuccess.WithLabelValues(job)); got < float64(time.Now().Add(-time.Minute).Unix()) {
		t.Fatalf("expected a recent last-success timestamp, got %f", got)
	}

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchHistogramSum(mfs, "grocer_job_duration_seconds", "job", job); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got != 0.25 {
		t.Fatalf("expected duration sum 0.25, got %f", got)
	}
}

func TestInventoryMetricsCountsMovementsAndAlerts(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewInventoryMetrics(reg)
	metrics.ObserveMovement("SALE", -3)
	metrics.ObserveMovement("SALE", -2)
	metrics.IncRejected("INSUFFICIENT_STOCK")
	metrics.SetOpenAlerts(4)
	metrics.IncNotification("console", true)
	metrics.ObserveMovement("", 4)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "grocer_stock_movements_total", "kind", "SALE"); err != nil || got != 2 {
		t.Fatalf("expected 2 sale movements, got %f err=%v", got, err)
	}
	if got, err := fetchCounterValue(mfs, "grocer_stock_movement_units_total", "kind", "SALE"); err != nil || got != 5 {
		t.Fatalf("expected 5 sale units, got %f err=%v", got, err)
	}
	if got, err := fetchCounterValue(mfs, "grocer_stock_movements_rejected_total", "code", "INSUFFICIENT_STOCK"); err != nil || got != 1 {
		t.Fatalf("expected 1 rejection, got %f err=%v", got, err)
	}
	if got, err := fetchCounterValue(mfs, "grocer_alert_notifications_total", "channel", "console"); err != nil || got != 1 {
		t.Fatalf("expected 1 notification, got %f err=%v", got, err)
	}
	if got, err := fetchCounterValue(mfs, "grocer_stock_movements_total", "kind", "unknown"); err != nil || got != 1 {
		t.Fatalf("expected empty kind recorded as unknown, got %f err=%v", got, err)
	}
	gauge := findMetricFamily(mfs, "grocer_open_stock_alerts")
	if gauge == nil || gauge.GetMetric()[0].GetGauge().GetValue() != 4 {
		t.Fatalf("expected open alerts gauge 4")
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var inv *InventoryMetrics
	inv.ObserveMovement("SALE", -1)
	inv.SetOpenAlerts(1)
	var cron *CronJobMetrics
	cron.IncSuccess("x")
	cron.IncSkipped()
	NewCronJobMetrics(nil).IncFailure("x")
	NewInventoryMetrics(nil).IncRejected("X")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
