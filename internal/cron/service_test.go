package cron

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/logger"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/metrics"
)

type fakeLock struct {
	acquired bool
	released int
}

func (f *fakeLock) Acquire(context.Context) (bool, error) {
	if f.acquired {
		return false, nil
	}
	f.acquired = true
	return true, nil
}

func (f *fakeLock) Release(context.Context) error {
	f.acquired = false
	f.released++
	return nil
}

type testJob struct {
	name string
	err  error
	runs int
}

func (t *testJob) Name() string { return t.name }

func (t *testJob) Run(context.Context) error {
	t.runs++
	return t.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "monitor-test", Output: io.Discard})
}

func TestServiceRunCycleRunsAllJobsEvenOnFailure(t *testing.T) {
	success := &testJob{name: "success"}
	failure := &testJob{name: "fail", err: errors.New("boom")}
	lock := &fakeLock{}
	reg := prometheus.NewRegistry()
	service, err := NewService(ServiceParams{
		Logger:   testLogger(),
		Registry: NewRegistry(success, failure),
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(reg),
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}

	err = service.RunOnce(context.Background())
	if err == nil || !strings.Contains(err.Error(), "fail: boom") {
		t.Fatalf("expected combined job error, got %v", err)
	}
	if success.runs != 1 || failure.runs != 1 {
		t.Fatalf("expected each job to run once, got %d and %d", success.runs, failure.runs)
	}
	if lock.released != 1 || lock.acquired {
		t.Fatalf("expected lock released after the cycle")
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	// duration, runs and last success are touched; the skipped counter is always exported
	if len(families) != 4 {
		t.Fatalf("expected 4 metric families, got %d", len(families))
	}
}

func TestServiceSkipsCycleWhenLockHeld(t *testing.T) {
	job := &testJob{name: "scan"}
	lock := &fakeLock{acquired: true}
	reg := prometheus.NewRegistry()
	service, err := NewService(ServiceParams{
		Logger:   testLogger(),
		Registry: NewRegistry(job),
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(reg),
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	if err := service.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once: %v", err)
	}
	if job.runs != 0 {
		t.Fatalf("expected job to be skipped, ran %d times", job.runs)
	}
	if lock.released != 0 {
		t.Fatalf("lock released without being acquired")
	}
	expected := `
# HELP grocer_monitor_cycles_skipped_total Monitor cycles skipped because another instance held the lock.
# TYPE grocer_monitor_cycles_skipped_total counter
grocer_monitor_cycles_skipped_total 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "grocer_monitor_cycles_skipped_total"); err != nil {
		t.Fatalf("skipped counter: %v", err)
	}
}

func TestServiceRejectsBadSchedule(t *testing.T) {
	_, err := NewService(ServiceParams{
		Logger:   testLogger(),
		Lock:     NewLocalLock(),
		Schedule: "every now and then",
	})
	if err == nil {
		t.Fatal("expected invalid schedule to fail")
	}
	if _, err := NewService(ServiceParams{Logger: testLogger()}); err == nil {
		t.Fatal("expected missing lock to fail")
	}
}

func TestServiceRunStopsOnCancel(t *testing.T) {
	job := &testJob{name: "scan"}
	service, err := NewService(ServiceParams{
		Logger:   testLogger(),
		Registry: NewRegistry(job),
		Lock:     NewLocalLock(),
		Schedule: "@every 1h",
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := service.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
	if job.runs != 1 {
		t.Fatalf("expected the initial cycle to run once, ran %d", job.runs)
	}
}

func TestCronMetricsCountOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	cronMetrics := metrics.NewCronJobMetrics(reg)
	service, err := NewService(ServiceParams{
		Logger:   testLogger(),
		Registry: NewRegistry(&testJob{name: "scan"}),
		Lock:     NewLocalLock(),
		Metrics:  cronMetrics,
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	for range 2 {
		if err := service.RunOnce(context.Background()); err != nil {
			t.Fatalf("run once: %v", err)
		}
	}
	count, err := testutil.GatherAndCount(reg, "grocer_job_runs_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one labelled run series, got %d", count)
	}
	expected := `
# HELP grocer_job_runs_total Stock monitor job executions by outcome.
# TYPE grocer_job_runs_total counter
grocer_job_runs_total{job="scan",outcome="success"} 2
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "grocer_job_runs_total"); err != nil {
		t.Fatalf("runs counter: %v", err)
	}
}
