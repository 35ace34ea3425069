package alerts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tauheed2233/Grocery-Inventory-Management-System/internal/ledger"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/enums"
	pkgerrors "github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/errors"
)

func TestRefreshRaisesOnceAndResolvesOnRecovery(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	notifier := &fakeNotifier{}
	tracker := f.tracker(t, notifier)
	p := f.product(t, "MILK", 5, 10)
	led := f.ledger(t, tracker)

	_, err := led.Sell(ctx, p.ID, 1, ledger.MovementOptions{})
	require.NoError(t, err)

	open, err := tracker.repo.ListOpenByProduct(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, enums.AlertLevelCriticalLow, open[0].Level)
	assert.Equal(t, 4, open[0].Quantity)
	assert.NotNil(t, open[0].LastNotifiedAt)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "MILK", notifier.sent[0].SKU)

	_, err = led.Sell(ctx, p.ID, 1, ledger.MovementOptions{})
	require.NoError(t, err)
	open, err = tracker.repo.ListOpenByProduct(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Len(t, notifier.sent, 1)
	// same level: the record keeps the quantity it was raised at
	assert.Equal(t, 4, open[0].Quantity)

	_, err = led.Receive(ctx, p.ID, 20, ledger.MovementOptions{})
	require.NoError(t, err)
	open, err = tracker.repo.ListOpenByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, open)

	resolved := enums.AlertStatusResolved
	rows, err := tracker.List(ctx, &resolved)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.NotNil(t, rows[0].ResolvedAt)
}

func TestRefreshEscalationNotifiesAgain(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	notifier := &fakeNotifier{}
	tracker := f.tracker(t, notifier)
	p := f.product(t, "BREAD", 4, 5)

	record, err := tracker.Refresh(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, enums.AlertLevelLowStock, record.Level)

	_, err = tracker.Acknowledge(ctx, record.ID)
	require.NoError(t, err)

	_, err = f.ledger(t, nil).Sell(ctx, p.ID, 4, ledger.MovementOptions{})
	require.NoError(t, err)

	escalated, err := tracker.Refresh(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, escalated.ID)
	assert.Equal(t, enums.AlertLevelOutOfStock, escalated.Level)
	assert.Equal(t, enums.AlertStatusActive, escalated.Status)
	assert.Len(t, notifier.sent, 2)
}

func TestCooldownSuppressesRepeatNotifications(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	notifier := &fakeNotifier{}
	tracker := f.tracker(t, notifier)
	p := f.product(t, "EGGS", 0, 5)

	record, err := tracker.Refresh(ctx, p.ID)
	require.NoError(t, err)
	_, err = tracker.Resolve(ctx, record.ID)
	require.NoError(t, err)

	again, err := tracker.Refresh(ctx, p.ID)
	require.NoError(t, err)
	assert.NotEqual(t, record.ID, again.ID)
	assert.Len(t, notifier.sent, 1)
	assert.Nil(t, again.LastNotifiedAt)
}

func TestNotificationFailureKeepsAlert(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	notifier := &fakeNotifier{err: errors.New("smtp down")}
	tracker := f.tracker(t, notifier)
	p := f.product(t, "RICE", 1, 5)

	_, err := tracker.Refresh(ctx, p.ID)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))

	open, err := tracker.repo.ListOpenByProduct(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Nil(t, open[0].LastNotifiedAt)

	notifier.err = nil
	record, err := tracker.Refresh(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, open[0].ID, record.ID)
	assert.NotNil(t, record.LastNotifiedAt)
	require.Len(t, notifier.sent, 2)
	assert.Equal(t, "RICE", notifier.sent[1].SKU)

	_, err = tracker.Refresh(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, notifier.sent, 2)
}

func TestAcknowledgeAndResolveStateRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tracker := f.tracker(t, nil)
	p := f.product(t, "SOAP", 0, 2)

	record, err := tracker.Refresh(ctx, p.ID)
	require.NoError(t, err)

	acked, err := tracker.Acknowledge(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.AlertStatusAcknowledged, acked.Status)
	assert.NotNil(t, acked.AcknowledgedAt)

	_, err = tracker.Acknowledge(ctx, record.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	_, err = tracker.Resolve(ctx, record.ID)
	require.NoError(t, err)
	_, err = tracker.Resolve(ctx, record.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	_, err = tracker.Acknowledge(ctx, uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestSyncRaisesAndResolvesDeactivated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tracker := f.tracker(t, &fakeNotifier{})
	a := f.product(t, "A", 0, 3)
	f.product(t, "B", 1, 3)
	f.product(t, "C", 9, 3)

	result, err := tracker.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, SyncResult{Alerting: 2, Raised: 2}, result)

	_, err = f.products.Deactivate(ctx, a.ID)
	require.NoError(t, err)

	result, err = tracker.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, SyncResult{Alerting: 1, Resolved: 1}, result)

	summary, err := tracker.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[enums.AlertLevel]int{enums.AlertLevelCriticalLow: 1}, summary)
}

func TestMemoryCooldownWindow(t *testing.T) {
	c := NewMemoryCooldown(time.Minute)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	ok, err := c.Allow(ctx, "p:LOW_STOCK")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = c.Allow(ctx, "p:LOW_STOCK")
	assert.False(t, ok)
	ok, _ = c.Allow(ctx, "p:OUT_OF_STOCK")
	assert.True(t, ok)

	now = now.Add(time.Minute)
	ok, _ = c.Allow(ctx, "p:LOW_STOCK")
	assert.True(t, ok)

	require.NoError(t, c.Release(ctx, "p:LOW_STOCK"))
	ok, _ = c.Allow(ctx, "p:LOW_STOCK")
	assert.True(t, ok)
}
