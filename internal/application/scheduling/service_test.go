package scheduling

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/organizer-api/internal/domain"
	"github.com/organizer-api/internal/pkg/deeplink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGateway models the platform: at most one registration per notification
// ID, replaced on re-submit, removed on cancel. It also records the call
// sequence so tests can assert ordering.
type fakeGateway struct {
	mu      sync.Mutex
	pending map[string]Notification
	calls   []string

	submitErr error
	cancelErr error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{pending: make(map[string]Notification)}
}

func (g *fakeGateway) Submit(_ context.Context, nid string, n Notification) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, "submit:"+nid)
	if g.submitErr != nil {
		return g.submitErr
	}
	g.pending[nid] = n
	return nil
}

func (g *fakeGateway) Cancel(_ context.Context, nid string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, "cancel:"+nid)
	if g.cancelErr != nil {
		return g.cancelErr
	}
	delete(g.pending, nid)
	return nil
}

func (g *fakeGateway) CancelBatch(_ context.Context, nids []string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, "cancelBatch")
	for _, nid := range nids {
		delete(g.pending, nid)
	}
	return nil
}

func (g *fakeGateway) RequestAuthorization(context.Context) (bool, error) { return true, nil }

func (g *fakeGateway) pendingCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.pending)
}

func (g *fakeGateway) pendingFor(nid string) (Notification, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.pending[nid]
	return n, ok
}

func schedulableReminder() *domain.Reminder {
	pid := "01J0000000000000000000PERS"
	return &domain.Reminder{
		ReminderID:     "01J0000000000000000000REMI",
		NotificationID: "01J0000000000000000000NOTI",
		Message:        "send the birthday card",
		DueDate:        testNow.Add(2*time.Hour + 42*time.Second),
		PersonID:       &pid,
		Person:         &domain.PersonRef{PersonID: pid, DisplayName: "Alice Smith"},
	}
}

func TestScheduleReminder_SubmitsWithTruncatedTimeAndDeepLink(t *testing.T) {
	g := newFakeGateway()
	svc := NewService(g)
	r := schedulableReminder()

	require.NoError(t, svc.ScheduleReminder(context.Background(), r, testNow))

	require.Equal(t, 1, g.pendingCount())
	n, ok := g.pendingFor(r.NotificationID)
	require.True(t, ok)
	assert.Equal(t, "Alice Smith", n.Title)
	assert.Equal(t, "send the birthday card", n.Body)
	// Seconds are discarded.
	assert.Equal(t, testNow.Add(2*time.Hour), n.FireAt)
	assert.Equal(t, r.ReminderID, n.Payload[PayloadReminderID])
	assert.Equal(t, deeplink.Encode(r.ReminderID), n.Payload[PayloadDeepLink])
}

func TestScheduleReminder_FallbackTitleWithoutDisplayName(t *testing.T) {
	g := newFakeGateway()
	svc := NewService(g)

	r := schedulableReminder()
	r.Person = &domain.PersonRef{PersonID: *r.PersonID, DisplayName: "   "}
	require.NoError(t, svc.ScheduleReminder(context.Background(), r, testNow))

	n, ok := g.pendingFor(r.NotificationID)
	require.True(t, ok)
	assert.Equal(t, "Reminder", n.Title)
}

func TestScheduleReminder_Idempotent(t *testing.T) {
	g := newFakeGateway()
	svc := NewService(g)
	r := schedulableReminder()

	require.NoError(t, svc.ScheduleReminder(context.Background(), r, testNow))
	require.NoError(t, svc.ScheduleReminder(context.Background(), r, testNow))

	// Exactly one pending registration, no duplicates and no leaks.
	assert.Equal(t, 1, g.pendingCount())
	// Cancel always precedes submit.
	assert.Equal(t, []string{
		"cancel:" + r.NotificationID, "submit:" + r.NotificationID,
		"cancel:" + r.NotificationID, "submit:" + r.NotificationID,
	}, g.calls)
}

func TestScheduleReminder_NotSchedulableCancelsOnly(t *testing.T) {
	g := newFakeGateway()
	svc := NewService(g)

	r := schedulableReminder()
	require.NoError(t, svc.ScheduleReminder(context.Background(), r, testNow))
	require.Equal(t, 1, g.pendingCount())

	r.Completed = true
	require.NoError(t, svc.ScheduleReminder(context.Background(), r, testNow))

	assert.Equal(t, 0, g.pendingCount())
}

func TestScheduleReminder_ToggleConvergesToFinalState(t *testing.T) {
	g := newFakeGateway()
	svc := NewService(g)
	ctx := context.Background()
	r := schedulableReminder()

	// completed true -> false -> true, converging after each toggle.
	r.Completed = true
	require.NoError(t, svc.ScheduleReminder(ctx, r, testNow))
	r.Completed = false
	require.NoError(t, svc.ScheduleReminder(ctx, r, testNow))
	r.Completed = true
	require.NoError(t, svc.ScheduleReminder(ctx, r, testNow))

	// Same gateway state as evaluating the final value once.
	assert.Equal(t, 0, g.pendingCount())
}

func TestScheduleReminder_UnlinkedPersonRemovesPending(t *testing.T) {
	g := newFakeGateway()
	svc := NewService(g)
	ctx := context.Background()

	r := schedulableReminder()
	require.NoError(t, svc.ScheduleReminder(ctx, r, testNow))
	require.Equal(t, 1, g.pendingCount())

	r.PersonID = nil
	r.Person = nil
	require.NoError(t, svc.ScheduleReminder(ctx, r, testNow))

	assert.Equal(t, 0, g.pendingCount())
}

func TestScheduleReminder_SubmitFailureLeavesNoStaleNotification(t *testing.T) {
	g := newFakeGateway()
	svc := NewService(g)
	ctx := context.Background()
	r := schedulableReminder()

	require.NoError(t, svc.ScheduleReminder(ctx, r, testNow))

	g.submitErr = ErrSchedulingFailure
	err := svc.ScheduleReminder(ctx, r, testNow)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchedulingFailure))
	// The preceding cancel already ran, so nothing stale remains.
	assert.Equal(t, 0, g.pendingCount())
}

func TestRescheduleReminder_ReplacesInPlace(t *testing.T) {
	g := newFakeGateway()
	svc := NewService(g)
	ctx := context.Background()

	r := schedulableReminder()
	require.NoError(t, svc.ScheduleReminder(ctx, r, testNow))

	r.DueDate = testNow.Add(5 * time.Hour)
	require.NoError(t, svc.RescheduleReminder(ctx, r, testNow))

	require.Equal(t, 1, g.pendingCount())
	n, _ := g.pendingFor(r.NotificationID)
	assert.Equal(t, testNow.Add(5*time.Hour), n.FireAt)
}

func TestCancelReminder_Unconditional(t *testing.T) {
	g := newFakeGateway()
	svc := NewService(g)
	ctx := context.Background()

	r := schedulableReminder()
	require.NoError(t, svc.ScheduleReminder(ctx, r, testNow))
	require.NoError(t, svc.CancelReminder(ctx, r))
	assert.Equal(t, 0, g.pendingCount())

	// Cancelling again is a no-op, not an error.
	require.NoError(t, svc.CancelReminder(ctx, r))
}

func TestCancelReminders_Bulk(t *testing.T) {
	g := newFakeGateway()
	svc := NewService(g)
	ctx := context.Background()

	rs := make([]domain.Reminder, 3)
	for i := range rs {
		r := schedulableReminder()
		r.NotificationID = r.NotificationID + string(rune('A'+i))
		require.NoError(t, svc.ScheduleReminder(ctx, r, testNow))
		rs[i] = *r
	}
	require.Equal(t, 3, g.pendingCount())

	require.NoError(t, svc.CancelReminders(ctx, rs))
	assert.Equal(t, 0, g.pendingCount())
	assert.Equal(t, "cancelBatch", g.calls[len(g.calls)-1])
}

func TestCancelReminders_EmptySliceSkipsGateway(t *testing.T) {
	g := newFakeGateway()
	svc := NewService(g)

	require.NoError(t, svc.CancelReminders(context.Background(), nil))
	assert.Empty(t, g.calls)
}

func TestScheduleReminder_ConcurrentCallsConverge(t *testing.T) {
	g := newFakeGateway()
	svc := NewService(g)
	r := schedulableReminder()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = svc.ScheduleReminder(context.Background(), r, testNow)
		}()
	}
	wg.Wait()

	// Per-key serialization keeps cancel/submit pairs intact, so exactly one
	// registration survives.
	assert.Equal(t, 1, g.pendingCount())
	assert.Len(t, g.calls, 32)
}
