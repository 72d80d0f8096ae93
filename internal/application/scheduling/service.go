package scheduling

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/organizer-api/internal/domain"
	"github.com/organizer-api/internal/pkg/deeplink"
)

// fallbackTitle is shown when a reminder's linked person has no usable
// display name.
const fallbackTitle = "Reminder"

// Payload keys attached to every submitted notification.
const (
	PayloadReminderID = "reminderID"
	PayloadDeepLink   = "deepLink"
)

// Service keeps one reminder's platform notification in sync with its domain
// state. Every schedule call cancels first, which makes the operation
// idempotent under repeated or out-of-order calls: the last call wins.
type Service interface {
	// ScheduleReminder converges the platform notification for r: it always
	// cancels under r.NotificationID, then submits a fresh registration only
	// if the reminder is schedulable at now. The returned error is for
	// logging; the caller's save flow must not abort on it.
	ScheduleReminder(ctx context.Context, r *domain.Reminder, now time.Time) error

	// RescheduleReminder is an alias for ScheduleReminder; the cancel-first
	// behavior already handles rescheduling in place.
	RescheduleReminder(ctx context.Context, r *domain.Reminder, now time.Time) error

	// CancelReminder removes r's platform notification unconditionally.
	CancelReminder(ctx context.Context, r *domain.Reminder) error

	// CancelReminders is the bulk variant, for mass deletions.
	CancelReminders(ctx context.Context, rs []domain.Reminder) error
}

type service struct {
	gateway Gateway

	// locks serializes gateway calls per notification ID so overlapping
	// schedule/cancel pairs for the same reminder cannot interleave.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(gateway Gateway) Service {
	return &service{
		gateway: gateway,
		locks:   make(map[string]*sync.Mutex),
	}
}

func (s *service) ScheduleReminder(ctx context.Context, r *domain.Reminder, now time.Time) error {
	lock := s.lockFor(r.NotificationID)
	lock.Lock()
	defer lock.Unlock()

	// Cancel-before-submit: guarantees at most one outstanding notification
	// per notification ID no matter how often or in what order callers
	// re-evaluate the same reminder.
	if err := s.gateway.Cancel(ctx, r.NotificationID); err != nil {
		return fmt.Errorf("cancel notification %s: %w", r.NotificationID, err)
	}

	if !ShouldSchedule(r, now) {
		return nil
	}

	n := Notification{
		Title: notificationTitle(r),
		Body:  r.Message,
		// Minute resolution matches the platform's calendar-trigger
		// semantics; seconds are discarded.
		FireAt: r.DueDate.Truncate(time.Minute),
		Payload: map[string]string{
			PayloadReminderID: r.ReminderID,
			PayloadDeepLink:   deeplink.Encode(r.ReminderID),
		},
	}
	if err := s.gateway.Submit(ctx, r.NotificationID, n); err != nil {
		return fmt.Errorf("submit notification %s: %w", r.NotificationID, err)
	}
	return nil
}

func (s *service) RescheduleReminder(ctx context.Context, r *domain.Reminder, now time.Time) error {
	return s.ScheduleReminder(ctx, r, now)
}

func (s *service) CancelReminder(ctx context.Context, r *domain.Reminder) error {
	lock := s.lockFor(r.NotificationID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.gateway.Cancel(ctx, r.NotificationID); err != nil {
		return fmt.Errorf("cancel notification %s: %w", r.NotificationID, err)
	}
	return nil
}

func (s *service) CancelReminders(ctx context.Context, rs []domain.Reminder) error {
	if len(rs) == 0 {
		return nil
	}
	ids := make([]string, 0, len(rs))
	for i := range rs {
		ids = append(ids, rs[i].NotificationID)
	}
	if err := s.gateway.CancelBatch(ctx, ids); err != nil {
		return fmt.Errorf("cancel %d notifications: %w", len(ids), err)
	}
	return nil
}

func (s *service) lockFor(notificationID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.locks[notificationID]; ok {
		return l
	}
	l := &sync.Mutex{}
	s.locks[notificationID] = l
	return l
}

// notificationTitle prefers the linked person's non-empty display name over
// the generic fallback label.
func notificationTitle(r *domain.Reminder) string {
	if r.Person != nil && strings.TrimSpace(r.Person.DisplayName) != "" {
		return r.Person.DisplayName
	}
	return fallbackTitle
}
