package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/organizer-api/internal/application/scheduling"
	"github.com/organizer-api/internal/domain"
	"github.com/organizer-api/internal/pkg/id"
	"github.com/organizer-api/internal/pkg/validate"
)

// ReminderStore is the minimal interface the service requires from the
// reminder persistence layer.
type ReminderStore interface {
	Put(ctx context.Context, r *domain.Reminder) error
	Get(ctx context.Context, reminderID string) (*domain.Reminder, error)
	List(ctx context.Context) ([]domain.Reminder, error)
	ListByPerson(ctx context.Context, personID string) ([]domain.Reminder, error)
	Update(ctx context.Context, reminderID string, updates map[string]interface{}) error
	ClearPerson(ctx context.Context, reminderID string) error
	Delete(ctx context.Context, reminderID string) error
}

// PersonStore resolves linked contacts for schedulability and display names.
type PersonStore interface {
	Get(ctx context.Context, personID string) (*domain.Person, error)
}

type Service interface {
	Create(ctx context.Context, req domain.CreateReminderRequest) (*domain.Reminder, error)
	Get(ctx context.Context, reminderID string) (*domain.Reminder, error)
	List(ctx context.Context) ([]domain.Reminder, error)
	ListDueSoon(ctx context.Context) ([]domain.Reminder, error)
	ListByPerson(ctx context.Context, personID string) ([]domain.Reminder, error)
	Update(ctx context.Context, reminderID string, req domain.UpdateReminderRequest) (*domain.Reminder, error)
	Complete(ctx context.Context, reminderID string) (*domain.Reminder, error)
	Uncomplete(ctx context.Context, reminderID string) (*domain.Reminder, error)
	Link(ctx context.Context, reminderID, personID string) (*domain.Reminder, error)
	Unlink(ctx context.Context, reminderID string) (*domain.Reminder, error)
	Delete(ctx context.Context, reminderID string) error
}

type service struct {
	reminders ReminderStore
	people    PersonStore
	scheduler scheduling.Service
	log       *slog.Logger
}

func NewService(reminders ReminderStore, people PersonStore, scheduler scheduling.Service, log *slog.Logger) Service {
	return &service{reminders: reminders, people: people, scheduler: scheduler, log: log}
}

func (s *service) Create(ctx context.Context, req domain.CreateReminderRequest) (*domain.Reminder, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", err, domain.ErrBadRequest)
	}
	due, err := time.Parse(time.RFC3339, req.DueDate)
	if err != nil {
		return nil, fmt.Errorf("due_date must be RFC 3339: %w", domain.ErrBadRequest)
	}
	if req.PersonID != nil {
		if _, err := s.people.Get(ctx, *req.PersonID); err != nil {
			return nil, err
		}
	}
	now := time.Now().UTC()
	rem := &domain.Reminder{
		ReminderID: id.New(),
		// Generated exactly once; edits reschedule under this same key.
		NotificationID: id.New(),
		Message:        req.Message,
		DueDate:        due.UTC(),
		Completed:      false,
		PersonID:       req.PersonID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.reminders.Put(ctx, rem); err != nil {
		return nil, err
	}
	s.hydratePerson(ctx, rem)
	s.converge(ctx, rem)
	return rem, nil
}

func (s *service) Get(ctx context.Context, reminderID string) (*domain.Reminder, error) {
	rem, err := s.reminders.Get(ctx, reminderID)
	if err != nil {
		return nil, err
	}
	s.hydratePerson(ctx, rem)
	return rem, nil
}

func (s *service) List(ctx context.Context) ([]domain.Reminder, error) {
	reminders, err := s.reminders.List(ctx)
	if err != nil {
		return nil, err
	}
	s.hydrateAll(ctx, reminders)
	return reminders, nil
}

// ListDueSoon filters the incomplete reminders due within the next 24 hours
// (inclusive upper bound).
func (s *service) ListDueSoon(ctx context.Context) ([]domain.Reminder, error) {
	reminders, err := s.reminders.List(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	dueSoon := make([]domain.Reminder, 0)
	for i := range reminders {
		if scheduling.IsDueSoon(&reminders[i], now) {
			dueSoon = append(dueSoon, reminders[i])
		}
	}
	s.hydrateAll(ctx, dueSoon)
	return dueSoon, nil
}

func (s *service) ListByPerson(ctx context.Context, personID string) ([]domain.Reminder, error) {
	reminders, err := s.reminders.ListByPerson(ctx, personID)
	if err != nil {
		return nil, err
	}
	s.hydrateAll(ctx, reminders)
	return reminders, nil
}

func (s *service) Update(ctx context.Context, reminderID string, req domain.UpdateReminderRequest) (*domain.Reminder, error) {
	rem, err := s.reminders.Get(ctx, reminderID)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if req.Message != nil {
		updates["message"] = *req.Message
		rem.Message = *req.Message
	}
	if req.DueDate != nil {
		due, err := time.Parse(time.RFC3339, *req.DueDate)
		if err != nil {
			return nil, fmt.Errorf("due_date must be RFC 3339: %w", domain.ErrBadRequest)
		}
		updates["due_date"] = due.UTC()
		rem.DueDate = due.UTC()
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update: %w", domain.ErrBadRequest)
	}
	updates["updated_at"] = time.Now().UTC()
	if err := s.reminders.Update(ctx, reminderID, updates); err != nil {
		return nil, err
	}
	s.hydratePerson(ctx, rem)
	s.converge(ctx, rem)
	return rem, nil
}

func (s *service) Complete(ctx context.Context, reminderID string) (*domain.Reminder, error) {
	return s.setCompleted(ctx, reminderID, true)
}

func (s *service) Uncomplete(ctx context.Context, reminderID string) (*domain.Reminder, error) {
	return s.setCompleted(ctx, reminderID, false)
}

func (s *service) setCompleted(ctx context.Context, reminderID string, completed bool) (*domain.Reminder, error) {
	rem, err := s.reminders.Get(ctx, reminderID)
	if err != nil {
		return nil, err
	}
	if err := s.reminders.Update(ctx, reminderID, map[string]interface{}{
		"completed":  completed,
		"updated_at": time.Now().UTC(),
	}); err != nil {
		return nil, err
	}
	rem.Completed = completed
	s.hydratePerson(ctx, rem)
	s.converge(ctx, rem)
	return rem, nil
}

func (s *service) Link(ctx context.Context, reminderID, personID string) (*domain.Reminder, error) {
	rem, err := s.reminders.Get(ctx, reminderID)
	if err != nil {
		return nil, err
	}
	if _, err := s.people.Get(ctx, personID); err != nil {
		return nil, err
	}
	if err := s.reminders.Update(ctx, reminderID, map[string]interface{}{
		"person_id":  personID,
		"updated_at": time.Now().UTC(),
	}); err != nil {
		return nil, err
	}
	rem.PersonID = &personID
	s.hydratePerson(ctx, rem)
	s.converge(ctx, rem)
	return rem, nil
}

func (s *service) Unlink(ctx context.Context, reminderID string) (*domain.Reminder, error) {
	rem, err := s.reminders.Get(ctx, reminderID)
	if err != nil {
		return nil, err
	}
	if err := s.reminders.ClearPerson(ctx, reminderID); err != nil {
		return nil, err
	}
	rem.PersonID = nil
	rem.Person = nil
	s.converge(ctx, rem)
	return rem, nil
}

func (s *service) Delete(ctx context.Context, reminderID string) error {
	rem, err := s.reminders.Get(ctx, reminderID)
	if err != nil {
		return err
	}
	if err := s.reminders.Delete(ctx, reminderID); err != nil {
		return err
	}
	if err := s.scheduler.CancelReminder(ctx, rem); err != nil {
		s.log.Warn("reminder notification not cancelled", "reminder_id", rem.ReminderID, "err", err)
	}
	return nil
}

// converge re-evaluates the platform notification for the reminder's current
// state. Gateway failures are logged, never returned: the domain record is
// authoritative and a save flow must not abort because its mirror lagged.
func (s *service) converge(ctx context.Context, rem *domain.Reminder) {
	if err := s.scheduler.ScheduleReminder(ctx, rem, time.Now().UTC()); err != nil {
		s.log.Warn("reminder notification out of sync", "reminder_id", rem.ReminderID, "err", err)
	}
}

// hydratePerson fills the weak person back-reference. A dangling person_id
// leaves the reference empty rather than failing the read.
func (s *service) hydratePerson(ctx context.Context, rem *domain.Reminder) {
	if rem.PersonID == nil {
		rem.Person = nil
		return
	}
	p, err := s.people.Get(ctx, *rem.PersonID)
	if err != nil {
		rem.Person = nil
		return
	}
	rem.Person = &domain.PersonRef{PersonID: p.PersonID, DisplayName: p.DisplayName}
}

func (s *service) hydrateAll(ctx context.Context, reminders []domain.Reminder) {
	cache := map[string]*domain.PersonRef{}
	for i := range reminders {
		rem := &reminders[i]
		if rem.PersonID == nil {
			continue
		}
		if ref, ok := cache[*rem.PersonID]; ok {
			rem.Person = ref
			continue
		}
		s.hydratePerson(ctx, rem)
		cache[*rem.PersonID] = rem.Person
	}
}
