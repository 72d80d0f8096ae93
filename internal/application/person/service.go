package person

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

type PersonStore interface {
	Put(ctx context.Context, p *domain.Person) error
	Get(ctx context.Context, personID string) (*domain.Person, error)
	List(ctx context.Context) ([]domain.Person, error)
	Update(ctx context.Context, personID string, updates map[string]interface{}) error
	Delete(ctx context.Context, personID string) error
}

type ReminderStore interface {
	ListByPerson(ctx context.Context, personID string) ([]domain.Reminder, error)
	ClearPerson(ctx context.Context, reminderID string) error
}

type NoteStore interface {
	ListByPerson(ctx context.Context, personID string) ([]domain.Note, error)
	ClearPerson(ctx context.Context, noteID string) error
}

type Service interface {
	Create(ctx context.Context, req domain.CreatePersonRequest) (*domain.Person, error)
	Get(ctx context.Context, personID string) (*domain.Person, error)
	List(ctx context.Context) ([]domain.Person, error)
	Update(ctx context.Context, personID string, req domain.UpdatePersonRequest) (*domain.Person, error)
	Delete(ctx context.Context, personID string) error
}

type service struct {
	people    PersonStore
	reminders ReminderStore
	notes     NoteStore
	scheduler scheduling.Service
	log       *slog.Logger
}

func NewService(people PersonStore, reminders ReminderStore, notes NoteStore, scheduler scheduling.Service, log *slog.Logger) Service {
	return &service{people: people, reminders: reminders, notes: notes, scheduler: scheduler, log: log}
}

func (s *service) Create(ctx context.Context, req domain.CreatePersonRequest) (*domain.Person, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", err, domain.ErrBadRequest)
	}
	now := time.Now().UTC()
	p := &domain.Person{
		PersonID:    id.New(),
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Phone:       req.Phone,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Birthday != nil {
		bd, err := time.Parse("2006-01-02", *req.Birthday)
		if err != nil {
			return nil, fmt.Errorf("birthday must be YYYY-MM-DD: %w", domain.ErrBadRequest)
		}
		p.Birthday = &bd
	}
	if err := s.people.Put(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Get(ctx context.Context, personID string) (*domain.Person, error) {
	return s.people.Get(ctx, personID)
}

func (s *service) List(ctx context.Context) ([]domain.Person, error) {
	return s.people.List(ctx)
}

func (s *service) Update(ctx context.Context, personID string, req domain.UpdatePersonRequest) (*domain.Person, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", err, domain.ErrBadRequest)
	}
	p, err := s.people.Get(ctx, personID)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if req.DisplayName != nil {
		updates["display_name"] = *req.DisplayName
		p.DisplayName = *req.DisplayName
	}
	if req.Email != nil {
		updates["email"] = *req.Email
		p.Email = req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
		p.Phone = req.Phone
	}
	if req.Birthday != nil {
		bd, err := time.Parse("2006-01-02", *req.Birthday)
		if err != nil {
			return nil, fmt.Errorf("birthday must be YYYY-MM-DD: %w", domain.ErrBadRequest)
		}
		updates["birthday"] = bd
		p.Birthday = &bd
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update: %w", domain.ErrBadRequest)
	}
	updates["updated_at"] = time.Now().UTC()
	if err := s.people.Update(ctx, personID, updates); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes the contact and detaches everything that referenced it.
// Unlinked reminders are no longer schedulable, so their platform
// notifications are cancelled in one batch. The reminders and notes
// themselves survive the person.
func (s *service) Delete(ctx context.Context, personID string) error {
	if _, err := s.people.Get(ctx, personID); err != nil {
		return err
	}

	linked, err := s.reminders.ListByPerson(ctx, personID)
	if err != nil {
		return err
	}
	for i := range linked {
		if err := s.reminders.ClearPerson(ctx, linked[i].ReminderID); err != nil {
			return err
		}
	}
	if err := s.scheduler.CancelReminders(ctx, linked); err != nil {
		s.log.Warn("notifications not cancelled for deleted person", "person_id", personID, "err", err)
	}

	notes, err := s.notes.ListByPerson(ctx, personID)
	if err != nil {
		return err
	}
	for i := range notes {
		if err := s.notes.ClearPerson(ctx, notes[i].NoteID); err != nil {
			return err
		}
	}

	return s.people.Delete(ctx, personID)
}
