package note

import (
	"context"
	"fmt"
	"time"

	"github.com/organizer-api/internal/domain"
	"github.com/organizer-api/internal/pkg/id"
	"github.com/organizer-api/internal/pkg/validate"
)

type NoteStore interface {
	Put(ctx context.Context, n *domain.Note) error
	Get(ctx context.Context, noteID string) (*domain.Note, error)
	List(ctx context.Context) ([]domain.Note, error)
	ListByPerson(ctx context.Context, personID string) ([]domain.Note, error)
	Update(ctx context.Context, noteID string, updates map[string]interface{}) error
	Delete(ctx context.Context, noteID string) error
}

type PersonStore interface {
	Get(ctx context.Context, personID string) (*domain.Person, error)
}

type Service interface {
	Create(ctx context.Context, req domain.CreateNoteRequest) (*domain.Note, error)
	Get(ctx context.Context, noteID string) (*domain.Note, error)
	List(ctx context.Context) ([]domain.Note, error)
	ListByPerson(ctx context.Context, personID string) ([]domain.Note, error)
	Update(ctx context.Context, noteID string, req domain.UpdateNoteRequest) (*domain.Note, error)
	Delete(ctx context.Context, noteID string) error
}

type service struct {
	notes  NoteStore
	people PersonStore
}

func NewService(notes NoteStore, people PersonStore) Service {
	return &service{notes: notes, people: people}
}

func (s *service) Create(ctx context.Context, req domain.CreateNoteRequest) (*domain.Note, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", err, domain.ErrBadRequest)
	}
	if req.PersonID != nil {
		if _, err := s.people.Get(ctx, *req.PersonID); err != nil {
			return nil, err
		}
	}
	now := time.Now().UTC()
	n := &domain.Note{
		NoteID:    id.New(),
		PersonID:  req.PersonID,
		Title:     req.Title,
		Body:      req.Body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.notes.Put(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *service) Get(ctx context.Context, noteID string) (*domain.Note, error) {
	return s.notes.Get(ctx, noteID)
}

func (s *service) List(ctx context.Context) ([]domain.Note, error) {
	return s.notes.List(ctx)
}

func (s *service) ListByPerson(ctx context.Context, personID string) ([]domain.Note, error) {
	return s.notes.ListByPerson(ctx, personID)
}

func (s *service) Update(ctx context.Context, noteID string, req domain.UpdateNoteRequest) (*domain.Note, error) {
	n, err := s.notes.Get(ctx, noteID)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
		n.Title = *req.Title
	}
	if req.Body != nil {
		updates["body"] = *req.Body
		n.Body = *req.Body
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update: %w", domain.ErrBadRequest)
	}
	updates["updated_at"] = time.Now().UTC()
	if err := s.notes.Update(ctx, noteID, updates); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *service) Delete(ctx context.Context, noteID string) error {
	if _, err := s.notes.Get(ctx, noteID); err != nil {
		return err
	}
	return s.notes.Delete(ctx, noteID)
}
