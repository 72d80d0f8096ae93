package navigation

import (
	"log/slog"
	"sync"

	"github.com/organizer-api/internal/pkg/deeplink"
)

// Handler receives the reminder ID decoded from a delivered deep link.
type Handler func(reminderID string)

// Service holds the single pending in-app navigation target and dispatches
// decoded deep links to the registered handler.
//
// All pending-route reads and writes happen under one mutex; that mutex is
// the designated context the UI and the platform callbacks share.
type Service interface {
	// RegisterHandler stores the handler invoked for each decoded link.
	// Exactly one handler is kept; the last registration wins.
	RegisterHandler(h Handler)

	// Deliver decodes raw and hands the reminder ID to the registered
	// handler. Links that fail to decode are dropped silently: no navigation
	// state changes and no error surfaces.
	Deliver(raw string)

	// SetPending records reminderID as the pending navigation target,
	// replacing any previous one. It is the default handler wired at startup.
	SetPending(reminderID string)

	// ConsumePending returns the pending target and clears it, so unrelated
	// re-renders cannot re-trigger the same navigation.
	ConsumePending() (string, bool)
}

type service struct {
	log *slog.Logger

	mu       sync.Mutex
	handler  Handler
	pending  string
	hasRoute bool
}

func NewService(log *slog.Logger) Service {
	s := &service{log: log}
	s.handler = s.SetPending
	return s
}

func (s *service) RegisterHandler(h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = h
}

func (s *service) Deliver(raw string) {
	reminderID, ok := deeplink.Decode(raw)
	if !ok {
		s.log.Debug("dropping undecodable deep link", "uri", raw)
		return
	}
	s.mu.Lock()
	h := s.handler
	s.mu.Unlock()
	// The handler is invoked outside the lock so the default handler can
	// re-enter SetPending.
	if h != nil {
		h(reminderID)
	}
}

func (s *service) SetPending(reminderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = reminderID
	s.hasRoute = true
}

func (s *service) ConsumePending() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasRoute {
		return "", false
	}
	route := s.pending
	s.pending = ""
	s.hasRoute = false
	return route, true
}
