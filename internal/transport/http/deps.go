package http

import (
	"log/slog"

	"github.com/organizer-api/internal/application/navigation"
	"github.com/organizer-api/internal/application/scheduling"
	jwtinfra "github.com/organizer-api/internal/infrastructure/jwt"
	"github.com/organizer-api/internal/infrastructure/dynamo"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	PersonRepo   *dynamo.PersonRepo
	NoteRepo     *dynamo.NoteRepo
	ReminderRepo *dynamo.ReminderRepo

	// Gateway is the platform notification boundary the scheduler drives.
	Gateway scheduling.Gateway

	// Navigation owns the pending deep-link route; constructed once at
	// startup so the callback handlers and the UI endpoint share it.
	Navigation navigation.Service

	JWTProvider *jwtinfra.Provider
	Logger      *slog.Logger
}
