package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	noteapp "github.com/organizer-api/internal/application/note"
	personapp "github.com/organizer-api/internal/application/person"
	reminderapp "github.com/organizer-api/internal/application/reminder"
	"github.com/organizer-api/internal/application/scheduling"
	"github.com/organizer-api/internal/application/session"
	"github.com/organizer-api/internal/config"
	"github.com/organizer-api/internal/transport/http/handler"
	appmiddleware "github.com/organizer-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10 — applied to the public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	schedulerSvc := scheduling.NewService(deps.Gateway)
	reminderSvc := reminderapp.NewService(deps.ReminderRepo, deps.PersonRepo, schedulerSvc, deps.Logger)
	personSvc := personapp.NewService(deps.PersonRepo, deps.ReminderRepo, deps.NoteRepo, schedulerSvc, deps.Logger)
	noteSvc := noteapp.NewService(deps.NoteRepo, deps.PersonRepo)
	var signer session.Signer
	if deps.JWTProvider != nil {
		signer = deps.JWTProvider
	}
	sessionSvc := session.NewService(cfg.OwnerPassphraseHash, signer)

	healthH := handler.NewHealthHandler()
	sessionH := handler.NewSessionHandler(sessionSvc)
	personH := handler.NewPersonHandler(personSvc)
	noteH := handler.NewNoteHandler(noteSvc)
	reminderH := handler.NewReminderHandler(reminderSvc)
	callbackH := handler.NewCallbackHandler(deps.Navigation)
	navH := handler.NewNavigationHandler(deps.Navigation)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/sessions/login", sessionH.Login)

		// Platform notification callbacks — invoked by the platform, not the UI.
		r.Group(func(r chi.Router) {
			r.Use(sensitiveRL.Limit)
			r.Post("/platform/callbacks/will-present", callbackH.WillPresent)
			r.Post("/platform/callbacks/did-respond", callbackH.DidRespond)
		})

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/people", personH.List)
			r.Post("/people", personH.Create)
			r.Get("/people/{id}", personH.Get)
			r.Put("/people/{id}", personH.Update)
			r.Delete("/people/{id}", personH.Delete)
			r.Get("/people/{id}/reminders", reminderH.ListByPerson)
			r.Get("/people/{id}/notes", noteH.ListByPerson)

			r.Get("/notes", noteH.List)
			r.Post("/notes", noteH.Create)
			r.Get("/notes/{id}", noteH.Get)
			r.Put("/notes/{id}", noteH.Update)
			r.Delete("/notes/{id}", noteH.Delete)

			r.Get("/reminders", reminderH.List)
			r.Get("/reminders/due-soon", reminderH.ListDueSoon)
			r.Post("/reminders", reminderH.Create)
			r.Get("/reminders/{id}", reminderH.Get)
			r.Put("/reminders/{id}", reminderH.Update)
			r.Delete("/reminders/{id}", reminderH.Delete)
			r.Post("/reminders/{id}/complete", reminderH.Complete)
			r.Post("/reminders/{id}/uncomplete", reminderH.Uncomplete)
			r.Put("/reminders/{id}/person", reminderH.Link)
			r.Delete("/reminders/{id}/person", reminderH.Unlink)

			r.Get("/navigation/pending", navH.PendingRoute)
		})
	})

	return r
}
