package scheduling

import (
	"context"
	"errors"
	"time"
)

// Gateway error taxonomy. Implementations wrap platform causes so callers can
// discriminate with errors.Is without depending on SDK error types.
var (
	// ErrPermissionDenied means notification authorization was declined or
	// never granted. Not fatal: the system keeps running and notifications
	// simply never fire.
	ErrPermissionDenied = errors.New("notification permission denied")

	// ErrSchedulingFailure means the platform rejected a submit. The
	// preceding cancel already guaranteed no stale notification remains, so
	// callers treat it as a no-op and log it.
	ErrSchedulingFailure = errors.New("notification scheduling failure")
)

// Notification is the content of one scheduled platform notification.
type Notification struct {
	Title   string
	Body    string
	FireAt  time.Time
	Payload map[string]string
}

// Gateway is the boundary abstraction over the platform notification service.
// All operations are keyed by the reminder's notification ID.
type Gateway interface {
	// Submit registers a one-shot, non-repeating notification. Submitting
	// under an existing notification ID replaces the previous registration.
	Submit(ctx context.Context, notificationID string, n Notification) error

	// Cancel removes both a not-yet-fired and an already-fired-but-undismissed
	// notification. Cancelling a notification that does not exist is a no-op.
	Cancel(ctx context.Context, notificationID string) error

	// CancelBatch cancels many notifications in as few platform calls as the
	// platform allows.
	CancelBatch(ctx context.Context, notificationIDs []string) error

	// RequestAuthorization asks the platform for permission to deliver
	// notifications. Idempotent; denial or failure is not fatal.
	RequestAuthorization(ctx context.Context) (bool, error)
}
