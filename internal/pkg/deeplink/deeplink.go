package deeplink

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/organizer-api/internal/pkg/id"
)

// Scheme is the application's custom URI scheme.
const Scheme = "organizer"

// hostReminder is the route host for reminder links. Other hosts are reserved
// for future route kinds and decode to "no match".
const hostReminder = "reminder"

// Encode builds the deep-link URI for a reminder: organizer://reminder/<id>.
func Encode(reminderID string) string {
	return fmt.Sprintf("%s://%s/%s", Scheme, hostReminder, reminderID)
}

// Decode extracts the reminder ID from a deep-link URI. It returns false for
// a wrong scheme, an unknown host, or a path segment that is not a valid ID.
// An unknown host is "no match", not an error, so new route kinds can be
// added without breaking old links.
func Decode(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	if u.Scheme != Scheme || u.Host != hostReminder {
		return "", false
	}
	seg, _, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
	if !id.Valid(seg) {
		return "", false
	}
	return seg, true
}
