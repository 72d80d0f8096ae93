package scheduling

import (
	"time"

	"github.com/organizer-api/internal/domain"
)

// DueSoonWindow is the inclusive look-ahead window for "due soon" listings.
const DueSoonWindow = 24 * time.Hour

// ShouldCancel reports whether no platform notification should exist for the
// reminder: it is completed, already past due, or not linked to a person.
func ShouldCancel(r *domain.Reminder, now time.Time) bool {
	return r.Completed || r.DueDate.Before(now) || r.PersonID == nil
}

// ShouldSchedule reports whether exactly one platform notification should
// exist for the reminder.
func ShouldSchedule(r *domain.Reminder, now time.Time) bool {
	return !ShouldCancel(r, now)
}

// IsDueSoon reports whether an incomplete reminder falls due within the next
// 24 hours. The upper bound is inclusive; past-due reminders are never due
// soon regardless of completion.
func IsDueSoon(r *domain.Reminder, now time.Time) bool {
	return !r.Completed && !r.DueDate.Before(now) && r.DueDate.Sub(now) <= DueSoonWindow
}
