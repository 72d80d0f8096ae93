package scheduling

import (
	"testing"
	"time"

	"github.com/organizer-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func linkedReminder(due time.Time) *domain.Reminder {
	pid := "01J0000000000000000000PERS"
	return &domain.Reminder{
		ReminderID:     "01J0000000000000000000REMI",
		NotificationID: "01J0000000000000000000NOTI",
		Message:        "call the dentist",
		DueDate:        due,
		PersonID:       &pid,
	}
}

func TestShouldCancel_CompletedWinsOverEverything(t *testing.T) {
	r := linkedReminder(testNow.Add(2 * time.Hour))
	r.Completed = true
	assert.True(t, ShouldCancel(r, testNow))

	// Still true with a past due date.
	r.DueDate = testNow.Add(-2 * time.Hour)
	assert.True(t, ShouldCancel(r, testNow))

	// And with no person.
	r.PersonID = nil
	assert.True(t, ShouldCancel(r, testNow))
}

func TestShouldCancel_PastDue(t *testing.T) {
	r := linkedReminder(testNow.Add(-time.Second))
	assert.True(t, ShouldCancel(r, testNow))
}

func TestShouldCancel_NoPerson(t *testing.T) {
	r := linkedReminder(testNow.Add(2 * time.Hour))
	r.PersonID = nil
	assert.True(t, ShouldCancel(r, testNow))
}

func TestShouldSchedule_FutureLinkedIncomplete(t *testing.T) {
	r := linkedReminder(testNow.Add(2 * time.Hour))
	assert.True(t, ShouldSchedule(r, testNow))
	assert.False(t, ShouldCancel(r, testNow))
}

func TestShouldSchedule_DueExactlyNow(t *testing.T) {
	// Not before now, so still schedulable.
	r := linkedReminder(testNow)
	assert.True(t, ShouldSchedule(r, testNow))
}

func TestIsDueSoon_Boundaries(t *testing.T) {
	cases := []struct {
		name string
		due  time.Time
		want bool
	}{
		{"due now", testNow, true},
		{"due in an hour", testNow.Add(time.Hour), true},
		{"exactly 24h out is inclusive", testNow.Add(24 * time.Hour), true},
		{"one second past the window", testNow.Add(24*time.Hour + time.Second), false},
		{"past due is never due soon", testNow.Add(-time.Minute), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := linkedReminder(c.due)
			assert.Equal(t, c.want, IsDueSoon(r, testNow))
		})
	}
}

func TestIsDueSoon_CompletedNeverDueSoon(t *testing.T) {
	r := linkedReminder(testNow.Add(time.Hour))
	r.Completed = true
	assert.False(t, IsDueSoon(r, testNow))
}

func TestIsDueSoon_IgnoresPersonLinkage(t *testing.T) {
	r := linkedReminder(testNow.Add(time.Hour))
	r.PersonID = nil
	assert.True(t, IsDueSoon(r, testNow))
}
