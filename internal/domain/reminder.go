package domain

import "time"

// Reminder is a follow-up with a due date, optionally linked to a person.
//
// NotificationID is a second stable identifier, generated once at creation and
// never regenerated on edit. It is the only key under which a platform
// notification is scheduled, so edits replace the notification in place
// instead of leaking orphans.
type Reminder struct {
	ReminderID     string    `json:"id" dynamodbav:"reminder_id"`
	NotificationID string    `json:"notification_id" dynamodbav:"notification_id"`
	Message        string    `json:"message" dynamodbav:"message"`
	DueDate        time.Time `json:"due_date" dynamodbav:"due_date"`
	Completed      bool      `json:"completed" dynamodbav:"completed"`
	PersonID       *string   `json:"person_id,omitempty" dynamodbav:"person_id"`
	CreatedAt      time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt      time.Time `json:"updated" dynamodbav:"updated_at"`

	// Person is hydrated from the people table when the reminder is read;
	// it is never stored on the reminder record itself.
	Person *PersonRef `json:"person,omitempty" dynamodbav:"-"`
}

// PersonRef is the weak back-reference a reminder holds to its linked contact.
type PersonRef struct {
	PersonID    string `json:"id"`
	DisplayName string `json:"display_name"`
}

type CreateReminderRequest struct {
	Message  string  `json:"message" validate:"required"`
	DueDate  string  `json:"due_date" validate:"required"` // RFC 3339
	PersonID *string `json:"person_id"`
}

type UpdateReminderRequest struct {
	Message *string `json:"message"`
	DueDate *string `json:"due_date"` // RFC 3339
}
