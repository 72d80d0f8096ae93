package domain

import "time"

// Note is a free-text note, optionally attached to a person.
type Note struct {
	NoteID    string    `json:"id" dynamodbav:"note_id"`
	PersonID  *string   `json:"person_id,omitempty" dynamodbav:"person_id"`
	Title     string    `json:"title" dynamodbav:"title"`
	Body      string    `json:"body" dynamodbav:"body"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}

type CreateNoteRequest struct {
	PersonID *string `json:"person_id"`
	Title    string  `json:"title" validate:"required"`
	Body     string  `json:"body"`
}

type UpdateNoteRequest struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
}
