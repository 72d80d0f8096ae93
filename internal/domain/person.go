package domain

import "time"

// Person is a contact the owner keeps track of.
type Person struct {
	PersonID    string     `json:"id" dynamodbav:"person_id"`
	DisplayName string     `json:"display_name" dynamodbav:"display_name"`
	Email       *string    `json:"email,omitempty" dynamodbav:"email"`
	Phone       *string    `json:"phone,omitempty" dynamodbav:"phone"`
	Birthday    *time.Time `json:"birthday,omitempty" dynamodbav:"birthday"`
	CreatedAt   time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt   time.Time  `json:"updated" dynamodbav:"updated_at"`
}

type CreatePersonRequest struct {
	DisplayName string  `json:"display_name" validate:"required"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Phone       *string `json:"phone"`
	Birthday    *string `json:"birthday"` // expected format: YYYY-MM-DD
}

type UpdatePersonRequest struct {
	DisplayName *string `json:"display_name"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Phone       *string `json:"phone"`
	Birthday    *string `json:"birthday"`
}
