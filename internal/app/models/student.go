package models

import "time"

// Student defines the student profile based on the 'students' table.
// Exactly one Student may exist per user account (user_id is unique).
type Student struct {
	ID          int64      `json:"id" db:"id"`
	UserID      int64      `json:"userId" db:"user_id"`
	StudentID   string     `json:"studentId" db:"student_id"` // human-readable unique identifier
	PhoneNumber *string    `json:"phoneNumber,omitempty" db:"phone_number"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty" db:"date_of_birth"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`

	// Relation (populated when needed)
	User *User `json:"user,omitempty"`
}
