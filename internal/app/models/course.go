package models

import "time"

// Course represents a course students can enroll in.
type Course struct {
	ID          int64      `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Instructor  string     `json:"instructor" db:"instructor"`
	Credits     int        `json:"credits" db:"credits"`
	Difficulty  Difficulty `json:"difficulty" db:"difficulty"`
	MaxStudents int        `json:"maxStudents" db:"max_students"`
	StartDate   time.Time  `json:"startDate" db:"start_date"`
	EndDate     time.Time  `json:"endDate" db:"end_date"`
	IsActive    bool       `json:"isActive" db:"is_active"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`

	// EnrolledCount is computed from the enrollments table, no db column.
	EnrolledCount int `json:"enrolledCount,omitempty"`
}
