package models

import "time"

// Enrollment links a student to a course. The pair (student_id, course_id)
// is unique; a student never holds two enrollment records for one course.
type Enrollment struct {
	ID         int64     `json:"id" db:"id"`
	StudentID  int64     `json:"studentId" db:"student_id"`
	CourseID   int64     `json:"courseId" db:"course_id"`
	EnrolledAt time.Time `json:"enrolledAt" db:"enrolled_at"`
	IsActive   bool      `json:"isActive" db:"is_active"`

	// Relations (populated when needed)
	Student *Student `json:"student,omitempty"`
	Course  *Course  `json:"course,omitempty"`
}
