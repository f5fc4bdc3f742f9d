package dto

import "time"

// EnrollmentResponse represents an enrollment record
type EnrollmentResponse struct {
	ID         int64     `json:"id"`
	StudentID  int64     `json:"studentId"`
	CourseID   int64     `json:"courseId"`
	EnrolledAt time.Time `json:"enrolledAt"`
	IsActive   bool      `json:"isActive"`

	// Populated in listings
	CourseTitle string `json:"courseTitle,omitempty"`
	StudentName string `json:"studentName,omitempty"`
}

// CourseEnrollmentsResponse is a staff view of a course's roster
type CourseEnrollmentsResponse struct {
	Enrollments    []EnrollmentResponse `json:"enrollments"`
	PaginationInfo PaginationInfo       `json:"pagination"`
}

// MyCoursesResponse lists the calling student's active enrollments with
// the courses they point at.
type MyCoursesResponse struct {
	Enrollments []EnrolledCourse `json:"enrollments"`
}

// EnrolledCourse pairs an enrollment with its course
type EnrolledCourse struct {
	Enrollment EnrollmentResponse `json:"enrollment"`
	Course     CourseResponse     `json:"course"`
}
