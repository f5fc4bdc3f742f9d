package dto

import "time"

// CreateCourseRequest represents staff course creation
type CreateCourseRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"required"`
	Instructor  string `json:"instructor" binding:"required,max=100"`
	Credits     int    `json:"credits" binding:"required,gt=0"`
	Difficulty  string `json:"difficulty" binding:"required,oneof=beginner intermediate advanced"`
	MaxStudents int    `json:"maxStudents" binding:"required,gt=0"`
	StartDate   string `json:"startDate" binding:"required"` // YYYY-MM-DD
	EndDate     string `json:"endDate" binding:"required"`   // YYYY-MM-DD
	IsActive    *bool  `json:"isActive,omitempty"`
}

// UpdateCourseRequest represents staff course update
type UpdateCourseRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"required"`
	Instructor  string `json:"instructor" binding:"required,max=100"`
	Credits     int    `json:"credits" binding:"required,gt=0"`
	Difficulty  string `json:"difficulty" binding:"required,oneof=beginner intermediate advanced"`
	MaxStudents int    `json:"maxStudents" binding:"required,gt=0"`
	StartDate   string `json:"startDate" binding:"required"`
	EndDate     string `json:"endDate" binding:"required"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

// CourseResponse represents a course in list and detail responses.
// Enrolled is the viewer's own enrollment state.
type CourseResponse struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Instructor    string    `json:"instructor"`
	Credits       int       `json:"credits"`
	Difficulty    string    `json:"difficulty"`
	MaxStudents   int       `json:"maxStudents"`
	EnrolledCount int       `json:"enrolledCount"`
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"`
	IsActive      bool      `json:"isActive"`
	Enrolled      bool      `json:"enrolled"`
}

// CourseListResponse is a paginated course list
type CourseListResponse struct {
	Courses        []CourseResponse `json:"courses"`
	PaginationInfo PaginationInfo   `json:"pagination"`
}

// CourseDetailResponse is a course with its visible files
type CourseDetailResponse struct {
	CourseResponse
	Files []FileUploadResponse `json:"files,omitempty"`
}
