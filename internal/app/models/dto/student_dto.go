package dto

import "time"

// StudentResponse represents a student profile for staff listings
type StudentResponse struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"userId"`
	StudentID   string     `json:"studentId"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Email       string     `json:"email"`
	PhoneNumber *string    `json:"phoneNumber,omitempty"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// StudentListResponse is a paginated student list
type StudentListResponse struct {
	Students       []StudentResponse `json:"students"`
	PaginationInfo PaginationInfo    `json:"pagination"`
}

// UpdateRoleRequest changes an account's role. Only superusers may call
// this, and SUPERUSER itself is not grantable.
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=STUDENT STAFF"`
}
