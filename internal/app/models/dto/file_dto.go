package dto

import "time"

// UploadFileRequest carries the form fields of a course file upload; the
// blob itself arrives as the "file" part of the multipart body.
type UploadFileRequest struct {
	Title       string `form:"title" binding:"required,max=200"`
	Description string `form:"description"`
}

// FileUploadResponse represents an uploaded course file
type FileUploadResponse struct {
	ID          int64     `json:"id"`
	CourseID    int64     `json:"courseId"`
	UploadedBy  int64     `json:"uploadedBy"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	FileName    string    `json:"fileName"`
	FileSize    int64     `json:"fileSize"`
	MimeType    string    `json:"mimeType"`
	UploadedAt  time.Time `json:"uploadedAt"`
}
