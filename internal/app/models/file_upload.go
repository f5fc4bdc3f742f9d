package models

import "time"

// FileUpload represents a file uploaded to a course.
type FileUpload struct {
	ID          int64     `json:"id" db:"id"`
	UploadedBy  int64     `json:"uploadedBy" db:"uploaded_by"`
	CourseID    int64     `json:"courseId" db:"course_id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description,omitempty" db:"description"`
	FileName    string    `json:"fileName" db:"file_name"` // original filename
	FilePath    string    `json:"filePath" db:"file_path"` // path relative to the storage root
	FileSize    int64     `json:"fileSize" db:"file_size"`
	MimeType    string    `json:"mimeType" db:"mime_type"`
	UploadedAt  time.Time `json:"uploadedAt" db:"uploaded_at"`
}
