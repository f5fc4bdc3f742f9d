package services

import (
	"context"
	"errors"
	"io"
	"mime/multipart"

	"github.com/dkaraca/coursehub/internal/app/models"
	"github.com/dkaraca/coursehub/internal/app/models/dto"
	"github.com/dkaraca/coursehub/internal/app/policy"
	"github.com/dkaraca/coursehub/internal/pkg/apperrors"
	"github.com/dkaraca/coursehub/internal/pkg/filestorage"
	"github.com/dkaraca/coursehub/internal/pkg/logger"
)

// DownloadResult carries a stored blob back to the controller for
// streaming. The caller must close Content.
type DownloadResult struct {
	Content  io.ReadCloser
	FileName string
	FileSize int64
	MimeType string
}

// FileService handles course file upload, download and deletion
type FileService struct {
	fileRepo       IFileRepository
	courseRepo     ICourseRepository
	studentRepo    IStudentRepository
	enrollmentRepo IEnrollmentRepository
	storage        filestorage.Storage
}

// NewFileService creates a new FileService
func NewFileService(
	fileRepo IFileRepository,
	courseRepo ICourseRepository,
	studentRepo IStudentRepository,
	enrollmentRepo IEnrollmentRepository,
	storage filestorage.Storage,
) *FileService {
	return &FileService{
		fileRepo:       fileRepo,
		courseRepo:     courseRepo,
		studentRepo:    studentRepo,
		enrollmentRepo: enrollmentRepo,
		storage:        storage,
	}
}

// activelyEnrolled reports whether the viewer is a student with an active
// enrollment in the course.
func (s *FileService) activelyEnrolled(ctx context.Context, viewer Viewer, courseID int64) (bool, error) {
	if viewer.Role != models.RoleStudent {
		return false, nil
	}
	student, err := s.studentRepo.GetByUserID(ctx, viewer.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return false, nil
		}
		return false, err
	}
	return s.enrollmentRepo.IsActivelyEnrolled(ctx, student.ID, courseID)
}

// Upload stores a file under the course's directory and records its
// metadata. Staff upload to any course; students only to courses they are
// actively enrolled in.
func (s *FileService) Upload(ctx context.Context, viewer Viewer, courseID int64, req *dto.UploadFileRequest, fileHeader *multipart.FileHeader) (*dto.FileUploadResponse, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	enrolled, err := s.activelyEnrolled(ctx, viewer, courseID)
	if err != nil {
		return nil, err
	}
	if !policy.CanUploadFile(viewer.Role, enrolled) {
		return nil, apperrors.NewForbiddenError("you must be enrolled in this course to upload files")
	}

	relPath, err := s.storage.SaveFileWithPath(fileHeader, filestorage.Slug(course.Title))
	if err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Msg("Failed to store uploaded file")
		return nil, apperrors.ErrStorageFailure
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	file := &models.FileUpload{
		UploadedBy: viewer.UserID,
		CourseID:   courseID,
		Title:      req.Title,
		FileName:   fileHeader.Filename,
		FilePath:   relPath,
		FileSize:   fileHeader.Size,
		MimeType:   mimeType,
	}
	if req.Description != "" {
		file.Description = &req.Description
	}

	if err := s.fileRepo.Create(ctx, file); err != nil {
		// Roll the blob back so storage does not accumulate orphans.
		if delErr := s.storage.DeleteFile(relPath); delErr != nil {
			logger.Warn().Err(delErr).Str("path", relPath).Msg("Failed to remove blob after insert failure")
		}
		return nil, err
	}

	logger.Info().Int64("fileID", file.ID).Int64("courseID", courseID).
		Str("fileName", file.FileName).Msg("File uploaded")

	resp := ToFileUploadResponse(file)
	return &resp, nil
}

// Download opens a stored file for streaming. A record whose blob is
// missing or unreadable surfaces as not-found; the broken path is logged
// for the operator.
func (s *FileService) Download(ctx context.Context, viewer Viewer, fileID int64) (*DownloadResult, error) {
	file, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}

	enrolled, err := s.activelyEnrolled(ctx, viewer, file.CourseID)
	if err != nil {
		return nil, err
	}
	if !policy.CanDownloadFile(viewer.Role, enrolled) {
		return nil, apperrors.NewForbiddenError("you must be enrolled in this course to download files")
	}

	content, err := s.storage.Open(file.FilePath)
	if err != nil {
		logger.Error().Err(err).Int64("fileID", fileID).Str("path", file.FilePath).
			Msg("Stored blob unreadable")
		return nil, apperrors.ErrFileNotFound
	}

	return &DownloadResult{
		Content:  content,
		FileName: file.FileName,
		FileSize: file.FileSize,
		MimeType: file.MimeType,
	}, nil
}

// Delete removes a file record and its blob. Allowed for the original
// uploader and staff.
func (s *FileService) Delete(ctx context.Context, viewer Viewer, fileID int64) error {
	file, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return err
	}

	if !policy.CanDeleteFile(viewer.Role, viewer.UserID, file.UploadedBy) {
		return apperrors.NewForbiddenError("only the uploader or staff may delete this file")
	}

	if err := s.fileRepo.Delete(ctx, fileID); err != nil {
		return err
	}

	if err := s.storage.DeleteFile(file.FilePath); err != nil {
		logger.Warn().Err(err).Str("path", file.FilePath).Msg("Failed to remove stored blob")
	}

	logger.Info().Int64("fileID", fileID).Int64("courseID", file.CourseID).Msg("File deleted")
	return nil
}
