package services

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkaraca/coursehub/internal/app/models"
	"github.com/dkaraca/coursehub/internal/pkg/apperrors"
)

func fileFixture() *models.FileUpload {
	return &models.FileUpload{
		ID:         7,
		UploadedBy: 10,
		CourseID:   42,
		Title:      "Lecture notes",
		FileName:   "week1.pdf",
		FilePath:   "distributed-systems/week1.pdf",
		FileSize:   2048,
		MimeType:   "application/pdf",
	}
}

func fileRepoWith(file *models.FileUpload) *mockFileRepo {
	return &mockFileRepo{
		getByID: func(ctx context.Context, id int64) (*models.FileUpload, error) {
			if id != file.ID {
				return nil, apperrors.ErrFileNotFound
			}
			return file, nil
		},
	}
}

func enrollmentRepoEnrolled(enrolled bool) *mockEnrollmentRepo {
	return &mockEnrollmentRepo{
		isActivelyEnrolled: func(ctx context.Context, studentID, courseID int64) (bool, error) {
			return enrolled, nil
		},
	}
}

func studentRepoWithProfile() *mockStudentRepo {
	return &mockStudentRepo{
		getByUserID: func(ctx context.Context, userID int64) (*models.Student, error) {
			return &models.Student{ID: 3, UserID: userID, StudentID: "STU1001"}, nil
		},
	}
}

func TestFileService_Download_NotEnrolled(t *testing.T) {
	svc := NewFileService(fileRepoWith(fileFixture()), &mockCourseRepo{},
		studentRepoWithProfile(), enrollmentRepoEnrolled(false), &mockStorage{})

	_, err := svc.Download(context.Background(), Viewer{UserID: 20, Role: models.RoleStudent}, 7)

	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestFileService_Download_EnrolledStudent(t *testing.T) {
	storage := &mockStorage{
		openFn: func(relPath string) (io.ReadCloser, error) {
			assert.Equal(t, "distributed-systems/week1.pdf", relPath)
			return io.NopCloser(strings.NewReader("pdf bytes")), nil
		},
	}
	svc := NewFileService(fileRepoWith(fileFixture()), &mockCourseRepo{},
		studentRepoWithProfile(), enrollmentRepoEnrolled(true), storage)

	result, err := svc.Download(context.Background(), Viewer{UserID: 20, Role: models.RoleStudent}, 7)

	require.NoError(t, err)
	defer result.Content.Close()
	assert.Equal(t, "week1.pdf", result.FileName)
	assert.Equal(t, "application/pdf", result.MimeType)
	data, err := io.ReadAll(result.Content)
	require.NoError(t, err)
	assert.Equal(t, "pdf bytes", string(data))
}

func TestFileService_Download_StaffWithoutEnrollment(t *testing.T) {
	storage := &mockStorage{
		openFn: func(relPath string) (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("pdf bytes")), nil
		},
	}
	svc := NewFileService(fileRepoWith(fileFixture()), &mockCourseRepo{},
		&mockStudentRepo{}, &mockEnrollmentRepo{}, storage)

	result, err := svc.Download(context.Background(), Viewer{UserID: 99, Role: models.RoleStaff}, 7)

	require.NoError(t, err)
	result.Content.Close()
}

func TestFileService_Download_MissingBlob(t *testing.T) {
	storage := &mockStorage{
		openFn: func(relPath string) (io.ReadCloser, error) {
			return nil, os.ErrNotExist
		},
	}
	svc := NewFileService(fileRepoWith(fileFixture()), &mockCourseRepo{},
		&mockStudentRepo{}, &mockEnrollmentRepo{}, storage)

	_, err := svc.Download(context.Background(), Viewer{UserID: 99, Role: models.RoleStaff}, 7)

	assert.ErrorIs(t, err, apperrors.ErrFileNotFound)
}

func TestFileService_Delete_Owner(t *testing.T) {
	var deletedRow int64
	fileRepo := fileRepoWith(fileFixture())
	fileRepo.delete = func(ctx context.Context, id int64) error {
		deletedRow = id
		return nil
	}
	storage := &mockStorage{}
	svc := NewFileService(fileRepo, &mockCourseRepo{}, &mockStudentRepo{}, &mockEnrollmentRepo{}, storage)

	err := svc.Delete(context.Background(), Viewer{UserID: 10, Role: models.RoleStudent}, 7)

	require.NoError(t, err)
	assert.Equal(t, int64(7), deletedRow)
	assert.Equal(t, []string{"distributed-systems/week1.pdf"}, storage.deleted)
}

func TestFileService_Delete_StrangerForbidden(t *testing.T) {
	storage := &mockStorage{}
	svc := NewFileService(fileRepoWith(fileFixture()), &mockCourseRepo{},
		&mockStudentRepo{}, &mockEnrollmentRepo{}, storage)

	err := svc.Delete(context.Background(), Viewer{UserID: 20, Role: models.RoleStudent}, 7)

	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.Empty(t, storage.deleted)
}

func TestFileService_Delete_Staff(t *testing.T) {
	fileRepo := fileRepoWith(fileFixture())
	fileRepo.delete = func(ctx context.Context, id int64) error { return nil }
	svc := NewFileService(fileRepo, &mockCourseRepo{}, &mockStudentRepo{}, &mockEnrollmentRepo{}, &mockStorage{})

	err := svc.Delete(context.Background(), Viewer{UserID: 99, Role: models.RoleStaff}, 7)

	assert.NoError(t, err)
}

func TestFileService_Upload_NotEnrolled(t *testing.T) {
	courseRepo := &mockCourseRepo{
		getByID: func(ctx context.Context, id int64) (*models.Course, error) {
			return &models.Course{ID: 42, Title: "Distributed Systems", IsActive: true}, nil
		},
	}
	storage := &mockStorage{}
	svc := NewFileService(&mockFileRepo{}, courseRepo,
		studentRepoWithProfile(), enrollmentRepoEnrolled(false), storage)

	_, err := svc.Upload(context.Background(), Viewer{UserID: 20, Role: models.RoleStudent}, 42, nil, nil)

	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.Empty(t, storage.saved)
}

func TestFileService_Upload_CourseNotFound(t *testing.T) {
	courseRepo := &mockCourseRepo{
		getByID: func(ctx context.Context, id int64) (*models.Course, error) {
			return nil, apperrors.ErrCourseNotFound
		},
	}
	svc := NewFileService(&mockFileRepo{}, courseRepo, &mockStudentRepo{}, &mockEnrollmentRepo{}, &mockStorage{})

	_, err := svc.Upload(context.Background(), Viewer{UserID: 99, Role: models.RoleStaff}, 999, nil, nil)

	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}
