package services

import (
	"context"
	"errors"
	"time"

	"github.com/dkaraca/coursehub/internal/app/models"
	"github.com/dkaraca/coursehub/internal/app/models/dto"
	"github.com/dkaraca/coursehub/internal/app/repositories"
	"github.com/dkaraca/coursehub/internal/pkg/apperrors"
	"github.com/dkaraca/coursehub/internal/pkg/filestorage"
	"github.com/dkaraca/coursehub/internal/pkg/helpers"
	"github.com/dkaraca/coursehub/internal/pkg/logger"
	"github.com/dkaraca/coursehub/internal/pkg/validation"
)

// CourseService handles course listing, detail and staff management
type CourseService struct {
	courseRepo     ICourseRepository
	studentRepo    IStudentRepository
	enrollmentRepo IEnrollmentRepository
	fileRepo       IFileRepository
	storage        filestorage.Storage
}

// NewCourseService creates a new CourseService
func NewCourseService(
	courseRepo ICourseRepository,
	studentRepo IStudentRepository,
	enrollmentRepo IEnrollmentRepository,
	fileRepo IFileRepository,
	storage filestorage.Storage,
) *CourseService {
	return &CourseService{
		courseRepo:     courseRepo,
		studentRepo:    studentRepo,
		enrollmentRepo: enrollmentRepo,
		fileRepo:       fileRepo,
		storage:        storage,
	}
}

// viewerStudent resolves the viewer's student profile, or nil for staff
// and accounts without one.
func (s *CourseService) viewerStudent(ctx context.Context, viewer Viewer) (*models.Student, error) {
	if viewer.Role != models.RoleStudent {
		return nil, nil
	}
	student, err := s.studentRepo.GetByUserID(ctx, viewer.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return student, nil
}

// List returns a page of courses with the viewer's enrollment flags set.
// Students only see active courses; staff may request inactive ones too.
func (s *CourseService) List(ctx context.Context, viewer Viewer, filter repositories.CourseFilter, page, size int) (*dto.CourseListResponse, error) {
	if !viewer.Role.IsStaff() {
		filter.IncludeInactive = false
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	courses, total, err := s.courseRepo.List(ctx, filter, int(offset), limit)
	if err != nil {
		return nil, err
	}

	enrolledIDs := map[int64]bool{}
	if student, err := s.viewerStudent(ctx, viewer); err != nil {
		return nil, err
	} else if student != nil {
		enrolledIDs, err = s.enrollmentRepo.ActiveCourseIDs(ctx, student.ID)
		if err != nil {
			return nil, err
		}
	}

	resp := &dto.CourseListResponse{
		Courses:        make([]dto.CourseResponse, 0, len(courses)),
		PaginationInfo: helpers.NewPaginationInfo(total, page, size),
	}
	for _, course := range courses {
		resp.Courses = append(resp.Courses, ToCourseResponse(course, enrolledIDs[course.ID]))
	}

	return resp, nil
}

// GetDetail returns a course with its files when the viewer may see them.
// Inactive courses are hidden from non-staff viewers.
func (s *CourseService) GetDetail(ctx context.Context, viewer Viewer, courseID int64) (*dto.CourseDetailResponse, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if !course.IsActive && !viewer.Role.IsStaff() {
		return nil, apperrors.ErrCourseNotFound
	}

	enrolled := false
	if student, err := s.viewerStudent(ctx, viewer); err != nil {
		return nil, err
	} else if student != nil {
		enrolled, err = s.enrollmentRepo.IsActivelyEnrolled(ctx, student.ID, courseID)
		if err != nil {
			return nil, err
		}
	}

	resp := &dto.CourseDetailResponse{CourseResponse: ToCourseResponse(course, enrolled)}

	if viewer.Role.IsStaff() || enrolled {
		files, err := s.fileRepo.ListByCourse(ctx, courseID)
		if err != nil {
			return nil, err
		}
		resp.Files = make([]dto.FileUploadResponse, 0, len(files))
		for _, file := range files {
			resp.Files = append(resp.Files, ToFileUploadResponse(file))
		}
	}

	return resp, nil
}

// Create creates a course from a staff request
func (s *CourseService) Create(ctx context.Context, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	course, err := courseFromRequest(req.Title, req.Description, req.Instructor, req.Credits,
		req.Difficulty, req.MaxStudents, req.StartDate, req.EndDate, req.IsActive)
	if err != nil {
		return nil, err
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}

	logger.Info().Int64("courseID", course.ID).Str("title", course.Title).Msg("Course created")
	resp := ToCourseResponse(course, false)
	return &resp, nil
}

// Update replaces a course's editable fields
func (s *CourseService) Update(ctx context.Context, courseID int64, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	course, err := courseFromRequest(req.Title, req.Description, req.Instructor, req.Credits,
		req.Difficulty, req.MaxStudents, req.StartDate, req.EndDate, req.IsActive)
	if err != nil {
		return nil, err
	}
	course.ID = courseID

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}

	updated, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	resp := ToCourseResponse(updated, false)
	return &resp, nil
}

// Delete removes a course, its stored file blobs and, via cascade, its
// enrollments and file records.
func (s *CourseService) Delete(ctx context.Context, courseID int64) error {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return err
	}

	files, err := s.fileRepo.ListByCourse(ctx, courseID)
	if err != nil {
		return err
	}
	for _, file := range files {
		if err := s.storage.DeleteFile(file.FilePath); err != nil {
			logger.Warn().Err(err).Str("path", file.FilePath).Msg("Failed to remove stored blob")
		}
	}

	if err := s.courseRepo.Delete(ctx, courseID); err != nil {
		return err
	}

	logger.Info().Int64("courseID", courseID).Int("removedFiles", len(files)).Msg("Course deleted")
	return nil
}

func courseFromRequest(title, description, instructor string, credits int, difficulty string,
	maxStudents int, startDate, endDate string, isActive *bool) (*models.Course, error) {

	if !models.Difficulty(difficulty).Valid() {
		return nil, apperrors.NewValidationError("difficulty must be beginner, intermediate or advanced")
	}

	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, apperrors.NewValidationError("start date must be YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return nil, apperrors.NewValidationError("end date must be YYYY-MM-DD")
	}
	if !validation.ValidDateRange(start, end) {
		return nil, apperrors.ErrInvalidDateRange
	}

	course := &models.Course{
		Title:       title,
		Description: description,
		Instructor:  instructor,
		Credits:     credits,
		Difficulty:  models.Difficulty(difficulty),
		MaxStudents: maxStudents,
		StartDate:   start,
		EndDate:     end,
		IsActive:    true,
	}
	if isActive != nil {
		course.IsActive = *isActive
	}

	return course, nil
}

// ToCourseResponse maps a course to its response DTO
func ToCourseResponse(course *models.Course, enrolled bool) dto.CourseResponse {
	return dto.CourseResponse{
		ID:            course.ID,
		Title:         course.Title,
		Description:   course.Description,
		Instructor:    course.Instructor,
		Credits:       course.Credits,
		Difficulty:    string(course.Difficulty),
		MaxStudents:   course.MaxStudents,
		EnrolledCount: course.EnrolledCount,
		StartDate:     course.StartDate,
		EndDate:       course.EndDate,
		IsActive:      course.IsActive,
		Enrolled:      enrolled,
	}
}

// ToFileUploadResponse maps a file record to its response DTO
func ToFileUploadResponse(file *models.FileUpload) dto.FileUploadResponse {
	return dto.FileUploadResponse{
		ID:          file.ID,
		CourseID:    file.CourseID,
		UploadedBy:  file.UploadedBy,
		Title:       file.Title,
		Description: file.Description,
		FileName:    file.FileName,
		FileSize:    file.FileSize,
		MimeType:    file.MimeType,
		UploadedAt:  file.UploadedAt,
	}
}
