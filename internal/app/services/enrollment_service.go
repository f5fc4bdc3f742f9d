package services

import (
	"context"
	"errors"

	"github.com/dkaraca/coursehub/internal/app/models"
	"github.com/dkaraca/coursehub/internal/app/models/dto"
	"github.com/dkaraca/coursehub/internal/app/policy"
	"github.com/dkaraca/coursehub/internal/pkg/apperrors"
	"github.com/dkaraca/coursehub/internal/pkg/helpers"
	"github.com/dkaraca/coursehub/internal/pkg/logger"
)

// EnrollmentService handles student enrollment and the staff roster views
type EnrollmentService struct {
	enrollmentRepo IEnrollmentRepository
	courseRepo     ICourseRepository
	studentRepo    IStudentRepository
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(
	enrollmentRepo IEnrollmentRepository,
	courseRepo ICourseRepository,
	studentRepo IStudentRepository,
) *EnrollmentService {
	return &EnrollmentService{
		enrollmentRepo: enrollmentRepo,
		courseRepo:     courseRepo,
		studentRepo:    studentRepo,
	}
}

// Enroll enrolls the calling student in a course. The policy check runs
// inside the repository transaction with the course row locked, so the
// capacity and cap rules hold under concurrent requests.
func (s *EnrollmentService) Enroll(ctx context.Context, viewer Viewer, courseID int64) (*dto.EnrollmentResponse, error) {
	if viewer.Role != models.RoleStudent {
		return nil, apperrors.ErrNotAStudent
	}

	student, err := s.studentRepo.GetByUserID(ctx, viewer.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, apperrors.ErrNotAStudent
		}
		return nil, err
	}

	enrollment, err := s.enrollmentRepo.EnrollWithCheck(ctx, student.ID, courseID, policy.CheckEnroll)
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("studentID", student.ID).Int64("courseID", courseID).Msg("Student enrolled")
	return &dto.EnrollmentResponse{
		ID:         enrollment.ID,
		StudentID:  enrollment.StudentID,
		CourseID:   enrollment.CourseID,
		EnrolledAt: enrollment.EnrolledAt,
		IsActive:   enrollment.IsActive,
	}, nil
}

// MyCourses returns the calling student's active enrollments with their
// courses.
func (s *EnrollmentService) MyCourses(ctx context.Context, viewer Viewer) (*dto.MyCoursesResponse, error) {
	student, err := s.studentRepo.GetByUserID(ctx, viewer.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, apperrors.ErrNotAStudent
		}
		return nil, err
	}

	enrollments, err := s.enrollmentRepo.ListActiveByStudent(ctx, student.ID)
	if err != nil {
		return nil, err
	}

	resp := &dto.MyCoursesResponse{Enrollments: make([]dto.EnrolledCourse, 0, len(enrollments))}
	for _, enrollment := range enrollments {
		resp.Enrollments = append(resp.Enrollments, dto.EnrolledCourse{
			Enrollment: dto.EnrollmentResponse{
				ID:         enrollment.ID,
				StudentID:  enrollment.StudentID,
				CourseID:   enrollment.CourseID,
				EnrolledAt: enrollment.EnrolledAt,
				IsActive:   enrollment.IsActive,
			},
			Course: ToCourseResponse(enrollment.Course, true),
		})
	}

	return resp, nil
}

// ListByCourse returns a page of a course's active roster for staff
func (s *EnrollmentService) ListByCourse(ctx context.Context, courseID int64, page, size int) (*dto.CourseEnrollmentsResponse, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	enrollments, total, err := s.enrollmentRepo.ListByCourse(ctx, courseID, int(offset), limit)
	if err != nil {
		return nil, err
	}

	resp := &dto.CourseEnrollmentsResponse{
		Enrollments:    make([]dto.EnrollmentResponse, 0, len(enrollments)),
		PaginationInfo: helpers.NewPaginationInfo(total, page, size),
	}
	for _, enrollment := range enrollments {
		item := dto.EnrollmentResponse{
			ID:          enrollment.ID,
			StudentID:   enrollment.StudentID,
			CourseID:    enrollment.CourseID,
			EnrolledAt:  enrollment.EnrolledAt,
			IsActive:    enrollment.IsActive,
			CourseTitle: course.Title,
		}
		if enrollment.Student != nil && enrollment.Student.User != nil {
			item.StudentName = enrollment.Student.User.FirstName + " " + enrollment.Student.User.LastName
		}
		resp.Enrollments = append(resp.Enrollments, item)
	}

	return resp, nil
}

// Drop deactivates an enrollment, freeing the seat. Staff only.
func (s *EnrollmentService) Drop(ctx context.Context, enrollmentID int64) error {
	if err := s.enrollmentRepo.Deactivate(ctx, enrollmentID); err != nil {
		return err
	}

	logger.Info().Int64("enrollmentID", enrollmentID).Msg("Enrollment dropped")
	return nil
}
