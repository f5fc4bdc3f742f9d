package services

import (
	"context"

	"github.com/dkaraca/coursehub/internal/app/models"
	"github.com/dkaraca/coursehub/internal/app/models/dto"
	"github.com/dkaraca/coursehub/internal/app/policy"
	"github.com/dkaraca/coursehub/internal/pkg/apperrors"
	"github.com/dkaraca/coursehub/internal/pkg/helpers"
	"github.com/dkaraca/coursehub/internal/pkg/logger"
)

// UserService handles the staff-side account management operations
type UserService struct {
	userRepo    IUserRepository
	studentRepo IStudentRepository
	tokenRepo   ITokenRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo IUserRepository, studentRepo IStudentRepository, tokenRepo ITokenRepository) *UserService {
	return &UserService{
		userRepo:    userRepo,
		studentRepo: studentRepo,
		tokenRepo:   tokenRepo,
	}
}

// ListStudents returns a page of student profiles for staff
func (s *UserService) ListStudents(ctx context.Context, page, size int) (*dto.StudentListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	students, total, err := s.studentRepo.List(ctx, int(offset), limit)
	if err != nil {
		return nil, err
	}

	resp := &dto.StudentListResponse{
		Students:       make([]dto.StudentResponse, 0, len(students)),
		PaginationInfo: helpers.NewPaginationInfo(total, page, size),
	}
	for _, student := range students {
		resp.Students = append(resp.Students, toStudentResponse(student))
	}

	return resp, nil
}

// GetStudent returns a single student profile for staff
func (s *UserService) GetStudent(ctx context.Context, actor Viewer, studentID int64) (*dto.StudentResponse, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	if !policy.CanManageUser(actor.Role, student.User.RoleType) {
		return nil, apperrors.ErrPermissionDenied
	}

	resp := toStudentResponse(student)
	return &resp, nil
}

// DeleteStudent removes a student's user account; the profile,
// enrollments, file records and tokens cascade. Superusers only.
func (s *UserService) DeleteStudent(ctx context.Context, actor Viewer, studentID int64) error {
	if !policy.CanDeleteStudent(actor.Role) {
		return apperrors.NewForbiddenError("only a superuser may delete student records")
	}

	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, student.UserID); err != nil {
		return err
	}

	logger.Info().Int64("studentID", studentID).Int64("userID", student.UserID).
		Int64("actorID", actor.UserID).Msg("Student deleted")
	return nil
}

// ChangeRole changes an account's role. Superusers only; SUPERUSER itself
// is never grantable through the API. Active refresh tokens are revoked
// so the old role cannot outlive the access token.
func (s *UserService) ChangeRole(ctx context.Context, actor Viewer, userID int64, role models.RoleType) error {
	if !policy.CanChangeRole(actor.Role, role) {
		return apperrors.NewForbiddenError("only a superuser may change roles")
	}

	target, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !policy.CanManageUser(actor.Role, target.RoleType) {
		return apperrors.ErrPermissionDenied
	}
	if target.RoleType == role {
		return nil
	}

	if err := s.userRepo.UpdateRole(ctx, userID, role); err != nil {
		return err
	}

	if err := s.tokenRepo.RevokeAllUserTokens(ctx, userID); err != nil {
		logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to revoke tokens after role change")
	}

	logger.Info().Int64("userID", userID).Str("role", string(role)).
		Int64("actorID", actor.UserID).Msg("Role changed")
	return nil
}

func toStudentResponse(student *models.Student) dto.StudentResponse {
	resp := dto.StudentResponse{
		ID:          student.ID,
		UserID:      student.UserID,
		StudentID:   student.StudentID,
		PhoneNumber: student.PhoneNumber,
		DateOfBirth: student.DateOfBirth,
		CreatedAt:   student.CreatedAt,
	}
	if student.User != nil {
		resp.FirstName = student.User.FirstName
		resp.LastName = student.User.LastName
		resp.Email = student.User.Email
	}
	return resp
}
