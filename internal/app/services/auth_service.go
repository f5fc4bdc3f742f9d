package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dkaraca/coursehub/internal/app/models"
	"github.com/dkaraca/coursehub/internal/app/models/dto"
	"github.com/dkaraca/coursehub/internal/app/repositories"
	"github.com/dkaraca/coursehub/internal/pkg/apperrors"
	"github.com/dkaraca/coursehub/internal/pkg/auth"
	"github.com/dkaraca/coursehub/internal/pkg/logger"
	"github.com/dkaraca/coursehub/internal/pkg/validation"
)

// AuthService handles registration, login and token lifecycle
type AuthService struct {
	userRepo    IUserRepository
	studentRepo IStudentRepository
	groupRepo   IGroupRepository
	tokenRepo   ITokenRepository
	tx          TxRunner
	jwtService  *auth.JWTService
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo IUserRepository,
	studentRepo IStudentRepository,
	groupRepo IGroupRepository,
	tokenRepo ITokenRepository,
	tx TxRunner,
	jwtService *auth.JWTService,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		studentRepo: studentRepo,
		groupRepo:   groupRepo,
		tokenRepo:   tokenRepo,
		tx:          tx,
		jwtService:  jwtService,
	}
}

func (s *AuthService) validateCredentials(email, password string) error {
	if !validation.ValidEmail(email) {
		return apperrors.NewValidationError("invalid email format")
	}
	if !validation.ValidPassword(password) {
		return apperrors.NewValidationError(
			fmt.Sprintf("password must be at least %d characters and contain a letter and a digit",
				validation.PasswordMinLength))
	}
	return nil
}

// RegisterStudent creates a STUDENT user account and its student profile
// in one transaction, so a failed profile insert never leaves an orphaned
// account behind.
func (s *AuthService) RegisterStudent(ctx context.Context, req *dto.RegisterStudentRequest) (*models.User, error) {
	if err := s.validateCredentials(req.Email, req.Password); err != nil {
		return nil, err
	}
	if !validation.ValidStudentID(req.StudentID) {
		return nil, apperrors.ErrInvalidStudentID
	}
	if !validation.ValidPhoneNumber(req.PhoneNumber) {
		return nil, apperrors.NewValidationError("invalid phone number format")
	}

	var dateOfBirth *time.Time
	if req.DateOfBirth != "" {
		parsed, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return nil, apperrors.NewValidationError("date of birth must be YYYY-MM-DD")
		}
		dateOfBirth = &parsed
	}

	// Fast-path uniqueness checks; the DB constraints catch races.
	if exists, err := s.userRepo.EmailExists(ctx, req.Email); err != nil {
		return nil, err
	} else if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}
	if exists, err := s.studentRepo.StudentIDExists(ctx, req.StudentID); err != nil {
		return nil, err
	} else if exists {
		return nil, apperrors.ErrStudentIDAlreadyExists
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:     req.Email,
		Password:  hashed,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		RoleType:  models.RoleStudent,
		IsActive:  true,
	}

	err = s.tx.RunTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.userRepo.CreateTx(ctx, tx, user); err != nil {
			return err
		}
		student := &models.Student{
			UserID:      user.ID,
			StudentID:   req.StudentID,
			DateOfBirth: dateOfBirth,
		}
		if req.PhoneNumber != "" {
			student.PhoneNumber = &req.PhoneNumber
		}
		return s.studentRepo.CreateTx(ctx, tx, student)
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("userID", user.ID).Str("email", user.Email).Msg("Student registered")
	return user, nil
}

// RegisterStaff creates a STAFF user account and joins it to the Teachers
// group. Superuser accounts only come from the seeder.
func (s *AuthService) RegisterStaff(ctx context.Context, req *dto.RegisterStaffRequest) (*models.User, error) {
	if err := s.validateCredentials(req.Email, req.Password); err != nil {
		return nil, err
	}

	if exists, err := s.userRepo.EmailExists(ctx, req.Email); err != nil {
		return nil, err
	} else if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	group, err := s.groupRepo.GetOrCreate(ctx, repositories.TeachersGroupName)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:     req.Email,
		Password:  hashed,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		RoleType:  models.RoleStaff,
		IsActive:  true,
	}

	err = s.tx.RunTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.userRepo.CreateTx(ctx, tx, user); err != nil {
			return err
		}
		return s.groupRepo.AddUserToGroupTx(ctx, tx, user.ID, group.ID)
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("userID", user.ID).Str("email", user.Email).Msg("Staff registered")
	return user, nil
}

// Login verifies credentials and issues a token pair. Unknown emails and
// wrong passwords both map to ErrInvalidCredentials so the response does
// not leak which one failed.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to update last login time")
	}

	return tokens, nil
}

// RefreshToken rotates a refresh token: the old token is revoked and a
// fresh pair is issued.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	userID, err := s.tokenRepo.GetTokenUserID(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if err := s.tokenRepo.RevokeToken(ctx, refreshToken); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

// Logout revokes a refresh token. Already-revoked and unknown tokens
// surface as token errors per the taxonomy.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.tokenRepo.RevokeToken(ctx, refreshToken)
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*dto.TokenResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	if err := s.tokenRepo.CreateToken(ctx, refreshToken, user.ID, s.jwtService.GetRefreshTokenExpiry()); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:           accessToken,
		TokenType:             "Bearer",
		ExpiresIn:             expiresIn,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresIn: refreshExpiresIn,
	}, nil
}
