package services

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkaraca/coursehub/internal/app/models"
	"github.com/dkaraca/coursehub/internal/app/models/dto"
	"github.com/dkaraca/coursehub/internal/pkg/apperrors"
	"github.com/dkaraca/coursehub/internal/pkg/auth"
)

func testJWTService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret-key",
		AccessTokenExp:  15 * time.Minute,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "coursehub-test",
	})
}

func newAuthService(userRepo *mockUserRepo, studentRepo *mockStudentRepo,
	groupRepo *mockGroupRepo, tokenRepo *mockTokenRepo) *AuthService {
	return NewAuthService(userRepo, studentRepo, groupRepo, tokenRepo, fakeTxRunner{}, testJWTService())
}

func TestAuthService_Login(t *testing.T) {
	hashed, err := auth.HashPassword("secret1234")
	require.NoError(t, err)

	account := &models.User{
		ID:       10,
		Email:    "jan@example.com",
		Password: hashed,
		RoleType: models.RoleStudent,
		IsActive: true,
	}

	userRepo := &mockUserRepo{
		getByEmail: func(ctx context.Context, email string) (*models.User, error) {
			if email != account.Email {
				return nil, apperrors.ErrUserNotFound
			}
			return account, nil
		},
	}
	var storedRefresh string
	tokenRepo := &mockTokenRepo{
		createToken: func(ctx context.Context, token string, userID int64, expiryDate time.Time) error {
			storedRefresh = token
			assert.Equal(t, int64(10), userID)
			return nil
		},
	}
	svc := newAuthService(userRepo, &mockStudentRepo{}, &mockGroupRepo{}, tokenRepo)

	t.Run("valid credentials", func(t *testing.T) {
		tokens, err := svc.Login(context.Background(), &dto.LoginRequest{
			Email: "jan@example.com", Password: "secret1234",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, tokens.AccessToken)
		assert.Equal(t, "Bearer", tokens.TokenType)
		assert.Equal(t, storedRefresh, tokens.RefreshToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &dto.LoginRequest{
			Email: "jan@example.com", Password: "wrong-password1",
		})

		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unknown email maps to invalid credentials", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &dto.LoginRequest{
			Email: "nobody@example.com", Password: "secret1234",
		})

		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("disabled account", func(t *testing.T) {
		account.IsActive = false
		defer func() { account.IsActive = true }()

		_, err := svc.Login(context.Background(), &dto.LoginRequest{
			Email: "jan@example.com", Password: "secret1234",
		})

		assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
	})
}

func TestAuthService_RegisterStudent(t *testing.T) {
	validReq := func() *dto.RegisterStudentRequest {
		return &dto.RegisterStudentRequest{
			Email:     "jan@example.com",
			Password:  "secret1234",
			FirstName: "Jan",
			LastName:  "Kowalski",
			StudentID: "STU1001",
		}
	}

	t.Run("creates account and profile", func(t *testing.T) {
		var createdStudent *models.Student
		userRepo := &mockUserRepo{
			emailExists: func(ctx context.Context, email string) (bool, error) { return false, nil },
			createTx: func(ctx context.Context, tx pgx.Tx, user *models.User) error {
				user.ID = 10
				return nil
			},
		}
		studentRepo := &mockStudentRepo{
			studentIDExists: func(ctx context.Context, studentID string) (bool, error) { return false, nil },
			createTx: func(ctx context.Context, tx pgx.Tx, student *models.Student) error {
				createdStudent = student
				student.ID = 3
				return nil
			},
		}
		svc := newAuthService(userRepo, studentRepo, &mockGroupRepo{}, &mockTokenRepo{})

		user, err := svc.RegisterStudent(context.Background(), validReq())

		require.NoError(t, err)
		assert.Equal(t, models.RoleStudent, user.RoleType)
		assert.True(t, user.IsActive)
		assert.NotEqual(t, "secret1234", user.Password)
		require.NotNil(t, createdStudent)
		assert.Equal(t, int64(10), createdStudent.UserID)
		assert.Equal(t, "STU1001", createdStudent.StudentID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		userRepo := &mockUserRepo{
			emailExists: func(ctx context.Context, email string) (bool, error) { return true, nil },
		}
		svc := newAuthService(userRepo, &mockStudentRepo{}, &mockGroupRepo{}, &mockTokenRepo{})

		_, err := svc.RegisterStudent(context.Background(), validReq())

		assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
	})

	t.Run("duplicate student id", func(t *testing.T) {
		userRepo := &mockUserRepo{
			emailExists: func(ctx context.Context, email string) (bool, error) { return false, nil },
		}
		studentRepo := &mockStudentRepo{
			studentIDExists: func(ctx context.Context, studentID string) (bool, error) { return true, nil },
		}
		svc := newAuthService(userRepo, studentRepo, &mockGroupRepo{}, &mockTokenRepo{})

		_, err := svc.RegisterStudent(context.Background(), validReq())

		assert.ErrorIs(t, err, apperrors.ErrStudentIDAlreadyExists)
	})

	t.Run("malformed student id", func(t *testing.T) {
		svc := newAuthService(&mockUserRepo{}, &mockStudentRepo{}, &mockGroupRepo{}, &mockTokenRepo{})

		req := validReq()
		req.StudentID = "no spaces allowed"
		_, err := svc.RegisterStudent(context.Background(), req)

		assert.ErrorIs(t, err, apperrors.ErrInvalidStudentID)
	})

	t.Run("weak password", func(t *testing.T) {
		svc := newAuthService(&mockUserRepo{}, &mockStudentRepo{}, &mockGroupRepo{}, &mockTokenRepo{})

		req := validReq()
		req.Password = "short"
		_, err := svc.RegisterStudent(context.Background(), req)

		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}

func TestAuthService_RegisterStaff(t *testing.T) {
	var joinedGroup int64
	userRepo := &mockUserRepo{
		emailExists: func(ctx context.Context, email string) (bool, error) { return false, nil },
		createTx: func(ctx context.Context, tx pgx.Tx, user *models.User) error {
			user.ID = 20
			return nil
		},
	}
	groupRepo := &mockGroupRepo{
		getOrCreate: func(ctx context.Context, name string) (*models.Group, error) {
			assert.Equal(t, "Teachers", name)
			return &models.Group{ID: 1, Name: name}, nil
		},
		addUserToGroupTx: func(ctx context.Context, tx pgx.Tx, userID, groupID int64) error {
			assert.Equal(t, int64(20), userID)
			joinedGroup = groupID
			return nil
		},
	}
	svc := newAuthService(userRepo, &mockStudentRepo{}, groupRepo, &mockTokenRepo{})

	user, err := svc.RegisterStaff(context.Background(), &dto.RegisterStaffRequest{
		Email:     "prof@example.com",
		Password:  "secret1234",
		FirstName: "Ada",
		LastName:  "Nowak",
	})

	require.NoError(t, err)
	assert.Equal(t, models.RoleStaff, user.RoleType)
	assert.Equal(t, int64(1), joinedGroup)
}

func TestAuthService_RefreshToken(t *testing.T) {
	account := &models.User{ID: 10, Email: "jan@example.com", RoleType: models.RoleStudent, IsActive: true}

	userRepo := &mockUserRepo{
		getByID: func(ctx context.Context, id int64) (*models.User, error) { return account, nil },
	}

	t.Run("rotates the token", func(t *testing.T) {
		var revoked, stored string
		tokenRepo := &mockTokenRepo{
			getTokenUserID: func(ctx context.Context, token string) (int64, error) { return 10, nil },
			revokeToken: func(ctx context.Context, token string) error {
				revoked = token
				return nil
			},
			createToken: func(ctx context.Context, token string, userID int64, expiryDate time.Time) error {
				stored = token
				return nil
			},
		}
		svc := newAuthService(userRepo, &mockStudentRepo{}, &mockGroupRepo{}, tokenRepo)

		tokens, err := svc.RefreshToken(context.Background(), "old-refresh-token")

		require.NoError(t, err)
		assert.Equal(t, "old-refresh-token", revoked)
		assert.Equal(t, stored, tokens.RefreshToken)
		assert.NotEqual(t, "old-refresh-token", tokens.RefreshToken)
	})

	t.Run("expired token", func(t *testing.T) {
		tokenRepo := &mockTokenRepo{
			getTokenUserID: func(ctx context.Context, token string) (int64, error) {
				return 0, apperrors.ErrTokenExpired
			},
		}
		svc := newAuthService(userRepo, &mockStudentRepo{}, &mockGroupRepo{}, tokenRepo)

		_, err := svc.RefreshToken(context.Background(), "stale")

		assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
	})
}
