// Package services holds the business logic between HTTP controllers and
// repositories. Each service depends on the narrow repository interfaces
// declared here; the concrete repositories satisfy them, and tests
// substitute hand-written mocks.
package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dkaraca/coursehub/internal/app/models"
	"github.com/dkaraca/coursehub/internal/app/repositories"
	"github.com/dkaraca/coursehub/internal/db"
	"github.com/dkaraca/coursehub/internal/pkg/auth"
	"github.com/dkaraca/coursehub/internal/pkg/filestorage"
)

// Viewer identifies the authenticated caller as resolved from token
// claims by the auth middleware.
type Viewer struct {
	UserID int64
	Role   models.RoleType
}

// TxRunner runs a function inside a database transaction
type TxRunner interface {
	RunTx(ctx context.Context, fn db.TransactionFn) error
}

// IUserRepository defines the user account operations services need
type IUserRepository interface {
	CreateTx(ctx context.Context, tx pgx.Tx, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateLastLogin(ctx context.Context, userID int64) error
	UpdateRole(ctx context.Context, userID int64, role models.RoleType) error
	Delete(ctx context.Context, id int64) error
}

// IStudentRepository defines the student profile operations services need
type IStudentRepository interface {
	CreateTx(ctx context.Context, tx pgx.Tx, student *models.Student) error
	GetByUserID(ctx context.Context, userID int64) (*models.Student, error)
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	StudentIDExists(ctx context.Context, studentID string) (bool, error)
	List(ctx context.Context, offset, limit int) ([]*models.Student, int64, error)
}

// IGroupRepository defines the role group operations services need
type IGroupRepository interface {
	GetOrCreate(ctx context.Context, name string) (*models.Group, error)
	AddUserToGroupTx(ctx context.Context, tx pgx.Tx, userID, groupID int64) error
}

// ICourseRepository defines the course operations services need
type ICourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter repositories.CourseFilter, offset, limit int) ([]*models.Course, int64, error)
}

// IEnrollmentRepository defines the enrollment operations services need
type IEnrollmentRepository interface {
	EnrollWithCheck(ctx context.Context, studentID, courseID int64, check repositories.EnrollCheckFn) (*models.Enrollment, error)
	GetByID(ctx context.Context, id int64) (*models.Enrollment, error)
	IsActivelyEnrolled(ctx context.Context, studentID, courseID int64) (bool, error)
	ActiveCourseIDs(ctx context.Context, studentID int64) (map[int64]bool, error)
	ListActiveByStudent(ctx context.Context, studentID int64) ([]*models.Enrollment, error)
	ListByCourse(ctx context.Context, courseID int64, offset, limit int) ([]*models.Enrollment, int64, error)
	Deactivate(ctx context.Context, id int64) error
}

// IFileRepository defines the file metadata operations services need
type IFileRepository interface {
	Create(ctx context.Context, file *models.FileUpload) error
	GetByID(ctx context.Context, id int64) (*models.FileUpload, error)
	ListByCourse(ctx context.Context, courseID int64) ([]*models.FileUpload, error)
	Delete(ctx context.Context, id int64) error
}

// ITokenRepository defines the refresh token operations services need
type ITokenRepository interface {
	CreateToken(ctx context.Context, token string, userID int64, expiryDate time.Time) error
	GetTokenUserID(ctx context.Context, token string) (int64, error)
	RevokeToken(ctx context.Context, token string) error
	RevokeAllUserTokens(ctx context.Context, userID int64) error
}

// Services holds all service instances
type Services struct {
	Auth       *AuthService
	Course     *CourseService
	Enrollment *EnrollmentService
	File       *FileService
	User       *UserService
}

// NewServices wires all services to the concrete repositories
func NewServices(
	repos *repositories.Repositories,
	database *db.PostgresDB,
	jwtService *auth.JWTService,
	storage filestorage.Storage,
) *Services {
	return &Services{
		Auth:       NewAuthService(repos.User, repos.Student, repos.Group, repos.Token, database, jwtService),
		Course:     NewCourseService(repos.Course, repos.Student, repos.Enrollment, repos.File, storage),
		Enrollment: NewEnrollmentService(repos.Enrollment, repos.Course, repos.Student),
		File:       NewFileService(repos.File, repos.Course, repos.Student, repos.Enrollment, storage),
		User:       NewUserService(repos.User, repos.Student, repos.Token),
	}
}
