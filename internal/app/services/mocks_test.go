package services

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dkaraca/coursehub/internal/app/models"
	"github.com/dkaraca/coursehub/internal/app/repositories"
	"github.com/dkaraca/coursehub/internal/db"
)

// Hand-written mocks with function fields. A nil field means the test
// does not expect that call; reaching it fails loudly.

var errUnexpectedCall = errors.New("unexpected repository call")

type mockUserRepo struct {
	createTx        func(ctx context.Context, tx pgx.Tx, user *models.User) error
	getByEmail      func(ctx context.Context, email string) (*models.User, error)
	getByID         func(ctx context.Context, id int64) (*models.User, error)
	emailExists     func(ctx context.Context, email string) (bool, error)
	updateLastLogin func(ctx context.Context, userID int64) error
	updateRole      func(ctx context.Context, userID int64, role models.RoleType) error
	delete          func(ctx context.Context, id int64) error
}

func (m *mockUserRepo) CreateTx(ctx context.Context, tx pgx.Tx, user *models.User) error {
	if m.createTx == nil {
		return errUnexpectedCall
	}
	return m.createTx(ctx, tx, user)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.getByEmail == nil {
		return nil, errUnexpectedCall
	}
	return m.getByEmail(ctx, email)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if m.getByID == nil {
		return nil, errUnexpectedCall
	}
	return m.getByID(ctx, id)
}

func (m *mockUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	if m.emailExists == nil {
		return false, errUnexpectedCall
	}
	return m.emailExists(ctx, email)
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, userID int64) error {
	if m.updateLastLogin == nil {
		return nil
	}
	return m.updateLastLogin(ctx, userID)
}

func (m *mockUserRepo) UpdateRole(ctx context.Context, userID int64, role models.RoleType) error {
	if m.updateRole == nil {
		return errUnexpectedCall
	}
	return m.updateRole(ctx, userID, role)
}

func (m *mockUserRepo) Delete(ctx context.Context, id int64) error {
	if m.delete == nil {
		return errUnexpectedCall
	}
	return m.delete(ctx, id)
}

type mockStudentRepo struct {
	createTx        func(ctx context.Context, tx pgx.Tx, student *models.Student) error
	getByUserID     func(ctx context.Context, userID int64) (*models.Student, error)
	getByID         func(ctx context.Context, id int64) (*models.Student, error)
	studentIDExists func(ctx context.Context, studentID string) (bool, error)
	list            func(ctx context.Context, offset, limit int) ([]*models.Student, int64, error)
}

func (m *mockStudentRepo) CreateTx(ctx context.Context, tx pgx.Tx, student *models.Student) error {
	if m.createTx == nil {
		return errUnexpectedCall
	}
	return m.createTx(ctx, tx, student)
}

func (m *mockStudentRepo) GetByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	if m.getByUserID == nil {
		return nil, errUnexpectedCall
	}
	return m.getByUserID(ctx, userID)
}

func (m *mockStudentRepo) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	if m.getByID == nil {
		return nil, errUnexpectedCall
	}
	return m.getByID(ctx, id)
}

func (m *mockStudentRepo) StudentIDExists(ctx context.Context, studentID string) (bool, error) {
	if m.studentIDExists == nil {
		return false, errUnexpectedCall
	}
	return m.studentIDExists(ctx, studentID)
}

func (m *mockStudentRepo) List(ctx context.Context, offset, limit int) ([]*models.Student, int64, error) {
	if m.list == nil {
		return nil, 0, errUnexpectedCall
	}
	return m.list(ctx, offset, limit)
}

type mockGroupRepo struct {
	getOrCreate      func(ctx context.Context, name string) (*models.Group, error)
	addUserToGroupTx func(ctx context.Context, tx pgx.Tx, userID, groupID int64) error
}

func (m *mockGroupRepo) GetOrCreate(ctx context.Context, name string) (*models.Group, error) {
	if m.getOrCreate == nil {
		return nil, errUnexpectedCall
	}
	return m.getOrCreate(ctx, name)
}

func (m *mockGroupRepo) AddUserToGroupTx(ctx context.Context, tx pgx.Tx, userID, groupID int64) error {
	if m.addUserToGroupTx == nil {
		return errUnexpectedCall
	}
	return m.addUserToGroupTx(ctx, tx, userID, groupID)
}

type mockCourseRepo struct {
	create  func(ctx context.Context, course *models.Course) error
	getByID func(ctx context.Context, id int64) (*models.Course, error)
	update  func(ctx context.Context, course *models.Course) error
	delete  func(ctx context.Context, id int64) error
	list    func(ctx context.Context, filter repositories.CourseFilter, offset, limit int) ([]*models.Course, int64, error)
}

func (m *mockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	if m.create == nil {
		return errUnexpectedCall
	}
	return m.create(ctx, course)
}

func (m *mockCourseRepo) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	if m.getByID == nil {
		return nil, errUnexpectedCall
	}
	return m.getByID(ctx, id)
}

func (m *mockCourseRepo) Update(ctx context.Context, course *models.Course) error {
	if m.update == nil {
		return errUnexpectedCall
	}
	return m.update(ctx, course)
}

func (m *mockCourseRepo) Delete(ctx context.Context, id int64) error {
	if m.delete == nil {
		return errUnexpectedCall
	}
	return m.delete(ctx, id)
}

func (m *mockCourseRepo) List(ctx context.Context, filter repositories.CourseFilter, offset, limit int) ([]*models.Course, int64, error) {
	if m.list == nil {
		return nil, 0, errUnexpectedCall
	}
	return m.list(ctx, filter, offset, limit)
}

type mockEnrollmentRepo struct {
	enrollWithCheck    func(ctx context.Context, studentID, courseID int64, check repositories.EnrollCheckFn) (*models.Enrollment, error)
	getByID            func(ctx context.Context, id int64) (*models.Enrollment, error)
	isActivelyEnrolled func(ctx context.Context, studentID, courseID int64) (bool, error)
	activeCourseIDs    func(ctx context.Context, studentID int64) (map[int64]bool, error)
	listActive         func(ctx context.Context, studentID int64) ([]*models.Enrollment, error)
	listByCourse       func(ctx context.Context, courseID int64, offset, limit int) ([]*models.Enrollment, int64, error)
	deactivate         func(ctx context.Context, id int64) error
}

func (m *mockEnrollmentRepo) EnrollWithCheck(ctx context.Context, studentID, courseID int64, check repositories.EnrollCheckFn) (*models.Enrollment, error) {
	if m.enrollWithCheck == nil {
		return nil, errUnexpectedCall
	}
	return m.enrollWithCheck(ctx, studentID, courseID, check)
}

func (m *mockEnrollmentRepo) GetByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	if m.getByID == nil {
		return nil, errUnexpectedCall
	}
	return m.getByID(ctx, id)
}

func (m *mockEnrollmentRepo) IsActivelyEnrolled(ctx context.Context, studentID, courseID int64) (bool, error) {
	if m.isActivelyEnrolled == nil {
		return false, errUnexpectedCall
	}
	return m.isActivelyEnrolled(ctx, studentID, courseID)
}

func (m *mockEnrollmentRepo) ActiveCourseIDs(ctx context.Context, studentID int64) (map[int64]bool, error) {
	if m.activeCourseIDs == nil {
		return map[int64]bool{}, nil
	}
	return m.activeCourseIDs(ctx, studentID)
}

func (m *mockEnrollmentRepo) ListActiveByStudent(ctx context.Context, studentID int64) ([]*models.Enrollment, error) {
	if m.listActive == nil {
		return nil, errUnexpectedCall
	}
	return m.listActive(ctx, studentID)
}

func (m *mockEnrollmentRepo) ListByCourse(ctx context.Context, courseID int64, offset, limit int) ([]*models.Enrollment, int64, error) {
	if m.listByCourse == nil {
		return nil, 0, errUnexpectedCall
	}
	return m.listByCourse(ctx, courseID, offset, limit)
}

func (m *mockEnrollmentRepo) Deactivate(ctx context.Context, id int64) error {
	if m.deactivate == nil {
		return errUnexpectedCall
	}
	return m.deactivate(ctx, id)
}

type mockFileRepo struct {
	create       func(ctx context.Context, file *models.FileUpload) error
	getByID      func(ctx context.Context, id int64) (*models.FileUpload, error)
	listByCourse func(ctx context.Context, courseID int64) ([]*models.FileUpload, error)
	delete       func(ctx context.Context, id int64) error
}

func (m *mockFileRepo) Create(ctx context.Context, file *models.FileUpload) error {
	if m.create == nil {
		return errUnexpectedCall
	}
	return m.create(ctx, file)
}

func (m *mockFileRepo) GetByID(ctx context.Context, id int64) (*models.FileUpload, error) {
	if m.getByID == nil {
		return nil, errUnexpectedCall
	}
	return m.getByID(ctx, id)
}

func (m *mockFileRepo) ListByCourse(ctx context.Context, courseID int64) ([]*models.FileUpload, error) {
	if m.listByCourse == nil {
		return []*models.FileUpload{}, nil
	}
	return m.listByCourse(ctx, courseID)
}

func (m *mockFileRepo) Delete(ctx context.Context, id int64) error {
	if m.delete == nil {
		return errUnexpectedCall
	}
	return m.delete(ctx, id)
}

type mockTokenRepo struct {
	createToken         func(ctx context.Context, token string, userID int64, expiryDate time.Time) error
	getTokenUserID      func(ctx context.Context, token string) (int64, error)
	revokeToken         func(ctx context.Context, token string) error
	revokeAllUserTokens func(ctx context.Context, userID int64) error
}

func (m *mockTokenRepo) CreateToken(ctx context.Context, token string, userID int64, expiryDate time.Time) error {
	if m.createToken == nil {
		return nil
	}
	return m.createToken(ctx, token, userID, expiryDate)
}

func (m *mockTokenRepo) GetTokenUserID(ctx context.Context, token string) (int64, error) {
	if m.getTokenUserID == nil {
		return 0, errUnexpectedCall
	}
	return m.getTokenUserID(ctx, token)
}

func (m *mockTokenRepo) RevokeToken(ctx context.Context, token string) error {
	if m.revokeToken == nil {
		return nil
	}
	return m.revokeToken(ctx, token)
}

func (m *mockTokenRepo) RevokeAllUserTokens(ctx context.Context, userID int64) error {
	if m.revokeAllUserTokens == nil {
		return nil
	}
	return m.revokeAllUserTokens(ctx, userID)
}

// fakeTxRunner runs the transaction function directly with a nil tx; the
// mocks above never touch it.
type fakeTxRunner struct{}

func (fakeTxRunner) RunTx(ctx context.Context, fn db.TransactionFn) error {
	return fn(ctx, nil)
}

// mockStorage records blob operations
type mockStorage struct {
	saved   []string
	deleted []string
	openFn  func(relPath string) (io.ReadCloser, error)
}

func (m *mockStorage) SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	path := subPath + "/" + fileHeader.Filename
	m.saved = append(m.saved, path)
	return path, nil
}

func (m *mockStorage) SaveContent(r io.Reader, subPath, filename string) (string, error) {
	path := subPath + "/" + filename
	m.saved = append(m.saved, path)
	return path, nil
}

func (m *mockStorage) Open(relPath string) (io.ReadCloser, error) {
	if m.openFn == nil {
		return nil, errUnexpectedCall
	}
	return m.openFn(relPath)
}

func (m *mockStorage) DeleteFile(relPath string) error {
	m.deleted = append(m.deleted, relPath)
	return nil
}

func (m *mockStorage) FullPath(relPath string) string {
	return "/storage/" + relPath
}
