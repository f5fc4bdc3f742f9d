package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dkaraca/coursehub/internal/app/models"
	"github.com/dkaraca/coursehub/internal/pkg/apperrors"
	"github.com/dkaraca/coursehub/internal/pkg/dberrors"
)

// StudentRepository handles student profile database operations
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateTx inserts a student profile inside an existing transaction.
// Called right after UserRepository.CreateTx during student registration.
func (r *StudentRepository) CreateTx(ctx context.Context, tx pgx.Tx, student *models.Student) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO students (user_id, student_id, phone_number, date_of_birth)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		student.UserID, student.StudentID, student.PhoneNumber, student.DateOfBirth).
		Scan(&student.ID, &student.CreatedAt)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "students_student_id_key") {
			return apperrors.ErrStudentIDAlreadyExists
		}
		return fmt.Errorf("error creating student: %w", err)
	}

	return nil
}

// GetByUserID retrieves a student profile by its owning user account
func (r *StudentRepository) GetByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	student := &models.Student{}
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, student_id, phone_number, date_of_birth, created_at
		FROM students
		WHERE user_id = $1`,
		userID).Scan(
		&student.ID, &student.UserID, &student.StudentID,
		&student.PhoneNumber, &student.DateOfBirth, &student.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student by user id: %w", err)
	}

	return student, nil
}

// GetByID retrieves a student profile with its user account populated
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	student := &models.Student{User: &models.User{}}
	err := r.db.QueryRow(ctx, `
		SELECT s.id, s.user_id, s.student_id, s.phone_number, s.date_of_birth, s.created_at,
		       u.id, u.email, u.first_name, u.last_name, u.role_type, u.is_active
		FROM students s
		JOIN users u ON u.id = s.user_id
		WHERE s.id = $1`,
		id).Scan(
		&student.ID, &student.UserID, &student.StudentID,
		&student.PhoneNumber, &student.DateOfBirth, &student.CreatedAt,
		&student.User.ID, &student.User.Email, &student.User.FirstName,
		&student.User.LastName, &student.User.RoleType, &student.User.IsActive)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return student, nil
}

// StudentIDExists checks if a student identifier is already taken
func (r *StudentRepository) StudentIDExists(ctx context.Context, studentID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM students WHERE student_id = $1)`,
		studentID).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("error checking student id: %w", err)
	}

	return exists, nil
}

// List returns a page of student profiles with user accounts, newest
// first, plus the total count for pagination.
func (r *StudentRepository) List(ctx context.Context, offset, limit int) ([]*models.Student, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting students: %w", err)
	}

	sql, args, err := r.sb.Select(
		"s.id", "s.user_id", "s.student_id", "s.phone_number", "s.date_of_birth", "s.created_at",
		"u.id", "u.email", "u.first_name", "u.last_name", "u.role_type", "u.is_active").
		From("students s").
		Join("users u ON u.id = s.user_id").
		OrderBy("s.created_at DESC").
		Offset(uint64(offset)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	students := make([]*models.Student, 0)
	for rows.Next() {
		student := &models.Student{User: &models.User{}}
		err := rows.Scan(
			&student.ID, &student.UserID, &student.StudentID,
			&student.PhoneNumber, &student.DateOfBirth, &student.CreatedAt,
			&student.User.ID, &student.User.Email, &student.User.FirstName,
			&student.User.LastName, &student.User.RoleType, &student.User.IsActive)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating student rows: %w", err)
	}

	return students, total, nil
}
