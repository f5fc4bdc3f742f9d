package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dkaraca/coursehub/internal/app/models"
	"github.com/dkaraca/coursehub/internal/app/policy"
	"github.com/dkaraca/coursehub/internal/db"
	"github.com/dkaraca/coursehub/internal/pkg/apperrors"
	"github.com/dkaraca/coursehub/internal/pkg/dberrors"
	"github.com/dkaraca/coursehub/internal/pkg/logger"
)

// EnrollCheckFn decides whether an enrollment may proceed given the state
// loaded inside the transaction. Returning non-nil aborts the insert.
type EnrollCheckFn func(course policy.CourseState, student policy.StudentState) error

// EnrollmentRepository handles enrollment database operations
type EnrollmentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// EnrollWithCheck runs the enrollment check-and-insert atomically. The
// course row is locked with SELECT ... FOR UPDATE so concurrent requests
// for the last seat serialize, then the current state is handed to check.
// A previously dropped enrollment is reactivated rather than reinserted;
// the UNIQUE(student_id, course_id) constraint backstops duplicate races.
func (r *EnrollmentRepository) EnrollWithCheck(ctx context.Context, studentID, courseID int64, check EnrollCheckFn) (*models.Enrollment, error) {
	enrollment := &models.Enrollment{StudentID: studentID, CourseID: courseID, IsActive: true}

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		courseState := policy.CourseState{}
		err := tx.QueryRow(ctx, `
			SELECT is_active, max_students
			FROM courses
			WHERE id = $1
			FOR UPDATE`,
			courseID).Scan(&courseState.IsActive, &courseState.MaxStudents)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrCourseNotFound
			}
			return fmt.Errorf("error locking course row: %w", err)
		}

		err = tx.QueryRow(ctx, `
			SELECT COUNT(*)
			FROM enrollments
			WHERE course_id = $1 AND is_active`,
			courseID).Scan(&courseState.EnrolledCount)
		if err != nil {
			return fmt.Errorf("error counting course enrollments: %w", err)
		}

		studentState := policy.StudentState{}
		err = tx.QueryRow(ctx, `
			SELECT COUNT(*)
			FROM enrollments
			WHERE student_id = $1 AND is_active`,
			studentID).Scan(&studentState.ActiveEnrollments)
		if err != nil {
			return fmt.Errorf("error counting student enrollments: %w", err)
		}

		var existingID int64
		var existingActive bool
		err = tx.QueryRow(ctx, `
			SELECT id, is_active
			FROM enrollments
			WHERE student_id = $1 AND course_id = $2`,
			studentID, courseID).Scan(&existingID, &existingActive)
		switch {
		case err == nil:
			studentState.EnrolledInCourse = existingActive
		case errors.Is(err, pgx.ErrNoRows):
			// first enrollment in this course
		default:
			return fmt.Errorf("error checking existing enrollment: %w", err)
		}

		if err := check(courseState, studentState); err != nil {
			return err
		}

		if existingID != 0 {
			return tx.QueryRow(ctx, `
				UPDATE enrollments
				SET is_active = TRUE, enrolled_at = NOW()
				WHERE id = $1
				RETURNING id, enrolled_at`,
				existingID).Scan(&enrollment.ID, &enrollment.EnrolledAt)
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO enrollments (student_id, course_id, is_active)
			VALUES ($1, $2, TRUE)
			RETURNING id, enrolled_at`,
			studentID, courseID).Scan(&enrollment.ID, &enrollment.EnrolledAt)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, "enrollments_student_id_course_id_key") {
				logger.Warn().Int64("studentID", studentID).Int64("courseID", courseID).
					Msg("Duplicate enrollment insert lost a race")
				return &policy.Violation{Reason: policy.AlreadyEnrolled, Message: "you are already enrolled in this course"}
			}
			return fmt.Errorf("error inserting enrollment: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return enrollment, nil
}

// GetByID retrieves an enrollment by ID
func (r *EnrollmentRepository) GetByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	enrollment := &models.Enrollment{}
	err := r.db.QueryRow(ctx, `
		SELECT id, student_id, course_id, enrolled_at, is_active
		FROM enrollments
		WHERE id = $1`,
		id).Scan(
		&enrollment.ID, &enrollment.StudentID, &enrollment.CourseID,
		&enrollment.EnrolledAt, &enrollment.IsActive)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("error retrieving enrollment: %w", err)
	}

	return enrollment, nil
}

// IsActivelyEnrolled reports whether a student holds an active enrollment
// in the course.
func (r *EnrollmentRepository) IsActivelyEnrolled(ctx context.Context, studentID, courseID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM enrollments
			WHERE student_id = $1 AND course_id = $2 AND is_active)`,
		studentID, courseID).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("error checking enrollment: %w", err)
	}

	return exists, nil
}

// ActiveCourseIDs returns the set of course IDs the student is actively
// enrolled in. Used to flag listings for the viewer.
func (r *EnrollmentRepository) ActiveCourseIDs(ctx context.Context, studentID int64) (map[int64]bool, error) {
	rows, err := r.db.Query(ctx, `
		SELECT course_id
		FROM enrollments
		WHERE student_id = $1 AND is_active`,
		studentID)
	if err != nil {
		return nil, fmt.Errorf("error listing enrolled course ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning course id: %w", err)
		}
		ids[id] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course ids: %w", err)
	}

	return ids, nil
}

// ListActiveByStudent returns the student's active enrollments with their
// courses populated, most recent first.
func (r *EnrollmentRepository) ListActiveByStudent(ctx context.Context, studentID int64) ([]*models.Enrollment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT en.id, en.student_id, en.course_id, en.enrolled_at, en.is_active,
		       c.id, c.title, c.description, c.instructor, c.credits, c.difficulty,
		       c.max_students, c.start_date, c.end_date, c.is_active, c.created_at,
		       `+enrolledCountExpr+`
		FROM enrollments en
		JOIN courses c ON c.id = en.course_id
		WHERE en.student_id = $1 AND en.is_active
		ORDER BY en.enrolled_at DESC`,
		studentID)
	if err != nil {
		return nil, fmt.Errorf("error listing student enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := make([]*models.Enrollment, 0)
	for rows.Next() {
		enrollment := &models.Enrollment{Course: &models.Course{}}
		err := rows.Scan(
			&enrollment.ID, &enrollment.StudentID, &enrollment.CourseID,
			&enrollment.EnrolledAt, &enrollment.IsActive,
			&enrollment.Course.ID, &enrollment.Course.Title, &enrollment.Course.Description,
			&enrollment.Course.Instructor, &enrollment.Course.Credits, &enrollment.Course.Difficulty,
			&enrollment.Course.MaxStudents, &enrollment.Course.StartDate, &enrollment.Course.EndDate,
			&enrollment.Course.IsActive, &enrollment.Course.CreatedAt, &enrollment.Course.EnrolledCount)
		if err != nil {
			return nil, fmt.Errorf("error scanning enrollment row: %w", err)
		}
		enrollments = append(enrollments, enrollment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating enrollment rows: %w", err)
	}

	return enrollments, nil
}

// ListByCourse returns a page of a course's enrollments with students and
// their user accounts populated, plus the total count.
func (r *EnrollmentRepository) ListByCourse(ctx context.Context, courseID int64, offset, limit int) ([]*models.Enrollment, int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM enrollments
		WHERE course_id = $1 AND is_active`,
		courseID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting course enrollments: %w", err)
	}

	sql, args, err := r.sb.Select(
		"en.id", "en.student_id", "en.course_id", "en.enrolled_at", "en.is_active",
		"s.id", "s.user_id", "s.student_id", "s.created_at",
		"u.first_name", "u.last_name", "u.email").
		From("enrollments en").
		Join("students s ON s.id = en.student_id").
		Join("users u ON u.id = s.user_id").
		Where(squirrel.Eq{"en.course_id": courseID, "en.is_active": true}).
		OrderBy("en.enrolled_at ASC").
		Offset(uint64(offset)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list enrollments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing course enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := make([]*models.Enrollment, 0)
	for rows.Next() {
		enrollment := &models.Enrollment{Student: &models.Student{User: &models.User{}}}
		err := rows.Scan(
			&enrollment.ID, &enrollment.StudentID, &enrollment.CourseID,
			&enrollment.EnrolledAt, &enrollment.IsActive,
			&enrollment.Student.ID, &enrollment.Student.UserID,
			&enrollment.Student.StudentID, &enrollment.Student.CreatedAt,
			&enrollment.Student.User.FirstName, &enrollment.Student.User.LastName,
			&enrollment.Student.User.Email)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning enrollment row: %w", err)
		}
		enrollments = append(enrollments, enrollment)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating enrollment rows: %w", err)
	}

	return enrollments, total, nil
}

// Deactivate drops an enrollment, freeing the seat. The row stays so
// re-enrollment reactivates it instead of tripping the unique constraint.
func (r *EnrollmentRepository) Deactivate(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE enrollments
		SET is_active = FALSE
		WHERE id = $1 AND is_active`,
		id)

	if err != nil {
		return fmt.Errorf("error deactivating enrollment: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}

	return nil
}
