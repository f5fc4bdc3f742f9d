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

// enrolledCountExpr counts a course's active enrollments inline so list
// and detail queries return courses ready for capacity display.
const enrolledCountExpr = `(SELECT COUNT(*) FROM enrollments e WHERE e.course_id = c.id AND e.is_active) AS enrolled_count`

// CourseFilter narrows course listings
type CourseFilter struct {
	Difficulty      string
	Query           string
	IncludeInactive bool
}

// CourseRepository handles course database operations
type CourseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new course and sets the generated ID on the model
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO courses (title, description, instructor, credits, difficulty, max_students, start_date, end_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`,
		course.Title, course.Description, course.Instructor, course.Credits,
		course.Difficulty, course.MaxStudents, course.StartDate, course.EndDate, course.IsActive).
		Scan(&course.ID, &course.CreatedAt)

	if err != nil {
		if dberrors.IsCheckViolation(err, "courses_date_range_check") {
			return apperrors.ErrInvalidDateRange
		}
		return fmt.Errorf("error creating course: %w", err)
	}

	return nil
}

// GetByID retrieves a course with its active enrollment count
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	course := &models.Course{}
	err := r.db.QueryRow(ctx, `
		SELECT c.id, c.title, c.description, c.instructor, c.credits, c.difficulty,
		       c.max_students, c.start_date, c.end_date, c.is_active, c.created_at,
		       `+enrolledCountExpr+`
		FROM courses c
		WHERE c.id = $1`,
		id).Scan(
		&course.ID, &course.Title, &course.Description, &course.Instructor,
		&course.Credits, &course.Difficulty, &course.MaxStudents,
		&course.StartDate, &course.EndDate, &course.IsActive, &course.CreatedAt,
		&course.EnrolledCount)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	return course, nil
}

// Update replaces a course's editable fields
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE courses
		SET title = $1, description = $2, instructor = $3, credits = $4,
		    difficulty = $5, max_students = $6, start_date = $7, end_date = $8, is_active = $9
		WHERE id = $10`,
		course.Title, course.Description, course.Instructor, course.Credits,
		course.Difficulty, course.MaxStudents, course.StartDate, course.EndDate,
		course.IsActive, course.ID)

	if err != nil {
		if dberrors.IsCheckViolation(err, "courses_date_range_check") {
			return apperrors.ErrInvalidDateRange
		}
		return fmt.Errorf("error updating course: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// Delete removes a course. Enrollments and file records cascade; the
// caller is responsible for removing stored blobs first.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `
		DELETE FROM courses
		WHERE id = $1`,
		id)

	if err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// List returns a page of courses matching the filter, newest first, plus
// the total count for pagination.
func (r *CourseRepository) List(ctx context.Context, filter CourseFilter, offset, limit int) ([]*models.Course, int64, error) {
	conditions := squirrel.And{}
	if !filter.IncludeInactive {
		conditions = append(conditions, squirrel.Eq{"c.is_active": true})
	}
	if filter.Difficulty != "" {
		conditions = append(conditions, squirrel.Eq{"c.difficulty": filter.Difficulty})
	}
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		conditions = append(conditions, squirrel.Or{
			squirrel.ILike{"c.title": pattern},
			squirrel.ILike{"c.instructor": pattern},
		})
	}

	countBuilder := r.sb.Select("COUNT(*)").From("courses c")
	listBuilder := r.sb.Select(
		"c.id", "c.title", "c.description", "c.instructor", "c.credits", "c.difficulty",
		"c.max_students", "c.start_date", "c.end_date", "c.is_active", "c.created_at",
		enrolledCountExpr).
		From("courses c").
		OrderBy("c.created_at DESC").
		Offset(uint64(offset)).
		Limit(uint64(limit))

	if len(conditions) > 0 {
		countBuilder = countBuilder.Where(conditions)
		listBuilder = listBuilder.Where(conditions)
	}

	countSql, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count courses query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSql, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting courses: %w", err)
	}

	sql, args, err := listBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	courses := make([]*models.Course, 0)
	for rows.Next() {
		course := &models.Course{}
		err := rows.Scan(
			&course.ID, &course.Title, &course.Description, &course.Instructor,
			&course.Credits, &course.Difficulty, &course.MaxStudents,
			&course.StartDate, &course.EndDate, &course.IsActive, &course.CreatedAt,
			&course.EnrolledCount)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating course rows: %w", err)
	}

	return courses, total, nil
}
