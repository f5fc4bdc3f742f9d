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
)

const fileColumns = `id, uploaded_by, course_id, title, description, file_name, file_path, file_size, mime_type, uploaded_at`

// FileRepository handles course file metadata database operations
type FileRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewFileRepository creates a new FileRepository
func NewFileRepository(db *pgxpool.Pool) *FileRepository {
	return &FileRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a file record and sets the generated ID on the model
func (r *FileRepository) Create(ctx context.Context, file *models.FileUpload) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO file_uploads (uploaded_by, course_id, title, description, file_name, file_path, file_size, mime_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, uploaded_at`,
		file.UploadedBy, file.CourseID, file.Title, file.Description,
		file.FileName, file.FilePath, file.FileSize, file.MimeType).
		Scan(&file.ID, &file.UploadedAt)

	if err != nil {
		return fmt.Errorf("error creating file record: %w", err)
	}

	return nil
}

// GetByID retrieves a file record by ID
func (r *FileRepository) GetByID(ctx context.Context, id int64) (*models.FileUpload, error) {
	file := &models.FileUpload{}
	err := r.db.QueryRow(ctx, `
		SELECT `+fileColumns+`
		FROM file_uploads
		WHERE id = $1`,
		id).Scan(
		&file.ID, &file.UploadedBy, &file.CourseID, &file.Title, &file.Description,
		&file.FileName, &file.FilePath, &file.FileSize, &file.MimeType, &file.UploadedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFileNotFound
		}
		return nil, fmt.Errorf("error retrieving file record: %w", err)
	}

	return file, nil
}

// ListByCourse returns a course's file records, newest first
func (r *FileRepository) ListByCourse(ctx context.Context, courseID int64) ([]*models.FileUpload, error) {
	sql, args, err := r.sb.Select(
		"id", "uploaded_by", "course_id", "title", "description",
		"file_name", "file_path", "file_size", "mime_type", "uploaded_at").
		From("file_uploads").
		Where(squirrel.Eq{"course_id": courseID}).
		OrderBy("uploaded_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list files query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing course files: %w", err)
	}
	defer rows.Close()

	files := make([]*models.FileUpload, 0)
	for rows.Next() {
		file := &models.FileUpload{}
		err := rows.Scan(
			&file.ID, &file.UploadedBy, &file.CourseID, &file.Title, &file.Description,
			&file.FileName, &file.FilePath, &file.FileSize, &file.MimeType, &file.UploadedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning file row: %w", err)
		}
		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating file rows: %w", err)
	}

	return files, nil
}

// Delete removes a file record. The stored blob is the caller's problem.
func (r *FileRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `
		DELETE FROM file_uploads
		WHERE id = $1`,
		id)

	if err != nil {
		return fmt.Errorf("error deleting file record: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrFileNotFound
	}

	return nil
}
