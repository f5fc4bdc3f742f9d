package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dkaraca/coursehub/internal/app/models"
	"github.com/dkaraca/coursehub/internal/pkg/apperrors"
)

// TeachersGroupName is the group every self-registered staff account joins.
const TeachersGroupName = "Teachers"

// GroupRepository handles role group database operations
type GroupRepository struct {
	db *pgxpool.Pool
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{db: db}
}

// GetByName retrieves a group by its name
func (r *GroupRepository) GetByName(ctx context.Context, name string) (*models.Group, error) {
	group := &models.Group{}
	err := r.db.QueryRow(ctx, `
		SELECT id, name
		FROM groups
		WHERE name = $1`,
		name).Scan(&group.ID, &group.Name)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error retrieving group: %w", err)
	}

	return group, nil
}

// GetOrCreate returns the group with the given name, creating it if it
// does not exist yet.
func (r *GroupRepository) GetOrCreate(ctx context.Context, name string) (*models.Group, error) {
	group := &models.Group{}
	err := r.db.QueryRow(ctx, `
		INSERT INTO groups (name)
		VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name`,
		name).Scan(&group.ID, &group.Name)

	if err != nil {
		return nil, fmt.Errorf("error creating group: %w", err)
	}

	return group, nil
}

// AddUserToGroupTx adds a user to a group inside an existing transaction.
// Adding a member twice is a no-op.
func (r *GroupRepository) AddUserToGroupTx(ctx context.Context, tx pgx.Tx, userID, groupID int64) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO user_groups (user_id, group_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, group_id) DO NOTHING`,
		userID, groupID)

	if err != nil {
		return fmt.Errorf("error adding user to group: %w", err)
	}

	return nil
}
