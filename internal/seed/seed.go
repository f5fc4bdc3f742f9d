// Package seed creates the baseline data the application expects: the
// Teachers group and a default superuser account.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkaraca/coursehub/internal/app/models"
	"github.com/dkaraca/coursehub/internal/app/repositories"
	"github.com/dkaraca/coursehub/internal/config"
	"github.com/dkaraca/coursehub/internal/db"
	"github.com/dkaraca/coursehub/internal/pkg/apperrors"
	"github.com/dkaraca/coursehub/internal/pkg/auth"
	"github.com/dkaraca/coursehub/internal/pkg/logger"

	"github.com/jackc/pgx/v5"
)

// Run seeds baseline data. Safe to run on every startup; existing data is
// left alone.
func Run(ctx context.Context, cfg *config.Config, database *db.PostgresDB, repos *repositories.Repositories) error {
	if _, err := repos.Group.GetByName(ctx, repositories.TeachersGroupName); err != nil {
		if !errors.Is(err, apperrors.ErrResourceNotFound) {
			return fmt.Errorf("failed to check Teachers group: %w", err)
		}
		if _, err := repos.Group.GetOrCreate(ctx, repositories.TeachersGroupName); err != nil {
			return fmt.Errorf("failed to seed Teachers group: %w", err)
		}
		logger.Info().Str("group", repositories.TeachersGroupName).Msg("Teachers group created")
	}

	return seedSuperuser(ctx, cfg, database, repos)
}

func seedSuperuser(ctx context.Context, cfg *config.Config, database *db.PostgresDB, repos *repositories.Repositories) error {
	email := cfg.Seed.SuperuserEmail
	if email == "" {
		return nil
	}

	_, err := repos.User.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return fmt.Errorf("failed to check for superuser: %w", err)
	}

	password := cfg.Seed.SuperuserPassword
	if password == "" {
		logger.Warn().Str("email", email).
			Msg("No superuser password configured, skipping superuser seed")
		return nil
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash superuser password: %w", err)
	}

	user := &models.User{
		Email:     email,
		Password:  hashed,
		FirstName: "System",
		LastName:  "Administrator",
		RoleType:  models.RoleSuperuser,
		IsActive:  true,
	}

	err = database.RunTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return repos.User.CreateTx(ctx, tx, user)
	})
	if err != nil {
		return fmt.Errorf("failed to create superuser: %w", err)
	}

	logger.Info().Str("email", email).Msg("Default superuser created")
	return nil
}
