package db

import (
	"context"
	"fmt"
	"strings"

	"staffhub/internal/domain/auth"
	"staffhub/internal/platform/config"
	"staffhub/internal/platform/querier"
)

// Seed creates the bootstrap admin account when one is configured and does
// not exist yet. The account is created pre-verified.
func Seed(ctx context.Context, db querier.Querier, cfg config.Config) error {
	email := strings.ToLower(strings.TrimSpace(cfg.SeedAdminEmail))
	if email == "" || strings.TrimSpace(cfg.SeedAdminPassword) == "" {
		return nil
	}

	var id string
	err := db.QueryRow(ctx, "SELECT id FROM accounts WHERE email = $1", email).Scan(&id)
	switch {
	case err == nil:
		return nil
	case !querier.IsNotFound(err):
		return fmt.Errorf("check seed admin: %w", err)
	}

	hash, err := auth.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		return err
	}

	_, err = db.Exec(ctx, `
		INSERT INTO accounts (email, employee_id, password_hash, role, verified)
		VALUES ($1, $2, $3, $4, TRUE)`,
		email, "ADMIN-001", hash, auth.RoleAdmin,
	)
	return err
}
