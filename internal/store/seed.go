package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"goblog/internal/auth"
	"goblog/internal/model"
)

// Seed creates the admin account on first boot. The users table is
// empty at that point, so SQLite assigns the admin row id 1 — the
// identity the authorization gate checks for. The check and the insert
// run in one transaction so a concurrent boot cannot double-seed.
func Seed(ctx context.Context, db *sql.DB, adminEmail, adminPassword string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	queries := New(db).WithTx(tx)

	count, err := queries.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if count > 0 {
		admin, err := queries.GetUserByID(ctx, model.AdminUserID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("users exist but admin (id %d) is missing", model.AdminUserID)
			}
			return fmt.Errorf("checking admin user: %w", err)
		}
		slog.Info("admin user already exists, skipping seed", "email", admin.Email)
		return nil
	}

	passwordHash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}

	admin, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        adminEmail,
		Name:         "Administrator",
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}
	if admin.ID != model.AdminUserID {
		return fmt.Errorf("admin user got id %d, want %d", admin.ID, model.AdminUserID)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seed: %w", err)
	}

	slog.Info("created admin user", "id", admin.ID, "email", admin.Email)
	return nil
}
