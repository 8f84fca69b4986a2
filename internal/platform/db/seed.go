package db

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrconsole/internal/auth"
	"hrconsole/internal/domain/attendance"
	domainauth "hrconsole/internal/domain/auth"
	"hrconsole/internal/platform/config"
)

func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if err := ensurePermissions(ctx, pool); err != nil {
		return err
	}
	if err := ensureRolePermissions(ctx, pool); err != nil {
		return err
	}
	if err := ensureAdminUser(ctx, pool, cfg.SeedAdminUsername, cfg.SeedAdminName, cfg.SeedAdminPassword); err != nil {
		return err
	}
	return ensureTaskCatalog(ctx, pool)
}

func ensurePermissions(ctx context.Context, pool *pgxpool.Pool) error {
	for _, perm := range domainauth.DefaultPermissions {
		if _, err := pool.Exec(ctx, "INSERT INTO permissions (key) VALUES ($1) ON CONFLICT (key) DO NOTHING", perm); err != nil {
			return err
		}
	}
	return nil
}

func ensureRolePermissions(ctx context.Context, pool *pgxpool.Pool) error {
	for role, perms := range domainauth.RolePermissions {
		for _, perm := range perms {
			if _, err := pool.Exec(ctx, `
        INSERT INTO role_permissions (role, permission_id)
        SELECT $1, id FROM permissions WHERE key = $2
        ON CONFLICT (role, permission_id) DO NOTHING
      `, role, perm); err != nil {
				return err
			}
		}
	}
	return nil
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, username, name, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil
	}

	var existing string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE username = $1", username).Scan(&existing)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
    INSERT INTO users (username, name, password_hash, role)
    VALUES ($1, $2, $3, $4)
  `, username, name, hash, domainauth.RoleAdmin)
	return err
}

func ensureTaskCatalog(ctx context.Context, pool *pgxpool.Pool) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM task_catalog").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, task := range attendance.DefaultTasks() {
		if _, err := pool.Exec(ctx, `
      INSERT INTO task_catalog (code, name, required_times, icon, position)
      VALUES ($1, $2, $3, $4, $5)
      ON CONFLICT (code) DO NOTHING
    `, task.Code, task.Name, task.RequiredTimes, task.Icon, task.Position); err != nil {
			return err
		}
	}
	return nil
}
