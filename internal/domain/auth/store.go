package auth

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AuthUser struct {
	ID           string
	Username     string
	Name         string
	PasswordHash string
	Role         string
	Designation  string
	EmployeeID   string
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) FindUserByUsername(ctx context.Context, username string) (AuthUser, error) {
	var user AuthUser
	err := s.DB.QueryRow(ctx, `
    SELECT u.id, u.username, u.name, u.password_hash, u.role, COALESCE(d.name, ''), COALESCE(u.employee_id::text, '')
    FROM users u
    LEFT JOIN designations d ON u.designation_id = d.id
    WHERE u.username = $1
  `, username).Scan(&user.ID, &user.Username, &user.Name, &user.PasswordHash, &user.Role, &user.Designation, &user.EmployeeID)
	return user, err
}

func (s *Store) HasPermission(ctx context.Context, role, permission string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM role_permissions rp
    JOIN permissions p ON rp.permission_id = p.id
    WHERE rp.role = $1 AND p.key = $2
  `, role, permission).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) UpdateLastLogin(ctx context.Context, userID string) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET last_login_at = $1 WHERE id = $2", time.Now(), userID)
	return err
}
