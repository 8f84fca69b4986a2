package directory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

func (s *Store) ListDesignations(ctx context.Context) ([]Designation, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, created_at, updated_at
    FROM designations
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Designation
	for rows.Next() {
		var d Designation
		if err := rows.Scan(&d.ID, &d.Name, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *Store) CreateDesignation(ctx context.Context, name string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO designations (name)
    VALUES ($1)
    RETURNING id
  `, name).Scan(&id)
	if isUniqueViolation(err) {
		return "", ErrDuplicateName
	}
	return id, err
}

func (s *Store) UpdateDesignation(ctx context.Context, designationID, name string) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE designations SET name = $1, updated_at = now() WHERE id = $2
  `, name, designationID)
	if isUniqueViolation(err) {
		return ErrDuplicateName
	}
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteDesignation(ctx context.Context, designationID string) error {
	var references int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE designation_id = $1", designationID).Scan(&references); err != nil {
		return err
	}
	if references > 0 {
		return ErrInUse
	}

	cmd, err := s.DB.Exec(ctx, "DELETE FROM designations WHERE id = $1", designationID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DesignationName(ctx context.Context, designationID string) (string, error) {
	var name string
	err := s.DB.QueryRow(ctx, "SELECT name FROM designations WHERE id = $1", designationID).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return name, err
}
