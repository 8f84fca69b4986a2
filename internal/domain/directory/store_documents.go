package directory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

func (s *Store) ListDocuments(ctx context.Context, employeeID string) ([]Document, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, slot, path, file_name, uploaded_at
    FROM employee_documents
    WHERE employee_id = $1
    ORDER BY slot, uploaded_at
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.Slot, &doc.Path, &doc.FileName, &doc.UploadedAt); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func (s *Store) GetDocument(ctx context.Context, employeeID, documentID string) (Document, error) {
	var doc Document
	err := s.DB.QueryRow(ctx, `
    SELECT id, slot, path, file_name, uploaded_at
    FROM employee_documents
    WHERE employee_id = $1 AND id = $2
  `, employeeID, documentID).Scan(&doc.ID, &doc.Slot, &doc.Path, &doc.FileName, &doc.UploadedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	return doc, err
}

// SlotDocument returns the current document in a named slot, if any.
func (s *Store) SlotDocument(ctx context.Context, employeeID, slot string) (Document, bool, error) {
	var doc Document
	err := s.DB.QueryRow(ctx, `
    SELECT id, slot, path, file_name, uploaded_at
    FROM employee_documents
    WHERE employee_id = $1 AND slot = $2
    ORDER BY uploaded_at DESC
    LIMIT 1
  `, employeeID, slot).Scan(&doc.ID, &doc.Slot, &doc.Path, &doc.FileName, &doc.UploadedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Document{}, false, nil
	}
	if err != nil {
		return Document{}, false, err
	}
	return doc, true, nil
}

func (s *Store) InsertDocument(ctx context.Context, employeeID string, doc Document) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employee_documents (employee_id, slot, path, file_name)
    VALUES ($1,$2,$3,$4)
    RETURNING id
  `, employeeID, doc.Slot, doc.Path, doc.FileName).Scan(&id)
	return id, err
}

func (s *Store) DeleteDocument(ctx context.Context, employeeID, documentID string) error {
	cmd, err := s.DB.Exec(ctx, "DELETE FROM employee_documents WHERE employee_id = $1 AND id = $2", employeeID, documentID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
