package gallery

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("gallery record not found")

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// ListQuotes returns a page of quotes, newest date first, plus the total
// count for pagination.
func (s *Store) ListQuotes(ctx context.Context, limit, offset int) ([]Quote, int, error) {
	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(1) FROM quotes`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count quotes: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, quote_date, quote, COALESCE(occasion, ''), COALESCE(image_path, ''), created_at, updated_at
		FROM quotes
		ORDER BY quote_date DESC, created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list quotes: %w", err)
	}
	defer rows.Close()

	var out []Quote
	for rows.Next() {
		var q Quote
		if err := rows.Scan(&q.ID, &q.Date, &q.Quote, &q.Occasion, &q.ImagePath, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan quote: %w", err)
		}
		out = append(out, q)
	}
	return out, total, rows.Err()
}

func (s *Store) GetQuote(ctx context.Context, id string) (Quote, error) {
	var q Quote
	err := s.pool.QueryRow(ctx, `
		SELECT id, quote_date, quote, COALESCE(occasion, ''), COALESCE(image_path, ''), created_at, updated_at
		FROM quotes WHERE id = $1`, id).
		Scan(&q.ID, &q.Date, &q.Quote, &q.Occasion, &q.ImagePath, &q.CreatedAt, &q.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Quote{}, ErrNotFound
	}
	if err != nil {
		return Quote{}, fmt.Errorf("get quote: %w", err)
	}
	return q, nil
}

func (s *Store) CreateQuote(ctx context.Context, q Quote) (Quote, error) {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO quotes (id, quote_date, quote, occasion, image_path, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NOW(), NOW())
		RETURNING created_at, updated_at`,
		q.ID, q.Date, q.Quote, q.Occasion, q.ImagePath).
		Scan(&q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return Quote{}, fmt.Errorf("create quote: %w", err)
	}
	return q, nil
}

func (s *Store) UpdateQuote(ctx context.Context, q Quote) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE quotes SET quote_date = $2, quote = $3, occasion = NULLIF($4, ''), image_path = NULLIF($5, ''), updated_at = NOW()
		WHERE id = $1`,
		q.ID, q.Date, q.Quote, q.Occasion, q.ImagePath)
	if err != nil {
		return fmt.Errorf("update quote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteQuote(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM quotes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete quote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListImages returns one pool of the shared image library.
func (s *Store) ListImages(ctx context.Context, kind string) ([]LibraryImage, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, kind, name, image_path, created_at
		FROM gallery_images
		WHERE kind = $1
		ORDER BY name`, kind)
	if err != nil {
		return nil, fmt.Errorf("list gallery images: %w", err)
	}
	defer rows.Close()

	var out []LibraryImage
	for rows.Next() {
		var img LibraryImage
		if err := rows.Scan(&img.ID, &img.Kind, &img.Name, &img.ImagePath, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan gallery image: %w", err)
		}
		out = append(out, img)
	}
	return out, rows.Err()
}

func (s *Store) GetImage(ctx context.Context, id string) (LibraryImage, error) {
	var img LibraryImage
	err := s.pool.QueryRow(ctx, `
		SELECT id, kind, name, image_path, created_at
		FROM gallery_images WHERE id = $1`, id).
		Scan(&img.ID, &img.Kind, &img.Name, &img.ImagePath, &img.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return LibraryImage{}, ErrNotFound
	}
	if err != nil {
		return LibraryImage{}, fmt.Errorf("get gallery image: %w", err)
	}
	return img, nil
}

func (s *Store) CreateImage(ctx context.Context, img LibraryImage) (LibraryImage, error) {
	if img.ID == "" {
		img.ID = uuid.NewString()
	}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO gallery_images (id, kind, name, image_path, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING created_at`,
		img.ID, img.Kind, img.Name, img.ImagePath).
		Scan(&img.CreatedAt)
	if err != nil {
		return LibraryImage{}, fmt.Errorf("create gallery image: %w", err)
	}
	return img, nil
}

func (s *Store) DeleteImage(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM gallery_images WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete gallery image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
