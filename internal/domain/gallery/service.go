package gallery

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"hrconsole/internal/platform/storage"
)

var (
	ErrUnknownOccasion = errors.New("unknown occasion")
	ErrUnknownKind     = errors.New("unknown image kind")
	ErrValidation      = errors.New("invalid quote")
)

type Service struct {
	store     *Store
	files     *storage.Store
	assetBase string
}

func NewService(store *Store, files *storage.Store, assetBase string) *Service {
	return &Service{store: store, files: files, assetBase: strings.TrimRight(assetBase, "/")}
}

// resolveURL turns a stored relative path into the URL clients fetch it
// from. Empty paths stay empty.
func (s *Service) resolveURL(path string) string {
	if path == "" {
		return ""
	}
	return s.assetBase + "/" + path
}

func (s *Service) decorateQuote(q Quote) Quote {
	q.ImageURL = s.resolveURL(q.ImagePath)
	return q
}

func (s *Service) decorateImage(img LibraryImage) LibraryImage {
	img.ImageURL = s.resolveURL(img.ImagePath)
	return img
}

type QuoteInput struct {
	Date     time.Time
	Quote    string
	Occasion string

	// Exactly one image source: fresh upload bytes, or a library pick.
	ImageData      []byte
	ImageName      string
	LibraryImageID string
}

func (s *Service) resolveImage(ctx context.Context, in QuoteInput) (string, error) {
	if len(in.ImageData) > 0 {
		return s.files.Save("quotes", in.ImageName, in.ImageData)
	}
	if in.LibraryImageID != "" {
		img, err := s.store.GetImage(ctx, in.LibraryImageID)
		if err != nil {
			return "", err
		}
		return img.ImagePath, nil
	}
	return "", nil
}

func (s *Service) CreateQuote(ctx context.Context, in QuoteInput) (Quote, error) {
	if in.Quote == "" || in.Date.IsZero() {
		return Quote{}, ErrValidation
	}
	if _, ok := OccasionKind(in.Occasion); !ok {
		return Quote{}, ErrUnknownOccasion
	}

	imagePath, err := s.resolveImage(ctx, in)
	if err != nil {
		return Quote{}, err
	}
	created, err := s.store.CreateQuote(ctx, Quote{
		Date:      in.Date,
		Quote:     in.Quote,
		Occasion:  in.Occasion,
		ImagePath: imagePath,
	})
	if err != nil {
		return Quote{}, err
	}
	return s.decorateQuote(created), nil
}

func (s *Service) UpdateQuote(ctx context.Context, id string, in QuoteInput) (Quote, error) {
	if in.Quote == "" || in.Date.IsZero() {
		return Quote{}, ErrValidation
	}
	if _, ok := OccasionKind(in.Occasion); !ok {
		return Quote{}, ErrUnknownOccasion
	}

	existing, err := s.store.GetQuote(ctx, id)
	if err != nil {
		return Quote{}, err
	}

	imagePath, err := s.resolveImage(ctx, in)
	if err != nil {
		return Quote{}, err
	}
	if imagePath == "" {
		imagePath = existing.ImagePath
	} else if imagePath != existing.ImagePath {
		s.removeQuoteImage(existing.ImagePath)
	}

	updated := Quote{
		ID:        id,
		Date:      in.Date,
		Quote:     in.Quote,
		Occasion:  in.Occasion,
		ImagePath: imagePath,
	}
	if err := s.store.UpdateQuote(ctx, updated); err != nil {
		return Quote{}, err
	}
	return s.GetQuote(ctx, id)
}

func (s *Service) DeleteQuote(ctx context.Context, id string) error {
	q, err := s.store.GetQuote(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteQuote(ctx, id); err != nil {
		return err
	}
	s.removeQuoteImage(q.ImagePath)
	return nil
}

// removeQuoteImage deletes an uploaded quote image. Library images live
// under their own prefix and are shared, so they are never removed here.
func (s *Service) removeQuoteImage(path string) {
	if path == "" || !strings.HasPrefix(path, "quotes/") {
		return
	}
	if err := s.files.Remove(path); err != nil {
		slog.Warn("failed to remove quote image", "path", path, "error", err)
	}
}

func (s *Service) ListQuotes(ctx context.Context, limit, offset int) ([]Quote, int, error) {
	quotes, total, err := s.store.ListQuotes(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	for i := range quotes {
		quotes[i] = s.decorateQuote(quotes[i])
	}
	return quotes, total, nil
}

func (s *Service) GetQuote(ctx context.Context, id string) (Quote, error) {
	q, err := s.store.GetQuote(ctx, id)
	if err != nil {
		return Quote{}, err
	}
	return s.decorateQuote(q), nil
}

// ImagesForOccasion returns the picker pool matching the occasion's kind.
func (s *Service) ImagesForOccasion(ctx context.Context, occasion string) ([]LibraryImage, error) {
	kind, ok := OccasionKind(occasion)
	if !ok {
		return nil, ErrUnknownOccasion
	}
	return s.ListImages(ctx, kind)
}

func (s *Service) ListImages(ctx context.Context, kind string) ([]LibraryImage, error) {
	if kind != KindEmployee && kind != KindOccasion {
		return nil, ErrUnknownKind
	}
	images, err := s.store.ListImages(ctx, kind)
	if err != nil {
		return nil, err
	}
	for i := range images {
		images[i] = s.decorateImage(images[i])
	}
	return images, nil
}

// ReadFile returns the decrypted bytes of a stored gallery asset. Only
// gallery and quote uploads are reachable; other storage categories hold
// employee documents and stay behind the directory endpoints.
func (s *Service) ReadFile(path string) ([]byte, error) {
	if !strings.HasPrefix(path, "gallery/") && !strings.HasPrefix(path, "quotes/") {
		return nil, ErrNotFound
	}
	return s.files.Read(path)
}

func (s *Service) AddImage(ctx context.Context, kind, name, fileName string, data []byte) (LibraryImage, error) {
	if kind != KindEmployee && kind != KindOccasion {
		return LibraryImage{}, ErrUnknownKind
	}
	if name == "" || len(data) == 0 {
		return LibraryImage{}, ErrValidation
	}
	path, err := s.files.Save("gallery", fileName, data)
	if err != nil {
		return LibraryImage{}, err
	}
	created, err := s.store.CreateImage(ctx, LibraryImage{Kind: kind, Name: name, ImagePath: path})
	if err != nil {
		return LibraryImage{}, err
	}
	return s.decorateImage(created), nil
}

func (s *Service) DeleteImage(ctx context.Context, id string) error {
	img, err := s.store.GetImage(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteImage(ctx, id); err != nil {
		return err
	}
	if err := s.files.Remove(img.ImagePath); err != nil {
		slog.Warn("failed to remove gallery image", "path", img.ImagePath, "error", err)
	}
	return nil
}
