package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	cryptoutil "hrconsole/internal/platform/crypto"
)

var ErrOutsideBase = errors.New("path escapes storage directory")

// Store keeps uploaded files (employee documents, gallery images) under a
// base directory, optionally encrypted at rest. Stored paths are relative to
// the base directory and safe to persist.
type Store struct {
	baseDir string
	crypto  *cryptoutil.Service
}

func New(baseDir string, crypto *cryptoutil.Service) *Store {
	return &Store{baseDir: baseDir, crypto: crypto}
}

func (s *Store) Save(category, originalName string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(SanitizeFileName(originalName)))
	relative := filepath.Join(category, uuid.NewString()+ext)
	absolute, err := s.resolve(relative)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(absolute), 0o755); err != nil {
		return "", err
	}

	payload := data
	if s.crypto != nil && s.crypto.Configured() {
		encrypted, err := s.crypto.Encrypt(data)
		if err != nil {
			return "", err
		}
		payload = encrypted
	}
	if err := os.WriteFile(absolute, payload, 0o600); err != nil {
		return "", err
	}
	return filepath.ToSlash(relative), nil
}

func (s *Store) Read(relative string) ([]byte, error) {
	absolute, err := s.resolve(relative)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(absolute)
	if err != nil {
		return nil, err
	}
	if s.crypto != nil && s.crypto.Configured() {
		return s.crypto.Decrypt(data)
	}
	return data, nil
}

func (s *Store) Remove(relative string) error {
	absolute, err := s.resolve(relative)
	if err != nil {
		return err
	}
	err = os.Remove(absolute)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *Store) resolve(relative string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(relative))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", ErrOutsideBase
	}
	return filepath.Join(s.baseDir, cleaned), nil
}

func SanitizeFileName(name string) string {
	cleaned := strings.TrimSpace(filepath.Base(name))
	cleaned = strings.ReplaceAll(cleaned, "\x00", "")
	if cleaned == "" {
		return "document.bin"
	}
	return cleaned
}
