// Package lawfile persists the law document as a single JSON file.
package lawfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"law_mirror/internal/domain"
)

// Store reads and overwrites one JSON document at a fixed path. The output
// is tab-indented with a stable key order so successive runs diff cleanly.
type Store struct {
	path   string
	logger *slog.Logger
}

func NewStore(path string, logger *slog.Logger) *Store {
	return &Store{
		path:   path,
		logger: logger.With("component", "lawfile", "path", path),
	}
}

// Load returns the prior document. A missing, unreadable or undecodable
// file yields an empty document: a broken mirror state must never block a
// run, the next successful write repairs it.
func (s *Store) Load(_ context.Context) (*domain.LawDocument, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("read prior state", "error", err)
		}
		return &domain.LawDocument{}, nil
	}

	var doc domain.LawDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warn("prior state is not valid JSON, starting empty", "error", err)
		return &domain.LawDocument{}, nil
	}

	return &doc, nil
}

// Save overwrites the document in place.
func (s *Store) Save(_ context.Context, doc *domain.LawDocument) error {
	data, err := json.MarshalIndent(doc, "", "\t")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}

	return nil
}
