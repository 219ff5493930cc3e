package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/emiliopalmerini/focusd/internal/util"
)

// ArchiveStorage keeps gzipped day archives under the XDG data directory.
type ArchiveStorage struct {
	baseDir string
}

func NewArchiveStorage() (*ArchiveStorage, error) {
	baseDir, err := util.GetXDGDataDir()
	if err != nil {
		return nil, err
	}

	archivesDir := filepath.Join(baseDir, "archives")
	if err := os.MkdirAll(archivesDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archives directory: %w", err)
	}

	return &ArchiveStorage{baseDir: archivesDir}, nil
}

func (s *ArchiveStorage) Store(ctx context.Context, date string, data []byte) (string, error) {
	destPath := s.getPath(date)

	dest, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create archive file: %w", err)
	}
	defer func() { _ = dest.Close() }()

	gw := gzip.NewWriter(dest)
	if _, err := io.Copy(gw, bytes.NewReader(data)); err != nil {
		_ = gw.Close()
		return "", fmt.Errorf("failed to compress archive: %w", err)
	}
	if err := gw.Close(); err != nil {
		return "", fmt.Errorf("failed to close gzip writer: %w", err)
	}

	return destPath, nil
}

func (s *ArchiveStorage) Get(ctx context.Context, date string) ([]byte, error) {
	file, err := os.Open(s.getPath(date))
	if err != nil {
		return nil, fmt.Errorf("failed to open archive file: %w", err)
	}
	defer func() { _ = file.Close() }()

	gr, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer func() { _ = gr.Close() }()

	data, err := io.ReadAll(gr)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}

	return data, nil
}

func (s *ArchiveStorage) Delete(ctx context.Context, date string) error {
	if err := os.Remove(s.getPath(date)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete archive: %w", err)
	}
	return nil
}

func (s *ArchiveStorage) getPath(date string) string {
	return filepath.Join(s.baseDir, date+".json.gz")
}
