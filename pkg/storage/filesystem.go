package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/noah-isme/edu-content-forge/internal/models"
)

// ErrArtifactNotFound is returned by Load when no artifact has been written for the key.
var ErrArtifactNotFound = errors.New("artifact not found")

var productIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ArtifactStore persists stage artifacts as JSON documents under a base directory,
// one file per (product, kind): <base>/product_<id>/<kind>.json.
type ArtifactStore struct {
	baseDir string
}

// NewArtifactStore ensures the base directory exists and returns a handle.
func NewArtifactStore(baseDir string) (*ArtifactStore, error) {
	if baseDir == "" {
		baseDir = "./storage"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &ArtifactStore{baseDir: baseDir}, nil
}

// Save overwrites the artifact for productID/kind. The write goes through a temp file and rename
// so readers never observe a partial document.
func (s *ArtifactStore) Save(ctx context.Context, productID string, kind models.ArtifactKind, value interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.resolve(productID, kind)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s artifact: %w", kind, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("prepare artifact directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, string(kind)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write %s artifact: %w", kind, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close %s artifact: %w", kind, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("commit %s artifact: %w", kind, err)
	}
	return nil
}

// Load decodes the stored artifact into dest.
func (s *ArtifactStore) Load(ctx context.Context, productID string, kind models.ArtifactKind, dest interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.resolve(productID, kind)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrArtifactNotFound
		}
		return fmt.Errorf("read %s artifact: %w", kind, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode %s artifact: %w", kind, err)
	}
	return nil
}

// Path exposes the on-disk location of an artifact.
func (s *ArtifactStore) Path(productID string, kind models.ArtifactKind) string {
	path, _ := s.resolve(productID, kind)
	return path
}

func (s *ArtifactStore) resolve(productID string, kind models.ArtifactKind) (string, error) {
	if !productIDPattern.MatchString(productID) {
		return "", fmt.Errorf("invalid product id %q", productID)
	}
	if !kind.Valid() {
		return "", fmt.Errorf("invalid artifact kind %q", kind)
	}
	return filepath.Join(s.baseDir, "product_"+productID, string(kind)+".json"), nil
}
