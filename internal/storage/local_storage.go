package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/carvanta/carvanta-backend/pkg/logger"
)

// LocalStorage writes uploads to a directory tree on local disk,
// one subdirectory per category, served back under baseURL.
type LocalStorage struct {
	root    string
	baseURL string
}

func NewLocalStorage(root, baseURL string) *LocalStorage {
	return &LocalStorage{
		root:    root,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

func (s *LocalStorage) Save(category string, upload Upload) (string, error) {
	if err := ValidateContentType(upload.ContentType); err != nil {
		return "", err
	}

	dir := filepath.Join(s.root, category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	filename := GenerateFilename(upload.Filename)
	path := filepath.Join(dir, filename)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, upload.Content); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}

	ref := fmt.Sprintf("%s/%s/%s", s.baseURL, category, filename)
	logger.Debug("Upload stored", map[string]interface{}{
		"category": category,
		"ref":      ref,
	})
	return ref, nil
}

// Delete removes the file behind ref. Absence is not an error; refs that
// do not resolve inside the upload root are refused.
func (s *LocalStorage) Delete(ref string) error {
	path, err := s.resolve(ref)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete upload file: %w", err)
	}
	return nil
}

// resolve maps an asset reference back to a path under the upload root.
func (s *LocalStorage) resolve(ref string) (string, error) {
	rel, ok := strings.CutPrefix(ref, s.baseURL+"/")
	if !ok {
		return "", fmt.Errorf("asset reference %q is outside %s", ref, s.baseURL)
	}
	rel = filepath.Clean(rel)
	if rel == "." || strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		return "", fmt.Errorf("asset reference %q is not a valid path", ref)
	}
	return filepath.Join(s.root, rel), nil
}
