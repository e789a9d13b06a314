package storage

import (
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"
)

// Upload categories, mapped to subdirectories of the upload root.
const (
	CategoryCars    = "cars"
	CategoryIDProof = "id-proof"
	CategoryUsers   = "users"
)

// Upload is one file received from a client, not yet persisted.
type Upload struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// Store persists uploaded images and hands back stable asset references
// of the form /uploads/<category>/<filename>. Save must never reuse a
// reference; Delete must be idempotent (a missing file is not an error).
type Store interface {
	Save(category string, upload Upload) (string, error)
	Delete(ref string) error
}

// ValidateContentType accepts image media types only. Called before any
// bytes are persisted.
func ValidateContentType(contentType string) error {
	if !strings.HasPrefix(contentType, "image/") {
		return fmt.Errorf("content type %s is not allowed, only images are accepted", contentType)
	}
	return nil
}

// GenerateFilename derives a collision-resistant name from the current
// time, a random salt and the sanitized original name. Concurrent
// writers never collide because of the random component.
func GenerateFilename(originalName string) string {
	sanitized := strings.Join(strings.Fields(originalName), "-")
	if sanitized == "" {
		sanitized = "file"
	}
	return fmt.Sprintf("%d-%d-%s", time.Now().UnixMilli(), rand.Int63n(1_000_000_000), sanitized)
}
