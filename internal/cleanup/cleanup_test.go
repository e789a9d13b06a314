package cleanup

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carvanta/carvanta-backend/internal/storage"
)

// recordingStore captures deletions so tests can observe the worker.
type recordingStore struct {
	mu      sync.Mutex
	deleted []string
}

func (s *recordingStore) Save(category string, upload storage.Upload) (string, error) {
	return "/uploads/" + category + "/" + upload.Filename, nil
}

func (s *recordingStore) Delete(ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, ref)
	return nil
}

func (s *recordingStore) deletedRefs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deleted...)
}

func TestJanitor_DeletesEnqueuedRefs(t *testing.T) {
	store := &recordingStore{}
	janitor := NewJanitor(store, 8)
	janitor.Start()

	janitor.Enqueue("/uploads/cars/a.jpg", "/uploads/cars/b.jpg")
	janitor.Stop()

	deleted := store.deletedRefs()
	assert.ElementsMatch(t, []string{"/uploads/cars/a.jpg", "/uploads/cars/b.jpg"}, deleted)
}

func TestJanitor_SkipsEmptyRefs(t *testing.T) {
	store := &recordingStore{}
	janitor := NewJanitor(store, 8)
	janitor.Start()

	janitor.Enqueue("", "/uploads/cars/a.jpg", "")
	janitor.Stop()

	assert.Equal(t, []string{"/uploads/cars/a.jpg"}, store.deletedRefs())
}

func TestJanitor_StopDrainsQueue(t *testing.T) {
	store := &recordingStore{}
	janitor := NewJanitor(store, 64)

	// Enqueue before the worker starts; Stop must still drain everything
	for i := 0; i < 10; i++ {
		janitor.Enqueue("/uploads/cars/" + strings.Repeat("x", i+1) + ".jpg")
	}
	janitor.Start()
	janitor.Stop()

	assert.Len(t, store.deletedRefs(), 10)
}

func TestJanitor_EnqueueNeverBlocks(t *testing.T) {
	store := &recordingStore{}
	janitor := NewJanitor(store, 2) // tiny queue, worker not running

	done := make(chan struct{})
	go func() {
		janitor.Enqueue("/a", "/b", "/c", "/d", "/e")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}
}

func TestJanitor_StopIsIdempotent(t *testing.T) {
	janitor := NewJanitor(&recordingStore{}, 8)
	janitor.Start()

	require.NotPanics(t, func() {
		janitor.Stop()
		janitor.Stop()
	})
}
