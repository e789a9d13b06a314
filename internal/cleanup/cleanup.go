package cleanup

import (
	"sync"

	"github.com/carvanta/carvanta-backend/internal/storage"
	"github.com/carvanta/carvanta-backend/pkg/logger"
)

// Janitor deletes asset files off the request path. Deletions are
// advisory: the database row is the source of truth, so a failed or
// dropped deletion leaves an orphaned file at worst, never a dangling
// reference. Callers never wait on the queue.
type Janitor struct {
	store storage.Store
	queue chan string
	done  chan struct{}
	once  sync.Once
	wg    sync.WaitGroup
}

func NewJanitor(store storage.Store, queueSize int) *Janitor {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Janitor{
		store: store,
		queue: make(chan string, queueSize),
		done:  make(chan struct{}),
	}
}

// Start launches the worker goroutine.
func (j *Janitor) Start() {
	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		for {
			select {
			case ref := <-j.queue:
				j.remove(ref)
			case <-j.done:
				// Drain whatever is already queued before exiting.
				for {
					select {
					case ref := <-j.queue:
						j.remove(ref)
					default:
						return
					}
				}
			}
		}
	}()
	logger.Info("Cleanup janitor started", map[string]interface{}{
		"queue_size": cap(j.queue),
	})
}

// Stop shuts the worker down after draining the queue.
func (j *Janitor) Stop() {
	j.once.Do(func() {
		close(j.done)
	})
	j.wg.Wait()
}

// Enqueue schedules refs for deletion without blocking. When the queue
// is full the refs are dropped and logged; the nightly orphan sweep
// picks such files up later.
func (j *Janitor) Enqueue(refs ...string) {
	for _, ref := range refs {
		if ref == "" {
			continue
		}
		select {
		case j.queue <- ref:
		default:
			logger.Warn("Cleanup queue full, dropping deletion", map[string]interface{}{
				"ref": ref,
			})
		}
	}
}

func (j *Janitor) remove(ref string) {
	if err := j.store.Delete(ref); err != nil {
		logger.Warn("Failed to delete asset file", map[string]interface{}{
			"ref":   ref,
			"error": err.Error(),
		})
		return
	}
	logger.Debug("Asset file deleted", map[string]interface{}{
		"ref": ref,
	})
}
