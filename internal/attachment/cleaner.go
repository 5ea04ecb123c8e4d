package attachment

import (
	"context"
	"log"

	"mnemosine-api/internal/nota"
	"mnemosine-api/internal/storage"
	"mnemosine-api/internal/worker"
)

// Cleaner removes stored objects left behind by deleted notas. Work
// runs on the shared pool so cascades do not block on storage calls.
type Cleaner struct {
	pool  *worker.WorkerPool
	store storage.ObjectStore
}

func NewCleaner(pool *worker.WorkerPool, store storage.ObjectStore) *Cleaner {
	return &Cleaner{pool: pool, store: store}
}

// Cleanup schedules deletion of every stored object in the list.
// Link attachments carry no storage id and are skipped.
func (c *Cleaner) Cleanup(attachments []nota.Attachment) {
	for _, a := range attachments {
		if a.StorageID == "" {
			continue
		}
		storageID := a.StorageID
		resourceKind := ResourceKind(a.Kind)
		c.pool.Submit(func(ctx context.Context) error {
			if err := c.store.Delete(ctx, storageID, resourceKind); err != nil {
				log.Printf("[ERROR] failed to clean up stored object %s: %v", storageID, err)
			}
			return nil
		})
	}
}
