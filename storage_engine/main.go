package storageengine

import (
	bplus "MiniKV/bplustree"
	journal "MiniKV/journal_manager"
	"MiniKV/storage_engine/bufferpool"
	diskmanager "MiniKV/storage_engine/disk_manager"
	"MiniKV/types"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgraph-io/ristretto/v2"
)

/*
The main file of the storage engine, the coordinator of the whole stack.
It owns the data file (through the disk manager), the buffer pool, the
in-memory B+ tree index and the journal, and sequences them per operation:

	mutation: journal intent -> page write + flush -> index update -> journal COMMIT
	read:     index -> buffer pool (hit) or disk (miss) -> record

The index is never persisted; it is rebuilt at open by scanning every page
of the data file for live records. Two engine instances on the same files
is undefined behavior — one instance owns its files for its lifetime.
*/

// NewStorageEngine opens (creating if missing) the engine files inside
// dir and rebuilds the index from the data file.
func NewStorageEngine(dir string) (*StorageEngine, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create engine dir: %w", err)
	}

	disk, err := diskmanager.Open(filepath.Join(dir, types.DataFileName))
	if err != nil {
		return nil, err
	}

	jm, err := journal.OpenJournal(filepath.Join(dir, types.JournalFileName))
	if err != nil {
		disk.Close()
		return nil, err
	}

	hot, err := ristretto.NewCache(&ristretto.Config[string, string]{
		NumCounters: types.CacheSize * 10,
		MaxCost:     types.CacheSize,
		BufferItems: 64,
	})
	if err != nil {
		jm.Close()
		disk.Close()
		return nil, fmt.Errorf("failed to init record cache: %w", err)
	}

	se := &StorageEngine{
		DiskManager:    disk,
		BufferPool:     bufferpool.NewBufferPool(types.CacheSize),
		Index:          bplus.NewBPlusTree(types.BTreeOrder),
		JournalManager: jm,
		hot:            hot,
	}

	if err := se.rebuildIndex(); err != nil {
		hot.Close()
		jm.Close()
		disk.Close()
		return nil, fmt.Errorf("failed to rebuild index: %w", err)
	}

	return se, nil
}

// Close checkpoints and releases every file handle. The engine is
// unusable afterwards.
func (se *StorageEngine) Close() error {
	err := se.FlushAll()

	se.hot.Close()
	if cerr := se.JournalManager.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if cerr := se.DiskManager.Close(); cerr != nil && err == nil {
		err = cerr
	}

	return err
}
