package storageengine

import (
	bplus "MiniKV/bplustree"
	journal "MiniKV/journal_manager"
	"MiniKV/storage_engine/bufferpool"
	diskmanager "MiniKV/storage_engine/disk_manager"

	"github.com/dgraph-io/ristretto/v2"
)

type StorageEngine struct {
	DiskManager    *diskmanager.DiskManager
	BufferPool     *bufferpool.BufferPool
	Index          *bplus.BPlusTree
	JournalManager *journal.JournalManager

	// hot is a record-level read cache sitting in front of the index path
	// of Get. Misses always fall through to the authoritative
	// index -> pool -> disk path; Update and Remove drop the key and wait
	// for the drop to apply, so reads never observe a stale value.
	hot *ristretto.Cache[string, string]
}

// EngineStats mirrors the numbers the Stats report prints.
type EngineStats struct {
	FileSizeBytes int64
	NumPages      uint64
	PageSize      int
	CacheSize     int
}
