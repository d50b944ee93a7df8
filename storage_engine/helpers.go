package storageengine

import (
	"MiniKV/storage_engine/page"
	"MiniKV/types"
	"fmt"
)

/*
This file holds the coordinator's supporting paths: page loading through
the pool, the index rebuild at open, the checkpoint, the diagnostic linear
scan, and the stats report.
*/

// loadPage returns the page for pageID, from the pool when resident,
// otherwise from disk (parking it in the pool for next time).
func (se *StorageEngine) loadPage(pageID uint64) (*page.Page, error) {
	if pg, ok := se.BufferPool.Get(pageID); ok {
		return pg, nil
	}

	pg, err := se.DiskManager.ReadPage(pageID)
	if err != nil {
		return nil, err
	}

	se.BufferPool.Put(pageID, pg)
	return pg, nil
}

// rebuildIndex scans every page of the data file and re-inserts live
// records into the tree. The index is never persisted, so this runs on
// every open. Empty slots (allocator gaps) and tombstones are skipped.
func (se *StorageEngine) rebuildIndex() error {
	numPages, err := se.DiskManager.NumPages()
	if err != nil {
		return err
	}

	indexed := 0
	for pageID := uint64(1); pageID < numPages; pageID++ {
		pg, err := se.DiskManager.ReadPage(pageID)
		if err != nil {
			return err
		}

		rec := pg.ReadRecord()
		if rec.Key == "" || rec.Deleted {
			continue
		}

		se.Index.Insert(rec.Key, pageID)
		indexed++
	}

	if indexed > 0 {
		fmt.Printf("[StorageEngine] index rebuilt: %d live records in %d page slots\n", indexed, numPages)
	}
	return nil
}

// FlushAll is the checkpoint: every dirty pooled page goes to disk, then
// the journal is wiped. Once it returns, a recovery replay could start
// from the empty journal. Calling it twice in a row is a no-op the second
// time.
func (se *StorageEngine) FlushAll() error {
	dirty := se.BufferPool.DirtyPages()
	for _, pg := range dirty {
		if err := se.DiskManager.WritePage(pg); err != nil {
			return fmt.Errorf("failed to flush page %d: %w", pg.ID, err)
		}
	}
	if len(dirty) > 0 {
		fmt.Printf("[StorageEngine] checkpoint: flushed %d dirty pages\n", len(dirty))
	}

	return se.JournalManager.Truncate()
}

// LinearScan finds key by reading every page straight from disk, skipping
// the index, the buffer pool and the record cache. Diagnostic path, used
// to benchmark what the index buys.
func (se *StorageEngine) LinearScan(key string) (string, bool, error) {
	key = page.Truncate(key, types.MaxKeySize)

	numPages, err := se.DiskManager.NumPages()
	if err != nil {
		return "", false, err
	}

	for pageID := uint64(1); pageID < numPages; pageID++ {
		pg, err := se.DiskManager.ReadPage(pageID)
		if err != nil {
			return "", false, err
		}

		rec := pg.ReadRecord()
		if !rec.Deleted && rec.Key == key {
			return rec.Value, true, nil
		}
	}
	return "", false, nil
}

// Stats prints the engine report to stdout and returns the numbers
// behind it.
func (se *StorageEngine) Stats() (EngineStats, error) {
	size, err := se.DiskManager.Size()
	if err != nil {
		return EngineStats{}, err
	}

	stats := EngineStats{
		FileSizeBytes: size,
		NumPages:      uint64(size) / types.PageSize,
		PageSize:      types.PageSize,
		CacheSize:     types.CacheSize,
	}

	fmt.Println("=== Database Statistics ===")
	fmt.Printf("File size: %d bytes\n", stats.FileSizeBytes)
	fmt.Printf("Number of pages: %d\n", stats.NumPages)
	fmt.Printf("Page size: %d bytes\n", stats.PageSize)
	fmt.Printf("Cache size: %d pages\n", stats.CacheSize)

	return stats, nil
}
