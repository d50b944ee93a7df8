package bufferpool

import (
	"MiniKV/storage_engine/page"
)

/*
This file holds helper functions for the bufferpool
*/

// DirtyPages returns the cached pages whose in-memory bytes differ from
// the on-disk copy.
func (bp *BufferPool) DirtyPages() []*page.Page {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	var dirty []*page.Page
	for _, entry := range bp.entries {
		if entry.page.IsDirty {
			dirty = append(dirty, entry.page)
		}
	}
	return dirty
}

// Clear forgets every cached page.
func (bp *BufferPool) Clear() {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	bp.entries = make(map[uint64]*cacheEntry, bp.capacity)
}

// Size returns the current number of cached pages.
func (bp *BufferPool) Size() int {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	return len(bp.entries)
}

// Capacity returns the maximum number of pages the pool may hold.
func (bp *BufferPool) Capacity() int {
	return bp.capacity
}

// GetStats returns current buffer pool statistics.
func (bp *BufferPool) GetStats() BufferPoolStats {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	stats := BufferPoolStats{
		TotalPages: len(bp.entries),
		Capacity:   bp.capacity,
	}
	for _, entry := range bp.entries {
		if entry.page.IsDirty {
			stats.DirtyPages++
		}
	}
	return stats
}
