package bufferpool

import (
	"MiniKV/storage_engine/page"
)

/*
This file is the main file of the bufferpool
The buffer pool works on LRU based caching: every entry carries the logical
time of its last touch, and eviction removes the entry with the smallest
one. The pool never reads or writes the disk itself — the storage engine
flushes every page it writes before the operation returns, so an evicted
page is always clean and can simply be dropped.

Pages are identified by their page ID in the data file.
*/

// NewBufferPool creates a new buffer pool with the given capacity.
func NewBufferPool(capacity int) *BufferPool {
	return &BufferPool{
		entries:  make(map[uint64]*cacheEntry, capacity),
		capacity: capacity,
	}
}

// Get returns the cached page for pageID and refreshes its access time.
// A miss returns false; loading from disk is the caller's job.
func (bp *BufferPool) Get(pageID uint64) (*page.Page, bool) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	entry, ok := bp.entries[pageID]
	if !ok {
		return nil, false
	}

	bp.clock++
	entry.accessTime = bp.clock
	return entry.page, true
}

// Put inserts a page with a fresh access time, evicting the LRU entry
// first when the pool is at capacity. Putting an ID that is already
// resident overwrites it in place.
func (bp *BufferPool) Put(pageID uint64, pg *page.Page) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if _, exists := bp.entries[pageID]; !exists && len(bp.entries) >= bp.capacity {
		bp.evictLRU()
	}

	bp.clock++
	bp.entries[pageID] = &cacheEntry{page: pg, accessTime: bp.clock}
}

// evictLRU removes the entry with the smallest access time. The linear
// scan is fine at this capacity; ties go to the smallest page ID so the
// victim is deterministic. Assumes lock is already held.
func (bp *BufferPool) evictLRU() {
	var victim uint64
	found := false

	for id, entry := range bp.entries {
		if !found {
			victim, found = id, true
			continue
		}
		best := bp.entries[victim]
		if entry.accessTime < best.accessTime ||
			(entry.accessTime == best.accessTime && id < victim) {
			victim = id
		}
	}

	if found {
		delete(bp.entries, victim)
	}
}
