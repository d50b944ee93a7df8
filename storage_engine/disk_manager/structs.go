package diskmanager

import (
	"os"
	"sync"
)

// DiskManager owns the data file descriptor and the page allocator.
// nextPageID only ever increments, so page IDs are never reused within a
// process lifetime.
type DiskManager struct {
	filePath   string
	file       *os.File
	nextPageID uint64
	mu         sync.Mutex
}
