package diskmanager

import (
	"MiniKV/storage_engine/page"
	"MiniKV/types"
	"fmt"
	"os"
)

/*
This is the main file of the disk manager
It owns:
The data file descriptor (os.File)
Reading/writing raw pages at fixed offsets (ReadAt, WriteAt)
Page allocation (the nextPageID counter)

Page IDs start at 1; the byte range [0, PageSize) is the slot of the
page-0 sentinel and is never written. The allocator is seeded from the
file size at open (size/PageSize + 1), so a reopened file keeps growing
past its existing high-water mark.
*/

// Open opens or creates the data file and seeds the page allocator.
func Open(filePath string) (*DiskManager, error) {
	file, err := os.OpenFile(filePath, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file %s: %w", filePath, err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat data file: %w", err)
	}

	next := uint64(stat.Size())/types.PageSize + 1
	if next < 1 {
		next = 1
	}

	return &DiskManager{
		filePath:   filePath,
		file:       file,
		nextPageID: next,
	}, nil
}

// ReadPage reads one page from disk. A short read past the end of the
// file leaves the tail of the buffer zeroed.
func (dm *DiskManager) ReadPage(pageID uint64) (*page.Page, error) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.file == nil {
		return nil, fmt.Errorf("data file is closed")
	}

	pg := page.NewPage(pageID)
	n, err := dm.file.ReadAt(pg.Data, int64(pageID)*types.PageSize)
	if err != nil && n == 0 {
		return nil, fmt.Errorf("failed to read page %d: %w", pageID, err)
	}

	return pg, nil
}

// WritePage writes a page at its offset and syncs the file, clearing the
// page's dirty flag.
func (dm *DiskManager) WritePage(pg *page.Page) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.file == nil {
		return fmt.Errorf("data file is closed")
	}

	if len(pg.Data) != types.PageSize {
		return fmt.Errorf("page data size %d does not match page size %d", len(pg.Data), types.PageSize)
	}

	if _, err := dm.file.WriteAt(pg.Data, int64(pg.ID)*types.PageSize); err != nil {
		return fmt.Errorf("failed to write page %d: %w", pg.ID, err)
	}

	if err := dm.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync data file: %w", err)
	}

	pg.IsDirty = false
	return nil
}

// AllocatePage reserves the next page ID. It does NOT write anything to
// disk; the page materializes when it is first flushed.
func (dm *DiskManager) AllocatePage() uint64 {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	id := dm.nextPageID
	dm.nextPageID++
	return id
}

// Size returns the data file size in bytes.
func (dm *DiskManager) Size() (int64, error) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.file == nil {
		return 0, fmt.Errorf("data file is closed")
	}

	stat, err := dm.file.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to stat data file: %w", err)
	}
	return stat.Size(), nil
}

// NumPages returns how many page slots the file currently spans,
// counting the unused page-0 slot.
func (dm *DiskManager) NumPages() (uint64, error) {
	size, err := dm.Size()
	if err != nil {
		return 0, err
	}
	return uint64(size) / types.PageSize, nil
}

// Sync flushes the file buffers to disk.
func (dm *DiskManager) Sync() error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.file == nil {
		return fmt.Errorf("data file is closed")
	}
	return dm.file.Sync()
}

// Close syncs and releases the file handle. Safe to call twice.
func (dm *DiskManager) Close() error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.file == nil {
		return nil
	}

	if err := dm.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync before close: %w", err)
	}
	if err := dm.file.Close(); err != nil {
		return fmt.Errorf("failed to close data file: %w", err)
	}

	dm.file = nil
	return nil
}
