package storageengine

import (
	"MiniKV/storage_engine/page"
	"MiniKV/types"
)

/*
The four primitive operations. Keys are normalized (truncated to the
stored length) at this boundary so the index, the journal and the page
always agree on the same bytes, in this process and after a reopen.
*/

// Insert stores a new key on a fresh page. Returns false without touching
// disk when the key already resolves in the index; the index check is
// authoritative for uniqueness.
func (se *StorageEngine) Insert(key, value string) (bool, error) {
	key = page.Truncate(key, types.MaxKeySize)

	if se.Index.Search(key) != 0 {
		return false, nil
	}

	// intent first: the entry must be durable before the page write
	if err := se.JournalManager.Log(types.OpInsert, key, value, 0); err != nil {
		return false, err
	}

	pageID := se.DiskManager.AllocatePage()
	rec := page.NewRecord(key, value, pageID)

	pg := page.NewPage(pageID)
	pg.WriteRecord(rec)

	se.BufferPool.Put(pageID, pg)
	if err := se.DiskManager.WritePage(pg); err != nil {
		return false, err
	}

	se.Index.Insert(key, pageID)

	if err := se.JournalManager.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// Get fetches the live value for key.
func (se *StorageEngine) Get(key string) (string, bool, error) {
	key = page.Truncate(key, types.MaxKeySize)

	if value, ok := se.hot.Get(key); ok {
		return value, true, nil
	}

	pageID := se.Index.Search(key)
	if pageID == 0 {
		return "", false, nil
	}

	pg, err := se.loadPage(pageID)
	if err != nil {
		return "", false, err
	}

	rec := pg.ReadRecord()
	if rec.Deleted {
		return "", false, nil
	}

	se.hot.Set(key, rec.Value, 1)
	return rec.Value, true, nil
}

// Update rewrites the value of an existing live record in place. A
// tombstoned record is not resurrected.
func (se *StorageEngine) Update(key, value string) (bool, error) {
	key = page.Truncate(key, types.MaxKeySize)

	pageID := se.Index.Search(key)
	if pageID == 0 {
		return false, nil
	}

	if err := se.JournalManager.Log(types.OpUpdate, key, value, pageID); err != nil {
		return false, err
	}

	pg, err := se.loadPage(pageID)
	if err != nil {
		return false, err
	}

	rec := pg.ReadRecord()
	if rec.Deleted {
		return false, nil
	}

	rec.Value = page.Truncate(value, types.MaxValueSize)
	pg.WriteRecord(rec)
	if err := se.DiskManager.WritePage(pg); err != nil {
		return false, err
	}

	se.dropHot(key)

	if err := se.JournalManager.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// Remove soft-deletes key: the record keeps its page but gains a
// tombstone, and the index slot is zeroed. Inserting the same key later
// succeeds and allocates a fresh page.
func (se *StorageEngine) Remove(key string) (bool, error) {
	key = page.Truncate(key, types.MaxKeySize)

	pageID := se.Index.Search(key)
	if pageID == 0 {
		return false, nil
	}

	if err := se.JournalManager.Log(types.OpDelete, key, "", pageID); err != nil {
		return false, err
	}

	pg, err := se.loadPage(pageID)
	if err != nil {
		return false, err
	}

	rec := pg.ReadRecord()
	rec.Deleted = true
	pg.WriteRecord(rec)
	if err := se.DiskManager.WritePage(pg); err != nil {
		return false, err
	}

	se.Index.Remove(key)
	se.dropHot(key)

	if err := se.JournalManager.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// dropHot removes key from the record cache and waits until the drop has
// applied, so a read right after a mutation never sees the old value.
func (se *StorageEngine) dropHot(key string) {
	se.hot.Del(key)
	se.hot.Wait()
}
