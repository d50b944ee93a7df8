package storageengine

import (
	"MiniKV/types"
	"fmt"
	"os"
	"strings"
	"testing"
)

func newTestEngine(t *testing.T) (*StorageEngine, string) {
	t.Helper()

	dir, err := os.MkdirTemp("", "minikv_engine_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	se, err := NewStorageEngine(dir)
	if err != nil {
		t.Fatalf("failed to open engine: %v", err)
	}
	t.Cleanup(func() { se.Close() })

	return se, dir
}

func mustInsert(t *testing.T, se *StorageEngine, key, value string) {
	t.Helper()
	ok, err := se.Insert(key, value)
	if err != nil {
		t.Fatalf("Insert(%q) failed: %v", key, err)
	}
	if !ok {
		t.Fatalf("Insert(%q) = false, want true", key)
	}
}

func mustGet(t *testing.T, se *StorageEngine, key, want string) {
	t.Helper()
	value, ok, err := se.Get(key)
	if err != nil {
		t.Fatalf("Get(%q) failed: %v", key, err)
	}
	if !ok || value != want {
		t.Fatalf("Get(%q) = (%q, %v), want (%q, true)", key, value, ok, want)
	}
}

func mustMiss(t *testing.T, se *StorageEngine, key string) {
	t.Helper()
	value, ok, err := se.Get(key)
	if err != nil {
		t.Fatalf("Get(%q) failed: %v", key, err)
	}
	if ok || value != "" {
		t.Fatalf("Get(%q) = (%q, %v), want (\"\", false)", key, value, ok)
	}
}

// TestCRUD runs the basic insert/get/update/remove sequence
func TestCRUD(t *testing.T) {
	se, _ := newTestEngine(t)

	mustInsert(t, se, "user:1001", "Alice")
	mustInsert(t, se, "user:1002", "Bob")
	mustGet(t, se, "user:1001", "Alice")

	ok, err := se.Update("user:1002", "Bob2")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if !ok {
		t.Fatal("Update(user:1002) = false, want true")
	}
	mustGet(t, se, "user:1002", "Bob2")

	ok, err = se.Remove("user:1001")
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if !ok {
		t.Fatal("Remove(user:1001) = false, want true")
	}
	mustMiss(t, se, "user:1001")
}

// TestDuplicateInsert tests that a second insert of the same key fails
// and leaves the stored value alone
func TestDuplicateInsert(t *testing.T) {
	se, _ := newTestEngine(t)

	mustInsert(t, se, "user:1002", "Bob2")

	ok, err := se.Insert("user:1002", "Carol")
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if ok {
		t.Error("duplicate Insert = true, want false")
	}
	mustGet(t, se, "user:1002", "Bob2")
}

// TestMissingKey tests get/update/remove against absent keys
func TestMissingKey(t *testing.T) {
	se, _ := newTestEngine(t)

	mustMiss(t, se, "nope")

	if ok, err := se.Update("nope", "v"); err != nil || ok {
		t.Errorf("Update(absent) = (%v, %v), want (false, nil)", ok, err)
	}
	if ok, err := se.Remove("nope"); err != nil || ok {
		t.Errorf("Remove(absent) = (%v, %v), want (false, nil)", ok, err)
	}
}

// TestTombstoneUpdate tests that update does not resurrect a removed key
func TestTombstoneUpdate(t *testing.T) {
	se, _ := newTestEngine(t)

	mustInsert(t, se, "k", "v")
	if ok, err := se.Remove("k"); err != nil || !ok {
		t.Fatalf("Remove = (%v, %v), want (true, nil)", ok, err)
	}

	if ok, err := se.Update("k", "v2"); err != nil || ok {
		t.Errorf("Update after remove = (%v, %v), want (false, nil)", ok, err)
	}
	mustMiss(t, se, "k")
}

// TestInsertAfterRemove tests that a removed key can be inserted again
// on a fresh page
func TestInsertAfterRemove(t *testing.T) {
	se, _ := newTestEngine(t)

	mustInsert(t, se, "k", "v1")
	firstPage := se.Index.Search("k")

	if ok, err := se.Remove("k"); err != nil || !ok {
		t.Fatalf("Remove = (%v, %v), want (true, nil)", ok, err)
	}

	mustInsert(t, se, "k", "v2")
	mustGet(t, se, "k", "v2")

	secondPage := se.Index.Search("k")
	if secondPage == 0 || secondPage == firstPage {
		t.Errorf("re-insert landed on page %d, want a fresh page (first was %d)", secondPage, firstPage)
	}
}

// TestAllocationOrder tests that page ids are handed out in insertion
// order and never repeat
func TestAllocationOrder(t *testing.T) {
	se, _ := newTestEngine(t)

	const n = 10
	for i := 0; i < n; i++ {
		mustInsert(t, se, fmt.Sprintf("k%d", i), "v")
	}

	seen := make(map[uint64]bool)
	for i := 0; i < n; i++ {
		pid := se.Index.Search(fmt.Sprintf("k%d", i))
		if pid != uint64(i+1) {
			t.Errorf("key k%d on page %d, want %d (allocation order)", i, pid, i+1)
		}
		if seen[pid] {
			t.Errorf("page %d assigned twice", pid)
		}
		seen[pid] = true
	}
}

// TestBulkInsertSplits tests a volume that forces index splits and
// buffer pool evictions
func TestBulkInsertSplits(t *testing.T) {
	se, _ := newTestEngine(t)

	const n = 1000
	for i := 0; i < n; i++ {
		mustInsert(t, se, fmt.Sprintf("bench:%d", i), fmt.Sprintf("Data_%d", i*1000))
	}

	if h := se.Index.Height(); h < 2 {
		t.Errorf("index height = %d with %d keys, want >= 2", h, n)
	}
	if err := se.Index.CheckInvariants(); err != nil {
		t.Fatalf("index invariants violated: %v", err)
	}
	if size := se.BufferPool.Size(); size > types.CacheSize {
		t.Errorf("buffer pool holds %d pages, cap is %d", size, types.CacheSize)
	}

	mustGet(t, se, "bench:100", "Data_100000")
	mustGet(t, se, "bench:999", "Data_999000")
	mustMiss(t, se, "bench:1000")
}

// TestLinearScanAgreesWithGet tests the diagnostic path against the
// indexed path
func TestLinearScanAgreesWithGet(t *testing.T) {
	se, _ := newTestEngine(t)

	for i := 0; i < 20; i++ {
		mustInsert(t, se, fmt.Sprintf("k%02d", i), fmt.Sprintf("v%02d", i))
	}
	if ok, err := se.Remove("k07"); err != nil || !ok {
		t.Fatalf("Remove = (%v, %v), want (true, nil)", ok, err)
	}

	for i := 0; i < 20; i++ {
		key := fmt.Sprintf("k%02d", i)

		gv, gok, err := se.Get(key)
		if err != nil {
			t.Fatalf("Get(%q) failed: %v", key, err)
		}
		lv, lok, err := se.LinearScan(key)
		if err != nil {
			t.Fatalf("LinearScan(%q) failed: %v", key, err)
		}

		if gok != lok || gv != lv {
			t.Errorf("paths disagree on %q: get=(%q,%v) linear=(%q,%v)", key, gv, gok, lv, lok)
		}
		if key == "k07" && (gok || lok) {
			t.Errorf("removed key %q still visible: get=%v linear=%v", key, gok, lok)
		}
	}
}

// TestCheckpoint tests that FlushAll empties the journal and leaves no
// dirty pages, and that a second call is a no-op
func TestCheckpoint(t *testing.T) {
	se, _ := newTestEngine(t)

	mustInsert(t, se, "a", "1")
	mustInsert(t, se, "b", "2")

	size, err := se.JournalManager.Size()
	if err != nil {
		t.Fatalf("journal Size failed: %v", err)
	}
	if size == 0 {
		t.Fatal("journal empty after mutations, expected intent+commit entries")
	}

	if err := se.FlushAll(); err != nil {
		t.Fatalf("FlushAll failed: %v", err)
	}

	size, err = se.JournalManager.Size()
	if err != nil {
		t.Fatalf("journal Size failed: %v", err)
	}
	if size != 0 {
		t.Errorf("journal size after checkpoint = %d, want 0", size)
	}
	if dirty := se.BufferPool.DirtyPages(); len(dirty) != 0 {
		t.Errorf("dirty pages after checkpoint = %d, want 0", len(dirty))
	}

	if err := se.FlushAll(); err != nil {
		t.Errorf("second FlushAll failed: %v", err)
	}
}

// TestJournalOrdering tests that each mutation leaves an intent entry
// followed by a COMMIT
func TestJournalOrdering(t *testing.T) {
	se, _ := newTestEngine(t)

	mustInsert(t, se, "k", "v")

	entries, err := se.JournalManager.ReadEntries()
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d journal entries after insert, want 2", len(entries))
	}
	if entries[0].Op != types.OpInsert || entries[0].Key != "k" || entries[0].Value != "v" {
		t.Errorf("first entry = %+v, want INSERT k/v", entries[0])
	}
	if entries[1].Op != types.OpCommit {
		t.Errorf("second entry op = %v, want COMMIT", entries[1].Op)
	}

	if ok, err := se.Update("k", "v2"); err != nil || !ok {
		t.Fatalf("Update = (%v, %v), want (true, nil)", ok, err)
	}

	entries, err = se.JournalManager.ReadEntries()
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("got %d journal entries after update, want 4", len(entries))
	}
	if entries[2].Op != types.OpUpdate || entries[2].PageID != 1 {
		t.Errorf("third entry = %+v, want UPDATE on page 1", entries[2])
	}
}

// TestReopenRecoversRecords tests that a fresh engine instance rebuilds
// the index from the data file
func TestReopenRecoversRecords(t *testing.T) {
	dir, err := os.MkdirTemp("", "minikv_engine_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	se, err := NewStorageEngine(dir)
	if err != nil {
		t.Fatalf("failed to open engine: %v", err)
	}

	mustInsert(t, se, "user:1", "Alice")
	mustInsert(t, se, "user:2", "Bob")
	mustInsert(t, se, "user:3", "Carol")
	if ok, err := se.Remove("user:2"); err != nil || !ok {
		t.Fatalf("Remove = (%v, %v), want (true, nil)", ok, err)
	}

	if err := se.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	se2, err := NewStorageEngine(dir)
	if err != nil {
		t.Fatalf("failed to reopen engine: %v", err)
	}
	t.Cleanup(func() { se2.Close() })

	mustGet(t, se2, "user:1", "Alice")
	mustGet(t, se2, "user:3", "Carol")
	mustMiss(t, se2, "user:2")

	// the allocator must keep growing past the old high-water mark
	mustInsert(t, se2, "user:4", "Dave")
	newPage := se2.Index.Search("user:4")
	for _, key := range []string{"user:1", "user:3"} {
		if se2.Index.Search(key) == newPage {
			t.Errorf("page %d reused for a new record", newPage)
		}
	}
	mustGet(t, se2, "user:4", "Dave")
}

// TestOversizeKeyValue tests silent truncation end to end: the truncated
// and the original oversize key address the same record
func TestOversizeKeyValue(t *testing.T) {
	se, _ := newTestEngine(t)

	longKey := strings.Repeat("K", types.MaxKeySize+50)
	longValue := strings.Repeat("V", types.MaxValueSize+50)

	mustInsert(t, se, longKey, longValue)

	wantValue := longValue[:types.MaxValueSize-1]
	mustGet(t, se, longKey, wantValue)
	mustGet(t, se, longKey[:types.MaxKeySize-1], wantValue)

	if ok, err := se.Insert(longKey[:types.MaxKeySize-1], "other"); err != nil || ok {
		t.Errorf("insert of truncated twin = (%v, %v), want duplicate rejection", ok, err)
	}
}

// TestStats tests the stats numbers against the data file
func TestStats(t *testing.T) {
	se, _ := newTestEngine(t)

	mustInsert(t, se, "a", "1")
	mustInsert(t, se, "b", "2")

	stats, err := se.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}

	// pages 1 and 2 written, so the file spans slots 0..2
	if stats.FileSizeBytes != 3*types.PageSize {
		t.Errorf("FileSizeBytes = %d, want %d", stats.FileSizeBytes, 3*types.PageSize)
	}
	if stats.NumPages != 3 {
		t.Errorf("NumPages = %d, want 3", stats.NumPages)
	}
	if stats.PageSize != types.PageSize || stats.CacheSize != types.CacheSize {
		t.Errorf("configured sizes = %+v, want page %d cache %d", stats, types.PageSize, types.CacheSize)
	}
}
