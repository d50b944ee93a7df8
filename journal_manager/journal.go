package journal_manager

import (
	"MiniKV/types"
	"fmt"
	"os"
)

/*

Journal File
────────────────────────────────────
| Entry | Entry | Entry | ...      |
────────────────────────────────────

Each Entry (little-endian):
──────────────────────────────────────────────
| OP (4) | KEY (256) | VALUE (1024) | PID (8) |
──────────────────────────────────────────────

	EntrySize = 1292

Every mutation appends its intent entry before the page write and a COMMIT
entry after it; each append is fsynced before it returns, so disk becomes
authoritative in the order (intent, page, commit). The journal is wiped at
checkpoint, once every dirty page has reached the data file.

*/

// OpenJournal opens or creates the journal file in append mode.
func OpenJournal(filePath string) (*JournalManager, error) {
	// O_APPEND ensures atomic appends at the OS level
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal %s: %w", filePath, err)
	}

	return &JournalManager{
		filePath: filePath,
		file:     file,
	}, nil
}

// Log appends one entry and forces it to disk before returning. An append
// that cannot reach disk fails the enclosing operation; the journal never
// drops an entry silently.
func (jm *JournalManager) Log(op types.OperationType, key, value string, pageID uint64) error {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	if jm.file == nil {
		return fmt.Errorf("journal not opened")
	}

	if _, err := jm.file.Write(encodeEntry(op, key, value, pageID)); err != nil {
		return fmt.Errorf("failed to append journal entry: %w", err)
	}
	if err := jm.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync journal: %w", err)
	}

	return nil
}

// Commit records that the preceding intent entry was fully applied.
func (jm *JournalManager) Commit() error {
	return jm.Log(types.OpCommit, "", "", 0)
}

// Truncate wipes the journal: close, remove, reopen empty. Callers must
// have flushed every dirty page first.
func (jm *JournalManager) Truncate() error {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	if jm.file != nil {
		if err := jm.file.Close(); err != nil {
			return fmt.Errorf("failed to close journal: %w", err)
		}
		jm.file = nil
	}

	if err := os.Remove(jm.filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove journal: %w", err)
	}

	file, err := os.OpenFile(jm.filePath, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to reopen journal: %w", err)
	}

	jm.file = file
	return nil
}

// Size returns the journal file size in bytes.
func (jm *JournalManager) Size() (int64, error) {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	if jm.file == nil {
		return 0, fmt.Errorf("journal not opened")
	}

	stat, err := jm.file.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to stat journal: %w", err)
	}
	return stat.Size(), nil
}

// Close syncs and releases the journal file. Safe to call twice.
func (jm *JournalManager) Close() error {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	if jm.file == nil {
		return nil
	}

	if err := jm.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync journal before close: %w", err)
	}
	if err := jm.file.Close(); err != nil {
		return fmt.Errorf("failed to close journal: %w", err)
	}

	jm.file = nil
	return nil
}
