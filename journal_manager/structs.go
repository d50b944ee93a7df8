package journal_manager

import (
	"MiniKV/types"
	"os"
	"sync"
)

const (
	opOffset     = 0
	keyOffset    = 4
	valueOffset  = keyOffset + types.MaxKeySize
	pageIDOffset = valueOffset + types.MaxValueSize

	// EntrySize is the fixed on-disk size of one journal entry.
	EntrySize = pageIDOffset + 8
)

type JournalManager struct {
	filePath string
	file     *os.File
	mu       sync.Mutex
}

// JournalEntry is one decoded record of the journal. Fields a given
// operation does not use are zero.
type JournalEntry struct {
	Op     types.OperationType
	Key    string
	Value  string
	PageID uint64
}
