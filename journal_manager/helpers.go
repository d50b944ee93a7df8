package journal_manager

import (
	"MiniKV/types"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

/*
This file holds the entry codec and the sequential reader.
The engine never replays entries on open; the reader exists for inspection
tooling, tests, and a future recovery routine.
*/

func encodeEntry(op types.OperationType, key, value string, pageID uint64) []byte {
	buf := make([]byte, EntrySize)
	binary.LittleEndian.PutUint32(buf[opOffset:keyOffset], uint32(op))
	copyCString(buf[keyOffset:valueOffset], key)
	copyCString(buf[valueOffset:pageIDOffset], value)
	binary.LittleEndian.PutUint64(buf[pageIDOffset:EntrySize], pageID)
	return buf
}

func decodeEntry(buf []byte) JournalEntry {
	return JournalEntry{
		Op:     types.OperationType(binary.LittleEndian.Uint32(buf[opOffset:keyOffset])),
		Key:    readCString(buf[keyOffset:valueOffset]),
		Value:  readCString(buf[valueOffset:pageIDOffset]),
		PageID: binary.LittleEndian.Uint64(buf[pageIDOffset:EntrySize]),
	}
}

// ReadEntries decodes every entry currently in the journal file, oldest
// first. A missing file reads as an empty journal.
func (jm *JournalManager) ReadEntries() ([]JournalEntry, error) {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	file, err := os.Open(jm.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open journal for reading: %w", err)
	}
	defer file.Close()

	var entries []JournalEntry
	buf := make([]byte, EntrySize)

	for {
		_, err := io.ReadFull(file, buf)
		if err == io.EOF {
			break
		}
		if err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("truncated journal entry at index %d", len(entries))
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read journal entry: %w", err)
		}
		entries = append(entries, decodeEntry(buf))
	}

	return entries, nil
}

// copyCString writes s into buf keeping at least one trailing NUL and
// zeroing the rest of the field.
func copyCString(buf []byte, s string) {
	n := copy(buf, s)
	if n > len(buf)-1 {
		n = len(buf) - 1
	}
	for i := n; i < len(buf); i++ {
		buf[i] = 0
	}
}

func readCString(buf []byte) string {
	for i, b := range buf {
		if b == 0 {
			return string(buf[:i])
		}
	}
	return string(buf)
}
