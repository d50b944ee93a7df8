package page

import (
	"MiniKV/types"
	"encoding/binary"
)

/*
Record layout inside a page (little-endian):

──────────────────────────────────────────────────────
| key (256) | value (1024) | pageID (8) | deleted (1) |
──────────────────────────────────────────────────────

RecordSize = 1289; the rest of the 4096-byte page is zero padding.
Key and value are NUL-terminated, so embedded NUL bytes are not supported.
*/

const (
	keyOffset     = 0
	valueOffset   = types.MaxKeySize
	pageIDOffset  = types.MaxKeySize + types.MaxValueSize
	deletedOffset = pageIDOffset + 8

	RecordSize = deletedOffset + 1
)

// Record is the single key/value tuple stored in a page. PageID is the
// record's own home page; Deleted is the soft-delete tombstone.
type Record struct {
	Key     string
	Value   string
	PageID  uint64
	Deleted bool
}

// NewRecord builds a record, truncating oversize keys and values so the
// stored bytes always leave room for the NUL terminator.
func NewRecord(key, value string, pageID uint64) Record {
	return Record{
		Key:    Truncate(key, types.MaxKeySize),
		Value:  Truncate(value, types.MaxValueSize),
		PageID: pageID,
	}
}

// Truncate caps s at max-1 bytes; the final byte is reserved for the NUL.
func Truncate(s string, max int) string {
	if len(s) > max-1 {
		return s[:max-1]
	}
	return s
}

// Page is one fixed-size slot of the data file. IsDirty is in-memory only:
// it marks pages whose buffer differs from the on-disk copy.
type Page struct {
	ID      uint64
	Data    []byte
	IsDirty bool
}

func NewPage(id uint64) *Page {
	return &Page{
		ID:   id,
		Data: make([]byte, types.PageSize),
	}
}

// WriteRecord serializes rec into the page buffer and marks the page dirty.
func (p *Page) WriteRecord(rec Record) {
	writeCString(p.Data[keyOffset:valueOffset], rec.Key)
	writeCString(p.Data[valueOffset:pageIDOffset], rec.Value)
	binary.LittleEndian.PutUint64(p.Data[pageIDOffset:deletedOffset], rec.PageID)
	if rec.Deleted {
		p.Data[deletedOffset] = 1
	} else {
		p.Data[deletedOffset] = 0
	}
	p.IsDirty = true
}

// ReadRecord deserializes the record held in the page buffer. A zeroed
// page decodes to an empty record.
func (p *Page) ReadRecord() Record {
	return Record{
		Key:     readCString(p.Data[keyOffset:valueOffset]),
		Value:   readCString(p.Data[valueOffset:pageIDOffset]),
		PageID:  binary.LittleEndian.Uint64(p.Data[pageIDOffset:deletedOffset]),
		Deleted: p.Data[deletedOffset] != 0,
	}
}

// writeCString copies s into buf keeping at least one trailing NUL and
// zeroes the remainder of the field.
func writeCString(buf []byte, s string) {
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
