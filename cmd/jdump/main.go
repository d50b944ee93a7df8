package main

import (
	journal "MiniKV/journal_manager"
	"MiniKV/types"
	"fmt"
	"log"
	"os"
)

// jdump prints the entries currently sitting in a journal file. A
// non-empty journal after a crash shows which operations were in flight
// past the last checkpoint.
func main() {
	path := types.JournalFileName
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	jm, err := journal.OpenJournal(path)
	if err != nil {
		log.Fatalf("failed to open journal: %v", err)
	}
	defer jm.Close()

	entries, err := jm.ReadEntries()
	if err != nil {
		log.Fatalf("failed to read journal: %v", err)
	}

	if len(entries) == 0 {
		fmt.Println("journal is empty")
		return
	}

	for i, e := range entries {
		fmt.Printf("%4d  %-7s key=%q value=%q pageID=%d\n", i, e.Op, e.Key, e.Value, e.PageID)
	}
}
