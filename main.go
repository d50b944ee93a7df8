package main

import (
	storageengine "MiniKV/storage_engine"
	"fmt"
	"log"
	"time"
)

// Demo driver: basic CRUD, a bulk insert, the indexed-vs-linear speed
// comparison, and the stats report. Everything goes through the public
// engine surface.
func main() {
	fmt.Println("=== MiniKV storage engine demo ===")

	db, err := storageengine.NewStorageEngine(".")
	if err != nil {
		log.Fatalf("failed to open engine: %v", err)
	}
	defer db.Close()

	// Part 1: basic read/write
	fmt.Println("\n-- Part 1: basic CRUD --")
	mustInsert(db, "user:1001", "Alice Johnson")
	mustInsert(db, "user:1002", "Bob Smith")
	mustInsert(db, "user:1003", "Charlie Brown")
	mustInsert(db, "product:5001", "Laptop - $1299")
	mustInsert(db, "product:5002", "Mouse - $29")

	printGet(db, "user:1001")
	printGet(db, "product:5001")
	printGet(db, "user:9999")

	if _, err := db.Update("user:1002", "Bob Smith (Updated)"); err != nil {
		log.Fatalf("update failed: %v", err)
	}
	printGet(db, "user:1002")

	if _, err := db.Remove("product:5002"); err != nil {
		log.Fatalf("remove failed: %v", err)
	}
	printGet(db, "product:5002")

	// Part 2: bulk insert
	fmt.Println("\n-- Part 2: bulk insert --")
	const bulk = 10000

	start := time.Now()
	for i := 0; i < bulk; i++ {
		mustInsert(db, fmt.Sprintf("bench:%d", i), fmt.Sprintf("Data_%d", i*1000))
	}
	elapsed := time.Since(start)
	fmt.Printf("inserted %d records in %v (%.0f inserts/sec)\n",
		bulk, elapsed, float64(bulk)/elapsed.Seconds())

	if err := db.FlushAll(); err != nil {
		log.Fatalf("checkpoint failed: %v", err)
	}

	// Part 3: index vs full scan
	fmt.Println("\n-- Part 3: indexed get vs linear scan --")
	probes := []string{"bench:100", "bench:2500", "bench:5000", "bench:7500", "bench:9999", "user:1001"}

	start = time.Now()
	found := 0
	for _, k := range probes {
		if _, ok, err := db.Get(k); err != nil {
			log.Fatalf("get failed: %v", err)
		} else if ok {
			found++
		}
	}
	indexed := time.Since(start)
	fmt.Printf("indexed:     found %d/%d in %v\n", found, len(probes), indexed)

	start = time.Now()
	found = 0
	for _, k := range probes {
		if _, ok, err := db.LinearScan(k); err != nil {
			log.Fatalf("linear scan failed: %v", err)
		} else if ok {
			found++
		}
	}
	linear := time.Since(start)
	fmt.Printf("linear scan: found %d/%d in %v\n", found, len(probes), linear)

	if indexed > 0 {
		fmt.Printf("index speedup: %.1fx\n", float64(linear)/float64(indexed))
	}

	// Part 4: stats
	fmt.Println("\n-- Part 4: statistics --")
	if _, err := db.Stats(); err != nil {
		log.Fatalf("stats failed: %v", err)
	}
}

func mustInsert(db *storageengine.StorageEngine, key, value string) {
	if _, err := db.Insert(key, value); err != nil {
		log.Fatalf("insert %q failed: %v", key, err)
	}
}

func printGet(db *storageengine.StorageEngine, key string) {
	value, ok, err := db.Get(key)
	if err != nil {
		log.Fatalf("get %q failed: %v", key, err)
	}
	if ok {
		fmt.Printf("  get %-16s -> %s\n", key, value)
	} else {
		fmt.Printf("  get %-16s -> NOT FOUND\n", key)
	}
}
