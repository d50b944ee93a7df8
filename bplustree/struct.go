// Structure of B+ Tree
/*
Tree
 ├── Internal Node (keys + child pointers)
 │      └── Child Internal Nodes ...
 │             └── Leaf Nodes (keys + page ids + next pointer)


- keys: sorted ascending order
- internal nodes: children length == len(keys)+1
- leaf nodes: values length == len(keys)
- leaf nodes linked with `next` in key order
- all leaf nodes at same depth
- a page id of 0 in a leaf slot is a tombstone: the key entry stays, the
  slot is dead until the same key is inserted again

The tree is a pure in-memory index from string keys to data-file page ids.
It is rebuilt from the data file at engine open and never persisted.
*/
package bplus

import (
	"sync"
)

type Node struct {
	isLeaf   bool
	keys     []string
	values   []uint64 // page ids, leaf nodes only
	children []*Node  // internal nodes only
	next     *Node    // leaf chain, key order
}

type BPlusTree struct {
	root  *Node // always present, an empty leaf at first
	order int   // a node splits once len(keys) reaches this
	mu    sync.RWMutex
}
