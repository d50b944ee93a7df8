package bplus

// Insert maps key to pageID. Inserting a key that already exists
// overwrites its value in place; the storage engine relies on that when a
// removed key is inserted again over its tombstone.
func (t *BPlusTree) Insert(key string, pageID uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	newChild, promoted := t.insertInto(t.root, key, pageID)
	if newChild != nil {
		// the root itself split: grow the tree by one level
		newRoot := newNode(false)
		newRoot.keys = append(newRoot.keys, promoted)
		newRoot.children = append(newRoot.children, t.root, newChild)
		t.root = newRoot
	}
}

// insertInto descends recursively. When the visited node splits it returns
// the new right sibling and the separator key to promote into the parent;
// otherwise it returns (nil, "").
func (t *BPlusTree) insertInto(node *Node, key string, pageID uint64) (*Node, string) {
	if node.isLeaf {
		pos := lowerBound(node.keys, key)
		if pos < len(node.keys) && node.keys[pos] == key {
			node.values[pos] = pageID
			return nil, ""
		}

		node.keys = append(node.keys, "")
		copy(node.keys[pos+1:], node.keys[pos:])
		node.keys[pos] = key
		node.values = append(node.values, 0)
		copy(node.values[pos+1:], node.values[pos:])
		node.values[pos] = pageID

		if len(node.keys) >= t.order {
			return t.splitLeaf(node)
		}
		return nil, ""
	}

	pos := childIndex(node.keys, key)
	newChild, promoted := t.insertInto(node.children[pos], key, pageID)
	if newChild == nil {
		return nil, ""
	}

	// the child at pos split: wire in the promoted separator and the new
	// sibling right of it
	node.keys = append(node.keys, "")
	copy(node.keys[pos+1:], node.keys[pos:])
	node.keys[pos] = promoted
	node.children = append(node.children, nil)
	copy(node.children[pos+2:], node.children[pos+1:])
	node.children[pos+1] = newChild

	if len(node.keys) >= t.order {
		return t.splitInternal(node)
	}
	return nil, ""
}
