package bplus

// splitLeaf moves the right half of a full leaf into a new sibling and
// relinks the leaf chain. The promoted separator is the sibling's first
// key, which therefore lives both in the parent and at the leaf level.
func (t *BPlusTree) splitLeaf(node *Node) (*Node, string) {
	mid := len(node.keys) / 2

	right := newNode(true)
	right.keys = append(right.keys, node.keys[mid:]...)
	right.values = append(right.values, node.values[mid:]...)
	right.next = node.next
	node.next = right

	node.keys = node.keys[:mid]
	node.values = node.values[:mid]

	return right, right.keys[0]
}
