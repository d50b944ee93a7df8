package bplus

// NewBPlusTree creates an empty index: a single empty leaf as root.
func NewBPlusTree(order int) *BPlusTree {
	return &BPlusTree{
		root:  newNode(true),
		order: order,
	}
}

func newNode(isLeaf bool) *Node {
	return &Node{isLeaf: isLeaf}
}
