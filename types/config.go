package types

const (
	PageSize   = 4096 // 4KB page
	CacheSize  = 100  // buffer pool capacity, in pages
	BTreeOrder = 64   // a node is full once it holds this many keys

	MaxKeySize   = 256  // bytes, including the NUL terminator
	MaxValueSize = 1024 // bytes, including the NUL terminator

	DataFileName    = "database.dat"
	JournalFileName = "journal.log"
	IndexFileName   = "index.dat" // reserved; the index lives in memory
)
