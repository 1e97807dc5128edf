package btree

// treeState tracks the lifecycle of a Tree instance: fresh -> writable (via
// Create) -> finalized (via FinishInsertions), or fresh -> readable (via
// Load). Insert is only valid in writable; Seek is valid in writable,
// readable, and finalized.
type treeState int

const (
	stateFresh treeState = iota
	stateWritable
	stateReadable
	stateFinalized
)
