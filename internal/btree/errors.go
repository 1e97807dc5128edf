package btree

import "errors"

// ErrInvalidState is returned when a caller invokes an operation the
// tree's current lifecycle state doesn't permit — e.g. Insert before
// Create/Load, or Insert on a tree opened with Load (read-only). These are
// caller misuse per the design, so the engine reports them rather than
// panicking: misuse reachable from CLI-driven orchestration should surface
// as a reported error, not crash the process.
var ErrInvalidState = errors.New("btree: operation not valid in current state")
