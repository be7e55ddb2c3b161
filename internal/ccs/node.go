package ccs

import (
	"sync/atomic"
	"unsafe"
)

// CostCentreStack is one node of the memoised stack tree. Nodes are created
// once by Push and never mutated to a different (prev, cc) pair; everything
// but the counters is therefore safe to read without
// synchronization once a reader has observed the node through the index
// table.
type CostCentreStack struct {
	ID    uint64
	CC    *CostCentre
	Prev  *CostCentreStack // nil only for the distinguished empty sentinel
	Root  *CostCentreStack // the tree-root above this node
	Depth uint32

	Index *IndexTable

	SCCCount  atomic.Uint64
	TimeTicks atomic.Uint64
	MemAlloc  atomic.Uint64

	// Filled only during reporting, single-threaded by construction.
	InheritedTicks uint64
	InheritedAlloc uint64

	// Selected is a single bit computed once at creation and never mutated
	// afterward, so it is safe to read without synchronization.
	Selected bool
}

// costCentreStackSize is the per-node footprint newNode accounts against
// the arena. The struct itself stays an ordinary Go allocation so the
// garbage collector keeps tracing its pointer fields; the arena's bump
// region only tracks how much of its budget each node's creation consumes.
const costCentreStackSize = int(unsafe.Sizeof(CostCentreStack{}))

// newNode allocates a CostCentreStack under prev, charging its size against
// c's arena. It assigns the id, an empty index table, Depth = prev.Depth+1,
// and Root = prev.Root, or the node itself when prev is the empty sentinel
// (whose Root is nil). Selected and the parent's index-table entry are left
// to the caller (push.go, builtin.go).
func (c *Context) newNode(cc *CostCentre, prev *CostCentreStack) *CostCentreStack {
	c.arena.Alloc(costCentreStackSize)

	n := &CostCentreStack{ID: c.nextCCSID(), CC: cc, Prev: prev, Index: newIndexTable()}

	if prev == nil {
		n.Depth = 0
		n.Root = n
	} else {
		n.Depth = prev.Depth + 1
		if prev.Root == nil {
			n.Root = n
		} else {
			n.Root = prev.Root
		}
	}

	return n
}

// Labels returns the top-down (outermost-first) sequence of CostCentre
// labels from just below the tree root down to s. The root node itself
// (MAIN, for every user stack) and the empty sentinel are left out. Used by
// tests that compare composed stacks by label sequence.
func (s *CostCentreStack) Labels() []string {
	var rev []string
	for n := s; n != nil && n.Prev != nil && n.Prev.CC != nil; n = n.Prev {
		rev = append(rev, n.CC.Label)
	}

	out := make([]string, len(rev))
	for i, l := range rev {
		out[len(rev)-1-i] = l
	}

	return out
}

// IsAncestorOrSelf reports whether anc appears on s's prev-chain, including s
// itself. Used by the back-edge invariant check.
func (s *CostCentreStack) IsAncestorOrSelf(anc *CostCentreStack) bool {
	for n := s; n != nil; n = n.Prev {
		if n == anc {
			return true
		}
	}

	return false
}
