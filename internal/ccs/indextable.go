package ccs

import (
	"unsafe"

	"github.com/orizon-lang/orizon/internal/runtime/concurrency"
)

// indexEntry is one child-map entry: the child CCS reached by pushing a given
// CostCentre onto the owning node, plus the back-edge tag recording whether
// that edge is a truncated/dropped recursion rather than a fresh child.
type indexEntry struct {
	CCS      *CostCentreStack
	BackEdge bool
}

// indexEntrySize is the per-entry footprint newIndexEntry accounts against
// the arena, mirroring costCentreStackSize in node.go.
const indexEntrySize = int(unsafe.Sizeof(indexEntry{}))

// newIndexEntry allocates an indexEntry, charging its size against c's
// arena. Every index-table entry the package creates goes through this one
// constructor rather than a bare struct literal, so none of them escape the
// arena's accounting.
func (c *Context) newIndexEntry(ccs *CostCentreStack, backEdge bool) *indexEntry {
	c.arena.Alloc(indexEntrySize)

	return &indexEntry{CCS: ccs, BackEdge: backEdge}
}

// IndexTable is the per-CCS child map ("index_table"): a mapping from
// CostCentre to child CCS. It is backed directly by
// internal/runtime/concurrency.LockFreeMap, the same lock-free bucket-chained
// map the runtime uses elsewhere for its data-plane tables. Readers (the
// push fast path, all of reporting) call Load without ever taking the
// Context's push lock; Push's writers run under that lock.
type IndexTable struct {
	m *concurrency.LockFreeMap[*CostCentre, *indexEntry]
}

// newIndexTable creates an empty index table sized for the common case of a
// handful of children per node.
func newIndexTable() *IndexTable {
	return &IndexTable{
		m: concurrency.NewLockFreeMap[*CostCentre, *indexEntry](8, hashCostCentrePtr),
	}
}

func hashCostCentrePtr(cc *CostCentre) uint64 {
	return uint64(uintptr(unsafe.Pointer(cc)))
}

// Load performs the racy, lock-free probe of the push fast path: it either
// observes a fully-published entry or a benign miss that the caller must
// resolve by re-probing under the lock.
func (t *IndexTable) Load(cc *CostCentre) (*indexEntry, bool) {
	return t.m.Load(cc)
}

// Store publishes a new or replacement entry. Push calls it with the
// Context's push lock held; init2 calls it without the lock, before any
// concurrent mutator activity.
func (t *IndexTable) Store(cc *CostCentre, e *indexEntry) {
	t.m.Store(cc, e)
}

// Delete removes an entry; used only by the pruning phase of the reporter,
// which runs single-threaded after mutators have quiesced.
func (t *IndexTable) Delete(cc *CostCentre) {
	t.m.Delete(cc)
}

// Range iterates every (CostCentre, entry) pair. Traversal order is
// unspecified, matching the underlying map's bucket order; callers that need
// deterministic output (the reporter) sort afterward.
func (t *IndexTable) Range(fn func(cc *CostCentre, e *indexEntry) bool) {
	t.m.Range(fn)
}
