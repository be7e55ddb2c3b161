package ccs

import "sync"

// CostCentre is an interned descriptor for a named, source-level program
// region annotation. Identity is the assigned id; pointer equality
// suffices at runtime since each registered *CostCentre gets its own id.
// Two descriptors with the same (label, module, srcloc, isCAF) are distinct
// cost centres.
type CostCentre struct {
	ID        uint32
	Label     string
	Module    string
	SrcLoc    string
	IsCAF     bool
	Link      *CostCentre // intrusive next-pointer, reporter-only
	TimeTicks uint64      // aggregated during reporting, zero otherwise
	MemAlloc  uint64
}

// Registry is the deduplicated, context-scoped store of CostCentre
// descriptors. Registration is idempotent on identity and threads
// registered CCs onto a singly-linked list via Link, exactly as the
// conventional RTS's CC_LIST does; the reporter re-threads that same field
// when it builds the sorted flat-report list.
type Registry struct {
	mu     sync.Mutex
	nextID uint32
	head   *CostCentre
	seen   map[*CostCentre]bool
}

// NewRegistry constructs an empty registry. id 0 is reserved and never
// assigned; every registered CostCentre gets a monotonic id starting at 1.
func NewRegistry() *Registry {
	return &Registry{nextID: 1, seen: map[*CostCentre]bool{}}
}

// Register assigns cc its id (if not already assigned) and appends it to the
// registration list. Calling Register twice on the same *CostCentre is a
// no-op beyond the first call: registration is idempotent on identity, as
// required for CCs declared by code that gets reloaded.
func (r *Registry) Register(cc *CostCentre) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.seen[cc] {
		return
	}

	cc.ID = r.nextID
	r.nextID++
	cc.Link = r.head
	r.head = cc
	r.seen[cc] = true
}

// NewCostCentre allocates and registers a new CostCentre in one step; the
// common case for code emitting a fresh annotation at load time.
func (r *Registry) NewCostCentre(label, module, srcLoc string, isCAF bool) *CostCentre {
	cc := &CostCentre{Label: label, Module: module, SrcLoc: srcLoc, IsCAF: isCAF}
	r.Register(cc)

	return cc
}

// All returns every registered CostCentre in registration order (oldest
// first), walking Link from the newest entry and reversing. Only ever
// called single-threaded, during reporting.
func (r *Registry) All() []*CostCentre {
	r.mu.Lock()
	defer r.mu.Unlock()

	var rev []*CostCentre
	for cc := r.head; cc != nil; cc = cc.Link {
		rev = append(rev, cc)
	}

	out := make([]*CostCentre, len(rev))
	for i, cc := range rev {
		out[len(rev)-1-i] = cc
	}

	return out
}
