package ccs

// recursionKind selects how Push handles re-entering a CostCentre already
// on the current prev-chain: truncate the new edge back onto the existing
// ancestor, or drop it onto the caller's own parent instead. Which one is
// active is a build-time choice, not a runtime flag, so both branches get
// their own test rather than a config knob. Both values are exercised by
// push_test.go.
type recursionKind int

const (
	policyTruncate recursionKind = iota
	policyDrop
)

// activeRecursionPolicy is the compile-time switch. Flip and re-test to
// evaluate the alternative policy.
const activeRecursionPolicy = policyTruncate

// Push returns the unique child CCS representing "entering cc from parent".
// It is idempotent under (parent, cc): repeated calls with the same
// arguments return the identical *CostCentreStack, which is what makes the
// tree memoised rather than rebuilt on every call.
func (c *Context) Push(parent *CostCentreStack, cc *CostCentre) *CostCentreStack {
	// Collapse adjacent duplicates: entering the region we're already in
	// doesn't grow the tree.
	if parent.CC == cc {
		return parent
	}

	// Lock-free fast path. A miss here is benign — it is resolved by the
	// re-probe under the lock below.
	if e, ok := parent.Index.Load(cc); ok {
		return e.CCS
	}

	c.pushMu.Lock()
	defer c.pushMu.Unlock()

	// Re-probe now that we hold the lock; another thread may have inserted
	// while we were waiting.
	if e, ok := parent.Index.Load(cc); ok {
		return e.CCS
	}

	// The empty sentinel never holds a recursion target, so skip straight
	// to allocating a new child under MAIN-to-be.
	if parent != c.empty {
		for anc := parent; anc != c.empty; anc = anc.Prev {
			if anc.CC == cc {
				return c.resolveRecursion(parent, anc)
			}
		}
	}

	child := c.newNode(cc, parent)
	child.Selected = c.computeSelected(child)
	parent.Index.Store(cc, c.newIndexEntry(child, false))

	return child
}

// resolveRecursion handles the case where anc, an ancestor of parent,
// already carries cc: a truncated or dropped recursion rather than a new
// child. Must be called with pushMu held. The two policies are split into
// their own methods so each can be exercised directly by a test regardless
// of which one activeRecursionPolicy selects for a given build.
func (c *Context) resolveRecursion(parent, anc *CostCentreStack) *CostCentreStack {
	switch activeRecursionPolicy {
	case policyDrop:
		return c.resolveRecursionDrop(parent, anc)
	default: // policyTruncate
		return c.resolveRecursionTruncate(parent, anc)
	}
}

// resolveRecursionTruncate re-targets the back edge onto anc itself: the new
// child is discarded and parent's next push of cc resolves straight to the
// existing ancestor.
func (c *Context) resolveRecursionTruncate(parent, anc *CostCentreStack) *CostCentreStack {
	parent.Index.Store(anc.CC, c.newIndexEntry(anc, true))
	return anc
}

// resolveRecursionDrop re-targets the back edge onto parent: recursion is
// collapsed onto the caller's own frame rather than the original ancestor.
func (c *Context) resolveRecursionDrop(parent, anc *CostCentreStack) *CostCentreStack {
	parent.Index.Store(anc.CC, c.newIndexEntry(parent, true))
	return parent
}
