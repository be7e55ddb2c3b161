package ccs

// CheckInvariants walks the tree rooted at MAIN and verifies the structural
// invariants that are expected to hold by construction: depth/root
// arithmetic, memoisation (at most one non-back-edge entry per CostCentre in
// a node's index table — guaranteed by IndexTable.Store overwriting rather
// than chaining, but checked here against the parent-pointer side too), and
// that every non-back-edge child is reachable through exactly the
// index-table entry matching its own (prev, cc) pair. It is not called on
// any hot path — a violation is meant to be impossible if construction is
// correct, so callers use this for self-checks (tests, a debug build) rather
// than as part of ordinary operation.
func (c *Context) CheckInvariants() error {
	var walk func(s *CostCentreStack) error
	walk = func(s *CostCentreStack) error {
		var err error

		s.Index.Range(func(cc *CostCentre, e *indexEntry) bool {
			if e.BackEdge {
				if !s.IsAncestorOrSelf(e.CCS) {
					err = InvariantViolation("back-edge target is not an ancestor of its holder")
					return false
				}

				return true
			}

			child := e.CCS

			if child.CC != cc {
				err = InvariantViolation("index-table entry's CC does not match child.CC")
				return false
			}

			if child.Prev != s {
				err = InvariantViolation("non-back-edge child's prev does not point back at its parent")
				return false
			}

			if child.Depth != s.Depth+1 {
				err = InvariantViolation("depth arithmetic broken: child.depth != parent.depth+1")
				return false
			}

			if child.Root != s.Root {
				err = InvariantViolation("root propagation broken: child.root != parent.root")
				return false
			}

			if walkErr := walk(child); walkErr != nil {
				err = walkErr
				return false
			}

			return true
		})

		return err
	}

	return walk(c.builtin.main)
}
