package ccs

// ThreadState holds one mutator's current-CCS pointer: each mutator thread
// owns its own current-stack pointer, and there is no per-CCS lock.
// Callers create one per goroutine/capability and pass it to Enter and
// SetCurrent; the tick sampler reads Current() when attributing a sample.
type ThreadState struct {
	current *CostCentreStack
}

// NewThreadState creates a ThreadState pinned at the given starting stack,
// typically Context.Main().
func NewThreadState(start *CostCentreStack) *ThreadState {
	return &ThreadState{current: start}
}

// Current returns the stack this thread is presently running under.
func (t *ThreadState) Current() *CostCentreStack { return t.current }

// SetCurrent is the trivial setter used by the sampler wrapper and by Enter
// itself while composition is in flight.
func (t *ThreadState) SetCurrent(s *CostCentreStack) { t.current = s }

// Enter computes current ⊕ captured: the stack that "should have been
// active" when a thunk captured under captured is forced by a thread
// currently running under current. It updates ts in place and returns the
// resulting stack.
//
// While the general (non-fast-path) composition runs, ts is temporarily
// pointed at OVERHEAD so any sample delivered mid-composition is attributed
// to profiling overhead rather than to whichever CCS happens to be current
// at that instant.
func (c *Context) Enter(ts *ThreadState, captured *CostCentreStack) *CostCentreStack {
	current := ts.Current()

	switch {
	case current == captured:
		return current
	case captured == c.empty:
		return current
	case captured.Prev == c.builtin.main:
		// captured is root-level (a direct MAIN child) or a CAF
		// indirection only; nothing to compose.
		return current
	}

	if captured.Root != current.Root {
		ts.SetCurrent(c.builtin.overhead)
		result := c.appendForeignSpine(current, captured)
		ts.SetCurrent(result)

		return result
	}

	ts.SetCurrent(c.builtin.overhead)
	result := c.appendCommonRootSuffix(current, captured)
	ts.SetCurrent(result)

	return result
}

// appendForeignSpine handles composition across two different roots: every
// CC on captured's spine is pushed onto current, oldest first, skipping the
// leading run of CAF/root markers so the CAF itself never gets pushed.
func (c *Context) appendForeignSpine(current, captured *CostCentreStack) *CostCentreStack {
	spine := spineToRoot(captured, c.empty)

	i := 0
	for i < len(spine) && (spine[i] == c.builtin.main || (spine[i].CC != nil && spine[i].CC.IsCAF)) {
		i++
	}

	result := current
	for _, n := range spine[i:] {
		result = c.Push(result, n.CC)
	}

	return result
}

// appendCommonRootSuffix handles composition when current and captured share
// a root: it finds the longest common prefix (by pointer identity, which is
// sound because the tree is memoised — the same (parent, cc) pair always
// yields the same node) and pushes captured's non-shared tail onto current.
func (c *Context) appendCommonRootSuffix(current, captured *CostCentreStack) *CostCentreStack {
	// Align both pointers to the shallower of the two depths, recording any
	// excess of captured beyond current's depth — that excess still needs
	// pushing even though it never participates in the prefix comparison.
	a := current
	b := captured

	var excess []*CostCentreStack
	for b.Depth > a.Depth {
		excess = append(excess, b)
		b = b.Prev
	}

	for a.Depth > b.Depth {
		a = a.Prev
	}

	var tail []*CostCentreStack
	for a != b {
		tail = append(tail, b)
		a = a.Prev
		b = b.Prev
	}

	reverseStacks(tail)
	reverseStacks(excess)

	result := current
	for _, n := range tail {
		result = c.Push(result, n.CC)
	}

	for _, n := range excess {
		result = c.Push(result, n.CC)
	}

	return result
}

// spineToRoot returns the nodes from the tree root down to and including s,
// excluding the empty sentinel.
func spineToRoot(s, empty *CostCentreStack) []*CostCentreStack {
	var rev []*CostCentreStack
	for n := s; n != empty; n = n.Prev {
		rev = append(rev, n)
	}

	reverseStacks(rev)

	return rev
}

func reverseStacks(s []*CostCentreStack) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
