package ccs

// builtinNames enumerates the distinguished built-in CCs/CCSs, in the order
// init2 re-parents them. MAIN is handled separately since everything else
// is re-parented onto it.
var builtinNames = []string{"SYSTEM", "GC", "OVERHEAD", "DONT_CARE", "PINNED", "IDLE"}

// builtins holds every built-in CC/CCS pair, created once at Init and
// re-parented at Init2.
type builtins struct {
	main     *CostCentreStack
	system   *CostCentreStack
	gc       *CostCentreStack
	overhead *CostCentreStack
	dontCare *CostCentreStack
	pinned   *CostCentreStack
	idle     *CostCentreStack

	byName map[string]*CostCentreStack
}

// newBuiltins registers the built-in CCs and creates their singleton CCSs.
// Before Init2 runs, every built-in CCS other than MAIN has the empty
// sentinel as its prev and is its own root; init2 re-parents them onto
// MAIN once dynamic code load has finished.
func (c *Context) newBuiltins() {
	empty := c.empty

	mkCC := func(label string, isCAF bool) *CostCentre {
		cc := c.registry.NewCostCentre(label, "MAIN", "<built-in>", isCAF)
		return cc
	}

	b := &builtins{byName: map[string]*CostCentreStack{}}

	mainCC := mkCC("MAIN", false)
	b.main = c.newNode(mainCC, empty)
	b.main.Selected = true

	mk := func(name string) *CostCentreStack {
		cc := mkCC(name, false)
		n := c.newNode(cc, empty)
		b.byName[name] = n

		return n
	}

	b.system = mk("SYSTEM")
	b.gc = mk("GC")
	b.overhead = mk("OVERHEAD")
	b.dontCare = mk("DONT_CARE")
	b.pinned = mk("PINNED")
	b.idle = mk("IDLE")
	b.byName["MAIN"] = b.main

	c.builtin = b
}

// init2 re-parents every built-in CCS (except MAIN) so MAIN is its prev. It
// runs once, after dynamic code load, before any concurrent mutator
// activity, so no locking is required.
func (c *Context) init2() {
	b := c.builtin
	for _, name := range builtinNames {
		n := b.byName[name]
		n.Prev = b.main
		n.Depth = b.main.Depth + 1
		n.Root = b.main.Root
		b.main.Index.Store(n.CC, c.newIndexEntry(n, false))
	}
}

// Main returns the root of the user tree.
func (c *Context) Main() *CostCentreStack { return c.builtin.main }

// System, GC, Overhead, DontCare, Pinned, and Idle return the respective
// built-in singleton CCS.
func (c *Context) System() *CostCentreStack   { return c.builtin.system }
func (c *Context) GC() *CostCentreStack       { return c.builtin.gc }
func (c *Context) Overhead() *CostCentreStack { return c.builtin.overhead }
func (c *Context) DontCare() *CostCentreStack { return c.builtin.dontCare }
func (c *Context) Pinned() *CostCentreStack   { return c.builtin.pinned }
func (c *Context) Idle() *CostCentreStack     { return c.builtin.idle }

// isIgnoredCC reports whether cc is one of the CCs ignored by reports below
// ALL verbosity: OVERHEAD, DONT_CARE, GC, SYSTEM, IDLE.
func (c *Context) isIgnoredCC(cc *CostCentre) bool {
	switch cc {
	case c.builtin.overhead.CC, c.builtin.dontCare.CC, c.builtin.gc.CC, c.builtin.system.CC, c.builtin.idle.CC:
		return true
	default:
		return false
	}
}

// isIgnoredCCS is the CCS-level form of the same rule: a node referencing an
// ignored CC is excluded from printing (not traversal).
func (c *Context) isIgnoredCCS(s *CostCentreStack) bool {
	return c.isIgnoredCC(s.CC)
}
