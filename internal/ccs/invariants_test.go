package ccs

import "testing"

func TestCheckInvariantsHoldsOnLinearTree(t *testing.T) {
	c := newTestContext(t)
	a := c.registry.NewCostCentre("a", "M", "", false)
	b := c.registry.NewCostCentre("b", "M", "", false)

	sab := c.Push(c.Push(c.Main(), a), b)
	c.RecordTick(TickSample{CCS: sab, Ticks: 1, WordsAllocated: 1})

	if err := c.CheckInvariants(); err != nil {
		t.Fatalf("unexpected invariant violation: %v", err)
	}
}

func TestCheckInvariantsHoldsAcrossRecursion(t *testing.T) {
	c := newTestContext(t)
	f := c.registry.NewCostCentre("f", "M", "", false)
	g := c.registry.NewCostCentre("g", "M", "", false)

	sfg := c.Push(c.Push(c.Main(), f), g)
	_ = c.Push(sfg, f) // truncated recursion: back-edge entry on sfg

	if err := c.CheckInvariants(); err != nil {
		t.Fatalf("unexpected invariant violation across a recursion back-edge: %v", err)
	}
}
