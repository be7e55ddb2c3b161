package ccs

import "testing"

func labelsOf(s *CostCentreStack) []string { return s.Labels() }

func eqLabels(t *testing.T, got []string, want ...string) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("labels %v, want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("labels %v, want %v", got, want)
		}
	}
}

func TestEnterAbsorption(t *testing.T) {
	c := newTestContext(t)
	a := c.registry.NewCostCentre("a", "M", "", false)

	sa := c.Push(c.Main(), a)

	ts := NewThreadState(sa)
	if got := c.Enter(ts, sa); got != sa {
		t.Fatalf("enter(s,s) != s")
	}

	ts2 := NewThreadState(sa)
	if got := c.Enter(ts2, c.empty); got != sa {
		t.Fatalf("enter(s,empty) != s")
	}
}

func TestEnterCAFRootFastPath(t *testing.T) {
	c := newTestContext(t)
	a := c.registry.NewCostCentre("a", "M", "", false)
	caf := c.registry.NewCostCentre("CAF_root", "M", "", true)

	sa := c.Push(c.Main(), a)
	scaf := c.Push(c.Main(), caf) // captured.prev == MAIN

	ts := NewThreadState(sa)
	if got := c.Enter(ts, scaf); got != sa {
		t.Fatalf("enter(s, captured) with captured.prev==MAIN should return s unchanged")
	}
}

func TestEnterCommonPrefix(t *testing.T) {
	c := newTestContext(t)
	a := c.registry.NewCostCentre("a", "M", "", false)
	b := c.registry.NewCostCentre("b", "M", "", false)
	cc := c.registry.NewCostCentre("c", "M", "", false)
	d := c.registry.NewCostCentre("d", "M", "", false)

	ab := c.Push(c.Push(c.Main(), a), b)
	current := c.Push(ab, cc)  // a,b,c
	captured := c.Push(ab, d)  // a,b,d

	ts := NewThreadState(current)
	result := c.Enter(ts, captured)

	eqLabels(t, labelsOf(result), "a", "b", "c", "d")
	if ts.Current() != result {
		t.Fatalf("ThreadState not updated to the composed result")
	}
}

func TestEnterCapturedDeeper(t *testing.T) {
	c := newTestContext(t)
	a := c.registry.NewCostCentre("a", "M", "", false)
	b := c.registry.NewCostCentre("b", "M", "", false)
	cc := c.registry.NewCostCentre("c", "M", "", false)

	current := c.Push(c.Main(), a)
	current = c.Push(current, b) // a,b
	ab := current

	captured := c.Push(ab, cc) // a,b,c

	ts := NewThreadState(current)
	result := c.Enter(ts, captured)

	eqLabels(t, labelsOf(result), "a", "b", "c")
}

func TestEnterCurrentDeeper(t *testing.T) {
	c := newTestContext(t)
	a := c.registry.NewCostCentre("a", "M", "", false)
	b := c.registry.NewCostCentre("b", "M", "", false)
	cc := c.registry.NewCostCentre("c", "M", "", false)

	ab := c.Push(c.Push(c.Main(), a), b)
	current := c.Push(ab, cc) // a,b,c
	captured := ab            // a,b

	ts := NewThreadState(current)
	result := c.Enter(ts, captured)

	eqLabels(t, labelsOf(result), "a", "b", "c")
}

func TestEnterAcrossRoots(t *testing.T) {
	c := newTestContext(t)
	a := c.registry.NewCostCentre("a", "M", "", false)
	caf := c.registry.NewCostCentre("CAF_root", "M", "", true)
	x := c.registry.NewCostCentre("x", "M", "", false)
	y := c.registry.NewCostCentre("y", "M", "", false)

	current := c.Push(c.Main(), a) // MAIN,a

	// Build a CAF-rooted stack whose root is NOT MAIN: push directly onto
	// the empty sentinel so CAF_root becomes its own root.
	cafRoot := c.Push(c.empty, caf)
	captured := c.Push(c.Push(cafRoot, x), y) // CAF_root,x,y

	if captured.Root == current.Root {
		t.Fatalf("test setup broken: expected different roots")
	}

	ts := NewThreadState(current)
	result := c.Enter(ts, captured)

	eqLabels(t, labelsOf(result), "a", "x", "y")
}
