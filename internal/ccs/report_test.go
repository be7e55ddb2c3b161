package ccs

import (
	"strings"
	"testing"
)

func TestReportTotals(t *testing.T) {
	c := newTestContext(t)
	hot := c.registry.NewCostCentre("hot", "App", "", false)
	cold := c.registry.NewCostCentre("cold", "App", "", false)

	sHot := c.Push(c.Main(), hot)
	sCold := c.Push(c.Main(), cold)

	c.RecordTick(TickSample{CCS: sHot, Ticks: 70, WordsAllocated: 800})
	c.RecordTick(TickSample{CCS: sCold, Ticks: 30, WordsAllocated: 200})

	totalAlloc, totalTicks := c.countTicks()

	var sumAlloc, sumTicks uint64

	walkTree(c.Main(), func(s *CostCentreStack) {
		if !c.isIgnoredCCS(s) {
			sumAlloc += s.MemAlloc.Load()
			sumTicks += s.TimeTicks.Load()
		}
	})

	if sumAlloc != totalAlloc || sumTicks != totalTicks {
		t.Fatalf("countTicks totals disagree with manual walk: (%d,%d) vs (%d,%d)",
			totalAlloc, totalTicks, sumAlloc, sumTicks)
	}

	if totalTicks != 100 || totalAlloc != 1000 {
		t.Fatalf("unexpected totals: ticks=%d alloc=%d", totalTicks, totalAlloc)
	}

	c.aggregateCCCosts()

	rows := c.buildFlatReport(totalTicks, totalAlloc)
	if len(rows) == 0 || rows[0].cc.Label != "hot" {
		t.Fatalf("expected hot cost centre first in flat report, got %+v", rows)
	}

	if rows[0].pctTime != 70.0 || rows[0].pctAlloc != 80.0 {
		t.Fatalf("unexpected percentages: %+v", rows[0])
	}
}

func TestInheritMonotonicity(t *testing.T) {
	c := newTestContext(t)
	a := c.registry.NewCostCentre("a", "M", "", false)
	b := c.registry.NewCostCentre("b", "M", "", false)

	sa := c.Push(c.Main(), a)
	sab := c.Push(sa, b)

	c.RecordTick(TickSample{CCS: sab, Ticks: 5, WordsAllocated: 50})
	c.RecordTick(TickSample{CCS: sa, Ticks: 2, WordsAllocated: 20})

	c.inheritCosts(c.Main())

	if sa.InheritedTicks < sa.TimeTicks.Load() {
		t.Fatalf("inherited ticks must be >= own ticks")
	}

	if sa.InheritedTicks < sab.InheritedTicks {
		t.Fatalf("parent inherited ticks must be >= child inherited ticks: %d < %d",
			sa.InheritedTicks, sab.InheritedTicks)
	}

	if sa.InheritedTicks != 7 {
		t.Fatalf("expected sa.InheritedTicks == 7, got %d", sa.InheritedTicks)
	}
}

func TestPrunePreservesAll(t *testing.T) {
	c := newTestContext(t)
	c.cfg.DoCostCentres = VerbosityALL

	a := c.registry.NewCostCentre("a", "M", "", false)
	_ = c.Push(c.Main(), a) // never ticked: would be pruned under summary mode

	c.pruneCCSTree(c.Main())

	found := false
	c.Main().Index.Range(func(cc *CostCentre, e *indexEntry) bool {
		if cc == a {
			found = true
		}

		return true
	})

	if !found {
		t.Fatalf("prune must be a no-op under ALL verbosity")
	}
}

func TestPruneDropsEmptySubtree(t *testing.T) {
	c := newTestContext(t)
	a := c.registry.NewCostCentre("a", "M", "", false)
	_ = c.Push(c.Main(), a)

	c.pruneCCSTree(c.Main())

	found := false
	c.Main().Index.Range(func(cc *CostCentre, e *indexEntry) bool {
		if cc == a {
			found = true
		}

		return true
	})

	if found {
		t.Fatalf("expected empty subtree to be pruned below ALL verbosity")
	}
}

func TestReportWritesExpectedSections(t *testing.T) {
	c := newTestContext(t)
	c.cfg.Program = "myprog"

	hot := c.registry.NewCostCentre("hot", "App", "", false)
	sHot := c.Push(c.Main(), hot)
	c.RecordTick(TickSample{CCS: sHot, Ticks: 10, WordsAllocated: 100})

	var buf strings.Builder
	if err := c.Report(&buf); err != nil {
		t.Fatalf("Report: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Time and Allocation Profiling Report") {
		t.Fatalf("missing report header: %q", out)
	}

	if !strings.Contains(out, "total alloc") {
		t.Fatalf("missing total alloc line")
	}

	if !strings.Contains(out, "hot") {
		t.Fatalf("expected hot cost centre to appear in report")
	}
}

func TestUTF8DisplayWidth(t *testing.T) {
	if displayWidth("abc") != 3 {
		t.Fatalf("ascii width wrong")
	}
	// "café" has 4 runes, 5 bytes (é is 2 bytes: 0xC3 0xA9, continuation byte 0xA9 is in [0x80,0xBF]).
	if w := displayWidth("café"); w != 4 {
		t.Fatalf("expected display width 4 for café, got %d", w)
	}
}
