package ccs

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// TickSample is what the (out-of-scope) tick-sampling timer delivers on
// every sample: the CCS that was current, one tick, and the words allocated
// since the previous sample.
type TickSample struct {
	CCS            *CostCentreStack
	Ticks          uint64
	WordsAllocated uint64
}

// RecordTick folds a sample into the node it was attributed to. Safe to call
// from the sampler's own thread concurrently with mutator threads installing
// new current stacks: counters may race a reporting read, never a
// write-write race on the same node from two sampler calls since there is
// one sampler.
func (c *Context) RecordTick(s TickSample) {
	s.CCS.TimeTicks.Add(s.Ticks)
	s.CCS.MemAlloc.Add(s.WordsAllocated)
}

// RecordEntry increments scc_count, the number of entries into the annotated
// region while this stack was current. Distinct from Push, which is
// memoised and therefore does not fire once per entry.
func (c *Context) RecordEntry(s *CostCentreStack) {
	s.SCCCount.Add(1)
}

// walkTree calls fn for every CCS reachable from root by non-back-edge
// children, pre-order, depth-first — the traversal every reporting phase
// is built from.
func walkTree(root *CostCentreStack, fn func(*CostCentreStack)) {
	fn(root)
	root.Index.Range(func(_ *CostCentre, e *indexEntry) bool {
		if !e.BackEdge {
			walkTree(e.CCS, fn)
		}

		return true
	})
}

// countTicks sums mem_alloc/time_ticks of every non-ignored CCS into the
// report totals.
func (c *Context) countTicks() (totalAlloc, totalTicks uint64) {
	walkTree(c.builtin.main, func(s *CostCentreStack) {
		if c.cfg.DoCostCentres == VerbosityALL || !c.isIgnoredCCS(s) {
			totalAlloc += s.MemAlloc.Load()
			totalTicks += s.TimeTicks.Load()
		}
	})

	return totalAlloc, totalTicks
}

// aggregateCCCosts folds every CCS's counters into the CC it references.
func (c *Context) aggregateCCCosts() {
	for _, cc := range c.registry.All() {
		cc.TimeTicks = 0
		cc.MemAlloc = 0
	}

	walkTree(c.builtin.main, func(s *CostCentreStack) {
		s.CC.TimeTicks += s.TimeTicks.Load()
		s.CC.MemAlloc += s.MemAlloc.Load()
	})
}

// inheritCosts computes the post-order sum of own counters plus
// non-back-edge children's inherited counters.
func (c *Context) inheritCosts(s *CostCentreStack) (ticks, alloc uint64) {
	ticks = s.TimeTicks.Load()
	alloc = s.MemAlloc.Load()

	s.Index.Range(func(_ *CostCentre, e *indexEntry) bool {
		if !e.BackEdge {
			ct, ca := c.inheritCosts(e.CCS)
			ticks += ct
			alloc += ca
		}

		return true
	})

	s.InheritedTicks = ticks
	s.InheritedAlloc = alloc

	return ticks, alloc
}

// pruneCCSTree walks depth-first, unlinking any non-back-edge child
// whose subtree has zero entries, zero ticks, zero allocations, and no
// surviving grandchildren. A no-op under ALL verbosity.
func (c *Context) pruneCCSTree(s *CostCentreStack) {
	if c.cfg.DoCostCentres == VerbosityALL {
		return
	}

	var toDelete []*CostCentre

	s.Index.Range(func(cc *CostCentre, e *indexEntry) bool {
		if e.BackEdge {
			return true
		}

		c.pruneCCSTree(e.CCS)

		if isEmptySubtree(e.CCS) {
			toDelete = append(toDelete, cc)
		}

		return true
	})

	for _, cc := range toDelete {
		s.Index.Delete(cc)
	}
}

func isEmptySubtree(s *CostCentreStack) bool {
	if s.SCCCount.Load() != 0 || s.TimeTicks.Load() != 0 || s.MemAlloc.Load() != 0 {
		return false
	}

	hasChild := false
	s.Index.Range(func(_ *CostCentre, e *indexEntry) bool {
		if !e.BackEdge {
			hasChild = true
			return false
		}

		return true
	})

	return !hasChild
}

// displayWidth computes the report's UTF-8 display width: bytes whose value
// is <0x80 or >0xBF each count as one column, i.e. UTF-8 continuation bytes
// (0x80-0xBF) are free.
func displayWidth(s string) int {
	w := 0

	for i := 0; i < len(s); i++ {
		b := s[i]
		if b < 0x80 || b > 0xBF {
			w++
		}
	}

	return w
}

func padRight(s string, width int) string {
	w := displayWidth(s)
	if w >= width {
		return s
	}

	return s + strings.Repeat(" ", width-w)
}

func padLeft(s string, width int) string {
	w := displayWidth(s)
	if w >= width {
		return s
	}

	return strings.Repeat(" ", width-w) + s
}

func pct(part, total uint64) float64 {
	if total == 0 {
		return 0
	}

	return float64(part) * 100 / float64(total)
}

// sortCCsByTicksDesc builds the descending-time-ticks ordered list the flat
// report needs, via in-place linked-list insertion threaded through
// CostCentre.Link — the same field the registry uses to hold its
// registration-order list, re-threaded here since reporting runs once, after
// the registry's own order is no longer needed.
func sortCCsByTicksDesc(ccs []*CostCentre) *CostCentre {
	var head *CostCentre

	for _, cc := range ccs {
		cc.Link = nil

		if head == nil || cc.TimeTicks > head.TimeTicks {
			cc.Link = head
			head = cc

			continue
		}

		cur := head
		for cur.Link != nil && cur.Link.TimeTicks >= cc.TimeTicks {
			cur = cur.Link
		}

		cc.Link = cur.Link
		cur.Link = cc
	}

	return head
}

const flatReportThresholdPct = 1.0

// flatRow is one line of the per-CC flat report.
type flatRow struct {
	cc       *CostCentre
	pctTime  float64
	pctAlloc float64
}

func (c *Context) buildFlatReport(totalTicks, totalAlloc uint64) []flatRow {
	all := c.registry.All()
	head := sortCCsByTicksDesc(all)

	verbose := c.cfg.DoCostCentres == VerbosityALL || c.cfg.DoCostCentres == VerbosityVERBOSE

	var rows []flatRow
	for cc := head; cc != nil; cc = cc.Link {
		pt := pct(cc.TimeTicks, totalTicks)
		pa := pct(cc.MemAlloc, totalAlloc)

		if !verbose && pt < flatReportThresholdPct && pa < flatReportThresholdPct {
			continue
		}

		rows = append(rows, flatRow{cc: cc, pctTime: pt, pctAlloc: pa})
	}

	return rows
}

func (c *Context) writeFlatReport(w io.Writer, rows []flatRow) {
	showRaw := c.cfg.DoCostCentres == VerbosityALL || c.cfg.DoCostCentres == VerbosityVERBOSE

	nameW, modW := displayWidth("COST CENTRE"), displayWidth("MODULE")
	for _, r := range rows {
		if c.isIgnoredCC(r.cc) && c.cfg.DoCostCentres != VerbosityALL {
			continue
		}

		if w := displayWidth(r.cc.Label); w > nameW {
			nameW = w
		}

		if w := displayWidth(r.cc.Module); w > modW {
			modW = w
		}
	}

	fmt.Fprintf(w, "%s  %s  %%time  %%alloc", padRight("COST CENTRE", nameW), padRight("MODULE", modW))
	if showRaw {
		fmt.Fprintf(w, "     ticks      bytes")
	}

	fmt.Fprintln(w)

	for _, r := range rows {
		if c.isIgnoredCC(r.cc) && c.cfg.DoCostCentres != VerbosityALL {
			continue
		}

		fmt.Fprintf(w, "%s  %s  %6.1f  %6.1f",
			padRight(r.cc.Label, nameW), padRight(r.cc.Module, modW), r.pctTime, r.pctAlloc)

		if showRaw {
			fmt.Fprintf(w, "  %9d  %9d", r.cc.TimeTicks, r.cc.MemAlloc)
		}

		fmt.Fprintln(w)
	}
}

// treeRow is one line of the per-CCS tree report.
type treeRow struct {
	node  *CostCentreStack
	depth int
}

func (c *Context) collectTreeRows(s *CostCentreStack, depth int, out *[]treeRow) {
	*out = append(*out, treeRow{node: s, depth: depth})

	type child struct {
		cc *CostCentre
		e  *indexEntry
	}

	var children []child
	s.Index.Range(func(cc *CostCentre, e *indexEntry) bool {
		if !e.BackEdge {
			children = append(children, child{cc, e})
		}

		return true
	})

	sort.Slice(children, func(i, j int) bool { return children[i].cc.Label < children[j].cc.Label })

	for _, ch := range children {
		c.collectTreeRows(ch.e.CCS, depth+1, out)
	}
}

func (c *Context) writeTreeReport(w io.Writer, rows []treeRow, totalTicks, totalAlloc uint64) {
	showRaw := c.cfg.DoCostCentres == VerbosityALL || c.cfg.DoCostCentres == VerbosityVERBOSE

	nameW, modW := displayWidth("COST CENTRE"), displayWidth("MODULE")
	for _, r := range rows {
		indented := strings.Repeat(" ", r.depth) + r.node.CC.Label
		if w := displayWidth(indented); w > nameW {
			nameW = w
		}

		if w := displayWidth(r.node.CC.Module); w > modW {
			modW = w
		}
	}

	fmt.Fprintf(w, "%s  %s  no.    entries  %%time  %%alloc  %%time  %%alloc",
		padRight("COST CENTRE", nameW), padRight("MODULE", modW))

	if showRaw {
		fmt.Fprintf(w, "     ticks      bytes")
	}

	fmt.Fprintln(w)

	for _, r := range rows {
		if c.isIgnoredCCS(r.node) && c.cfg.DoCostCentres != VerbosityALL {
			continue
		}

		indented := strings.Repeat(" ", r.depth) + r.node.CC.Label
		pt := pct(r.node.TimeTicks.Load(), totalTicks)
		pa := pct(r.node.MemAlloc.Load(), totalAlloc)
		ipt := pct(r.node.InheritedTicks, totalTicks)
		ipa := pct(r.node.InheritedAlloc, totalAlloc)

		fmt.Fprintf(w, "%s  %s  %-5d  %7d  %6.1f  %6.1f  %6.1f  %6.1f",
			padRight(indented, nameW), padRight(r.node.CC.Module, modW),
			r.node.ID, r.node.SCCCount.Load(), pt, pa, ipt, ipa)

		if showRaw {
			fmt.Fprintf(w, "  %9d  %9d", r.node.TimeTicks.Load(), r.node.MemAlloc.Load())
		}

		fmt.Fprintln(w)
	}
}

// wallSeconds converts a tick count into seconds: ticks * usPerTick /
// nCapabilities / 1e6, where usPerTick is TickInterval in whole
// microseconds.
func (c *Context) wallSeconds(ticks uint64) float64 {
	n := c.cfg.NCapabilities
	if n <= 0 {
		n = 1
	}

	usPerTick := float64(c.cfg.TickInterval.Microseconds())
	if usPerTick == 0 {
		usPerTick = 1
	}

	return float64(ticks) * usPerTick / float64(n) / 1e6
}

// Report runs the full counting/aggregation/inheritance/pruning pipeline and
// writes the final text report to w, following the conventional profiler
// log-file layout. Reporting must only run after the sampler has stopped; it
// is not itself synchronized against concurrent mutators.
func (c *Context) Report(w io.Writer) error {
	totalAlloc, totalTicks := c.countTicks()
	c.aggregateCCCosts()

	rows := c.buildFlatReport(totalTicks, totalAlloc)

	c.inheritCosts(c.builtin.main)
	c.pruneCCSTree(c.builtin.main)

	var treeRows []treeRow
	c.collectTreeRows(c.builtin.main, 0, &treeRows)

	fmt.Fprintf(w, "\tTime and Allocation Profiling Report  (Final)\n\n")
	fmt.Fprintf(w, "\t  %s +RTS %s -RTS %s\n\n",
		c.cfg.Program, strings.Join(c.cfg.RTSArgs, " "), strings.Join(c.cfg.ProgArgs, " "))
	fmt.Fprintf(w, "  total time  = %.2f secs   (%d ticks @ %d us, %d processor(s))\n",
		c.wallSeconds(totalTicks), totalTicks, c.cfg.TickInterval.Microseconds(), maxInt(c.cfg.NCapabilities, 1))
	fmt.Fprintf(w, "  total alloc = %s bytes  (excludes profiling overheads)\n\n", commaInt(totalAlloc))

	c.writeFlatReport(w, rows)
	fmt.Fprintln(w)
	c.writeTreeReport(w, treeRows, totalTicks, totalAlloc)

	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}

	return b
}

// commaInt formats n with thousands separators, matching the conventional
// profiler log format's bytes-with-commas rendering.
func commaInt(n uint64) string {
	s := fmt.Sprintf("%d", n)

	out := make([]byte, 0, len(s)+len(s)/3)
	for i, ch := range s {
		if i != 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}

		out = append(out, byte(ch))
	}

	return string(out)
}
