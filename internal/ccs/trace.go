package ccs

import (
	"fmt"
	"io"
	"strings"
)

// maxExceptionTraceDepth bounds the "evaluated by" walk at 10 hops.
const maxExceptionTraceDepth = 10

// FrameKind tags one node of the mutator's evaluation-frame chain that
// PrintExceptionTrace walks. The frame representation itself is an
// out-of-scope collaborator (closure/frame layout); this package only
// needs to know, for each frame, which CCS it carries and how to advance.
type FrameKind int

const (
	// FrameUpdate is an update frame: it carries the CCS in force when the
	// thunk it updates was allocated.
	FrameUpdate FrameKind = iota
	// FrameUnderflow chains to the previous stack chunk.
	FrameUnderflow
	// FrameStop terminates the walk.
	FrameStop
	// FrameOther is any frame type the exception-trace printer does not
	// specifically understand; it advances past the frame's declared size
	// and never aborts.
	FrameOther
)

// Frame is one node of the evaluation-frame chain.
type Frame struct {
	Kind FrameKind
	CCS  *CostCentreStack // only meaningful for FrameUpdate
	Next *Frame           // nil terminates; FrameUnderflow's Next is the previous chunk
}

// ExceptionInfo describes the failing value being printed.
type ExceptionInfo struct {
	TypeName string
}

// PrintCCS formats ccs as "<mod.cc, mod.cc, ...>" from top down to (but not
// including) MAIN, matching the conventional print_ccs rendering.
func (c *Context) PrintCCS(w io.Writer, s *CostCentreStack) {
	var parts []string
	for n := s; n != nil && n != c.builtin.main && n.CC != nil; n = n.Prev {
		parts = append(parts, n.CC.Module+"."+n.CC.Label)
	}

	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}

	fmt.Fprintf(w, "<%s>", strings.Join(parts, ", "))
}

// PrintExceptionTrace prints the exception's type, the failing stack
// top-to-root, and — if the bottom of that chain is a CAF — the
// "evaluated by" chain obtained by following update frames. Whether a CC is
// a CAF for this purpose is decided by its label prefix ("CAF..."), not by
// the is_caf attribute recorded at registration: the two usually agree, but
// the label convention is what the exception-trace walk actually keys off.
//
// This function relies on the caller keeping the panicking goroutine
// stopped (no other goroutine mutates frame.Next concurrently) for the
// duration of the call; Orizon's region/refcount-based runtime has no
// moving collector, so there is no additional hazard from concurrent
// relocation of the frames themselves.
func (c *Context) PrintExceptionTrace(w io.Writer, failing *CostCentreStack, exc ExceptionInfo, frame *Frame) {
	fmt.Fprintf(w, "%s\n", exc.TypeName)

	c.PrintCCS(w, failing)
	fmt.Fprintln(w)

	bottom := bottomCC(failing, c.builtin.main)
	if bottom == nil || !isCAFLabel(bottom.Label) {
		return
	}

	seen := map[*CostCentreStack]bool{}

	hops := 0
	for frame != nil && hops < maxExceptionTraceDepth {
		switch frame.Kind {
		case FrameUpdate:
			if frame.CCS != nil && !seen[frame.CCS] {
				seen[frame.CCS] = true
				hops++

				fmt.Fprintf(w, "--> evaluated by: ")
				c.PrintCCS(w, frame.CCS)
				fmt.Fprintln(w)

				if frame.CCS == c.builtin.main {
					return
				}

				if cc := bottomCC(frame.CCS, c.builtin.main); cc != nil && !isCAFLabel(cc.Label) {
					return
				}
			}

			frame = frame.Next
		case FrameUnderflow:
			frame = frame.Next
		case FrameStop:
			return
		default: // FrameOther: advance past it without inspecting further.
			frame = frame.Next
		}
	}
}

// isCAFLabel reports whether label belongs to a CAF cost centre, by the
// "CAF"-prefix convention rather than the is_caf attribute.
func isCAFLabel(label string) bool {
	return strings.HasPrefix(label, "CAF")
}

// bottomCC returns the CostCentre at the bottom of s's chain, stopping at
// (and excluding) main — i.e. the deepest user CC on the stack.
func bottomCC(s, main *CostCentreStack) *CostCentre {
	var last *CostCentre

	for n := s; n != nil && n != main && n.CC != nil; n = n.Prev {
		last = n.CC
	}

	return last
}
