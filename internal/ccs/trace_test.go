package ccs

import (
	"strings"
	"testing"
)

func TestPrintCCS(t *testing.T) {
	c := newTestContext(t)
	a := c.registry.NewCostCentre("a", "App", "", false)
	b := c.registry.NewCostCentre("b", "App", "", false)

	sab := c.Push(c.Push(c.Main(), a), b)

	var buf strings.Builder
	c.PrintCCS(&buf, sab)

	if got := buf.String(); got != "<App.a, App.b>" {
		t.Fatalf("unexpected print_ccs output: %q", got)
	}
}

func TestPrintExceptionTraceNonCAFStopsImmediately(t *testing.T) {
	c := newTestContext(t)
	a := c.registry.NewCostCentre("a", "App", "", false)
	sa := c.Push(c.Main(), a)

	var buf strings.Builder
	c.PrintExceptionTrace(&buf, sa, ExceptionInfo{TypeName: "SomeError"}, nil)

	out := buf.String()
	if !strings.Contains(out, "SomeError") {
		t.Fatalf("missing exception type name")
	}

	if strings.Contains(out, "evaluated by") {
		t.Fatalf("non-CAF bottom must not walk the frame chain")
	}
}

func TestPrintExceptionTraceCAFWalksFrames(t *testing.T) {
	c := newTestContext(t)
	caf := c.registry.NewCostCentre("CAF_main", "App", "", true)
	other := c.registry.NewCostCentre("other", "App", "", false)

	sCAF := c.Push(c.empty, caf)
	sOther := c.Push(c.Main(), other)

	frames := &Frame{Kind: FrameUpdate, CCS: sOther, Next: &Frame{Kind: FrameStop}}

	var buf strings.Builder
	c.PrintExceptionTrace(&buf, sCAF, ExceptionInfo{TypeName: "Boom"}, frames)

	out := buf.String()
	if !strings.Contains(out, "evaluated by") {
		t.Fatalf("expected an evaluated-by line for a CAF bottom, got %q", out)
	}
}

// TestPrintExceptionTraceGoesByLabelNotAttribute confirms the CAF-bottom
// check keys off the "CAF" label prefix, not the is_caf attribute recorded
// at registration: a CC registered with isCAF=false but a CAF-prefixed
// label must still be treated as a CAF bottom.
func TestPrintExceptionTraceGoesByLabelNotAttribute(t *testing.T) {
	c := newTestContext(t)
	other := c.registry.NewCostCentre("other", "App", "", false)
	sOther := c.Push(c.Main(), other)
	frames := &Frame{Kind: FrameUpdate, CCS: sOther, Next: &Frame{Kind: FrameStop}}

	mislabeled := c.registry.NewCostCentre("CAF_weird", "App", "", false)
	sMislabeled := c.Push(c.empty, mislabeled)

	var buf strings.Builder
	c.PrintExceptionTrace(&buf, sMislabeled, ExceptionInfo{TypeName: "Boom"}, frames)

	if !strings.Contains(buf.String(), "evaluated by") {
		t.Fatalf("is_caf=false with a CAF-prefixed label must still trigger the evaluated-by walk")
	}

	attributed := c.registry.NewCostCentre("not_prefixed", "App", "", true)
	sAttributed := c.Push(c.empty, attributed)

	buf.Reset()
	c.PrintExceptionTrace(&buf, sAttributed, ExceptionInfo{TypeName: "Boom"}, frames)

	if strings.Contains(buf.String(), "evaluated by") {
		t.Fatalf("is_caf=true with a non-CAF label must not trigger the evaluated-by walk")
	}
}
