// Package ccs implements the cost-centre-stack profiler embedded in the
// Orizon runtime: a memoised tree of cost-centre stacks built incrementally
// by concurrent mutator threads, the stack-composition algorithm used when a
// closure captured under one stack is forced by a thread running under
// another, and the reporting pipeline that turns the tree into a text
// report at program shutdown.
package ccs

import (
	"fmt"

	orizonerrors "github.com/orizon-lang/orizon/internal/errors"
)

// The profiler's own failure modes don't fit the memory/bounds/security
// taxonomy internal/errors already defines, so this package extends that
// same ErrorCategory type with two of its own rather than inventing a
// parallel error shape.
const (
	// CategoryInvariant marks a broken CCS-tree invariant: these are
	// fatal and should abort, never be silently recovered from.
	CategoryInvariant orizonerrors.ErrorCategory = "CCS_INVARIANT"
	// CategoryProfConfig marks a configuration problem (unopenable report
	// file, malformed selector) that disables the affected sub-mode but
	// lets execution continue.
	CategoryProfConfig orizonerrors.ErrorCategory = "CCS_CONFIG"
)

// InvariantViolation reports a broken tree invariant: duplicate non-back-edge
// child, depth/root arithmetic mismatch, or a memoisation collision. These
// are meant to be impossible if the tree's structural invariants hold, so
// callers that observe one should treat it as fatal rather than retry.
func InvariantViolation(detail string) *orizonerrors.StandardError {
	return orizonerrors.NewStandardError(CategoryInvariant, "TREE_INVARIANT", detail, nil)
}

// ReportFileUnavailable reports that the `<program>.prof` (or `.hp`) file
// could not be opened. This disables the corresponding sub-mode but does
// not abort the program.
func ReportFileUnavailable(path string, cause error) *orizonerrors.StandardError {
	return orizonerrors.NewStandardError(CategoryProfConfig, "REPORT_FILE_UNAVAILABLE",
		fmt.Sprintf("cannot open %s: %v", path, cause),
		map[string]interface{}{"path": path})
}
