package ccs

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// reportFormatVersion is the version of the `<program>.prof` text layout
// this package emits. It is bumped whenever a column is added, removed, or
// reordered in either the flat or the tree report table.
const reportFormatVersion = "1.0.0"

// checkReportFormatConstraint validates an optional caller-supplied semver
// constraint (e.g. ">= 1.0.0, < 2.0.0") against reportFormatVersion at Init
// time, the same way cmd/orizon-pkg checks a dependency's version constraint
// before resolving it. An empty constraint always passes.
func checkReportFormatConstraint(constraint string) error {
	if constraint == "" {
		return nil
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("ccs: invalid report-format constraint %q: %w", constraint, err)
	}

	v, err := semver.NewVersion(reportFormatVersion)
	if err != nil {
		return fmt.Errorf("ccs: invalid internal report-format version %q: %w", reportFormatVersion, err)
	}

	if !c.Check(v) {
		return fmt.Errorf("ccs: report format %s does not satisfy constraint %q", reportFormatVersion, constraint)
	}

	return nil
}
