package ccs

import "time"

// Verbosity is doCostCentres: it controls reporting verbosity and the
// ignore/prune rules applied while building a report.
type Verbosity int

const (
	VerbosityNone Verbosity = iota
	VerbositySummary
	VerbosityALL
	VerbosityVERBOSE
)

// SelectorConfig holds the three glob selectors (module, cost-centre,
// ancestor cost-centre). It is swapped atomically by config_watch.go so a
// hot-reloaded config never torn-reads partway through a Push.
type SelectorConfig struct {
	Mod string
	CC  string
	CCS string
}

// Config is the external configuration surface, populated by
// cmd/orizon-profile from flags.
type Config struct {
	DoCostCentres Verbosity
	DoHeapProfile bool

	ModSelector string
	CCSelector  string
	CCSSelector string

	// SelectorsFile, if set, is watched by config_watch.go for live
	// selector reloads after init2 (dynamic code load).
	SelectorsFile string

	TickInterval  time.Duration
	NCapabilities int
	Program       string
	RTSArgs       []string
	ProgArgs      []string

	// ReportFormatConstraint, if set, is checked against reportFormatVersion
	// at Init so a mismatched consumer fails fast rather than emit a report
	// a downstream tool cannot parse (see version.go).
	ReportFormatConstraint string
}

// initialSelectors builds the SelectorConfig a Context starts with, straight
// from the flags it was constructed with.
func (cfg Config) initialSelectors() *SelectorConfig {
	return &SelectorConfig{Mod: cfg.ModSelector, CC: cfg.CCSelector, CCS: cfg.CCSSelector}
}
