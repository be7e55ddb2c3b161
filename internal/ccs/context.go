package ccs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
)

// Context is the single, explicit profiler-context value: the CC/CCS id
// counters, the registration list, the lock, the arena, and the open
// log-file handles all live here and are threaded to every operation
// instead of being process-wide singletons.
type Context struct {
	arena    *Arena
	registry *Registry
	builtin  *builtins
	empty    *CostCentreStack

	pushMu  sync.Mutex
	ccsNext atomic.Uint64

	selectors atomic.Pointer[SelectorConfig]

	cfg Config

	reportFile  *os.File
	heapFile    *os.File
	watchCancel func()
}

// Init opens the `<program>.prof` log file, registers the built-in CCs and
// their singleton CCSs, and (if DoHeapProfile) opens `<program>.hp` too. A
// report-file-open failure is logged to stderr and disables reporting
// rather than aborting the program.
func Init(cfg Config) (*Context, error) {
	if err := checkReportFormatConstraint(cfg.ReportFormatConstraint); err != nil {
		return nil, err
	}

	c := &Context{
		arena:    NewArena(4 << 20),
		registry: NewRegistry(),
	}
	c.cfg = cfg
	c.selectors.Store(cfg.initialSelectors())

	// The empty sentinel is built directly rather than through newNode: its
	// Root stays nil (the marker newNode checks for "this parent IS the
	// sentinel"). Since it bypasses newNode, its size is charged to the
	// arena explicitly here.
	c.arena.Alloc(costCentreStackSize)
	c.empty = &CostCentreStack{Index: newIndexTable()}

	c.newBuiltins()

	program := stripExeSuffix(cfg.Program)
	if program != "" {
		if f, err := os.Create(program + ".prof"); err != nil {
			fmt.Fprintln(os.Stderr, ReportFileUnavailable(program+".prof", err))
		} else {
			c.reportFile = f
		}

		if cfg.DoHeapProfile {
			if f, err := os.Create(program + ".hp"); err != nil {
				fmt.Fprintln(os.Stderr, ReportFileUnavailable(program+".hp", err))
			} else {
				c.heapFile = f
			}
		}
	}

	if cfg.SelectorsFile != "" {
		cancel, err := c.watchSelectorsFile(cfg.SelectorsFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ccs: selector hot-reload disabled: %v\n", err)
		} else {
			c.watchCancel = cancel
		}
	}

	return c, nil
}

// Init2 re-parents every built-in CCS onto MAIN; it runs once, after
// dynamic code load.
func (c *Context) Init2() { c.init2() }

// Free releases the arena and closes any open report files, stopping the
// selector watcher if one was started. Nothing the core owns survives this
// call.
func (c *Context) Free() {
	if c.watchCancel != nil {
		c.watchCancel()
	}

	if c.reportFile != nil {
		_ = c.reportFile.Close()
	}

	if c.heapFile != nil {
		_ = c.heapFile.Close()
	}

	c.arena.FreeAll()
}

// Registry exposes the CC registry so emitted code can register its cost
// centres.
func (c *Context) Registry() *Registry { return c.registry }

// ReportFile returns the open `<program>.prof` handle, or nil if it could
// not be opened; the caller should then skip reporting or fall back to
// another writer rather than treat this as fatal.
func (c *Context) ReportFile() *os.File { return c.reportFile }

func (c *Context) nextCCSID() uint64 {
	return c.ccsNext.Add(1)
}

// stripExeSuffix implements the Windows ".exe" stripping rule for report
// filenames.
func stripExeSuffix(program string) string {
	base := filepath.Base(program)
	if strings.EqualFold(filepath.Ext(base), ".exe") {
		program = strings.TrimSuffix(program, filepath.Ext(program))
	}

	return program
}
