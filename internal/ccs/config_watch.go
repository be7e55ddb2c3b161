package ccs

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// watchSelectorsFile watches path for writes and reloads the three
// selectors from it into c.selectors, letting code loaded after init2 pick
// up a selector change without a restart. The file format is three
// "key=value" lines (mod, cc, ccs); a missing key leaves that selector
// unset ("match"). Mirrors the watcher-goroutine idiom in
// internal/runtime/vfs/watch_fsnotify.go.
func (c *Context) watchSelectorsFile(path string) (func(), error) {
	if err := c.reloadSelectorsFile(path); err != nil {
		fmt.Fprintf(os.Stderr, "ccs: initial selectors load failed: %v\n", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := w.Add(path); err != nil {
		_ = w.Close()
		return nil, err
	}

	done := make(chan struct{})

	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}

				if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					if err := c.reloadSelectorsFile(path); err != nil {
						fmt.Fprintf(os.Stderr, "ccs: selector reload failed: %v\n", err)
					}
				}
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			case <-done:
				return
			}
		}
	}()

	cancel := func() {
		close(done)
		_ = w.Close()
	}

	return cancel, nil
}

func (c *Context) reloadSelectorsFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sel := &SelectorConfig{}

	scan := bufio.NewScanner(f)
	for scan.Scan() {
		line := strings.TrimSpace(scan.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}

		switch strings.TrimSpace(key) {
		case "mod":
			sel.Mod = strings.TrimSpace(value)
		case "cc":
			sel.CC = strings.TrimSpace(value)
		case "ccs":
			sel.CCS = strings.TrimSpace(value)
		}
	}

	if err := scan.Err(); err != nil {
		return err
	}

	c.selectors.Store(sel)

	return nil
}
