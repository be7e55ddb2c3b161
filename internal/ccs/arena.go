package ccs

import "sync"

// Arena is the bump allocator backing the profiler: every CCS node and
// index-table entry this package creates is accounted against it, and the
// whole thing is released in one bulk free at shutdown — there is no
// per-object free. The general region/heap allocator the rest of the
// runtime uses is a separate, external collaborator; this type is the thin
// alloc(size) / free_all() contract the profiler core itself needs,
// nothing more.
type Arena struct {
	mu      sync.Mutex
	backend arenaBackend
	used    uint64
	allocs  uint64
}

// arenaBackend abstracts the bump region itself so the platform-specific
// mmap path (arena_unix.go) and the portable fallback (arena_other.go) share
// one Arena implementation, the same split `internal/runtime/asyncio` uses
// for its zero-copy file transfer helpers.
type arenaBackend interface {
	alloc(size int) []byte
	freeAll()
}

// NewArena reserves a region of the given size up front (rounded up by the
// backend to whatever granularity it needs, e.g. the OS page size).
func NewArena(size int) *Arena {
	return &Arena{backend: newArenaBackend(size)}
}

// Alloc returns a zeroed byte slice of the requested size carved from the
// bump region. There is no corresponding Free: the arena owns everything
// and releases it in bulk.
func (a *Arena) Alloc(size int) []byte {
	a.mu.Lock()
	defer a.mu.Unlock()

	b := a.backend.alloc(size)
	a.used += uint64(size)
	a.allocs++

	return b
}

// FreeAll releases the entire region. Called once, from Context.Free, after
// the sampler has stopped and reporting has completed.
func (a *Arena) FreeAll() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.backend.freeAll()
	a.used = 0
}

// Stats returns the bytes handed out since the last FreeAll and the
// cumulative allocation count, for diagnostics only; the reporter does not
// consume this.
func (a *Arena) Stats() (usedBytes, allocCount uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.used, a.allocs
}
