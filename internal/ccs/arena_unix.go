//go:build unix

package ccs

import "golang.org/x/sys/unix"

// unixArenaBackend bump-allocates out of a single anonymous mmap region,
// generalizing the "in production, this would use mmap() on Unix" comment
// left in internal/runtime/region_alloc.go into an actual syscall-backed
// allocator, sized once at Context.Init and released with one munmap at
// teardown.
type unixArenaBackend struct {
	region []byte
	offset int
}

func newArenaBackend(size int) arenaBackend {
	if size <= 0 {
		size = 1 << 20
	}

	region, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		// Fall back to a plain heap slice; the profiler degrades to
		// GC-backed bookkeeping rather than failing program startup over
		// an mmap refusal.
		return &sliceArenaBackend{region: make([]byte, size)}
	}

	return &unixArenaBackend{region: region}
}

func (b *unixArenaBackend) alloc(size int) []byte {
	if b.offset+size > len(b.region) {
		// Bump past capacity: grow with a fresh heap-backed chunk rather
		// than remapping, keeping the common case syscall-free.
		return make([]byte, size)
	}

	out := b.region[b.offset : b.offset+size : b.offset+size]
	b.offset += size

	return out
}

func (b *unixArenaBackend) freeAll() {
	if b.region != nil {
		_ = unix.Munmap(b.region)
		b.region = nil
	}

	b.offset = 0
}
