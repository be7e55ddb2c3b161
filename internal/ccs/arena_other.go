//go:build !unix

package ccs

func newArenaBackend(size int) arenaBackend {
	if size <= 0 {
		size = 1 << 20
	}

	return &sliceArenaBackend{region: make([]byte, size)}
}
