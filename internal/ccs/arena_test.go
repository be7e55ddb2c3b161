package ccs

import "testing"

func TestArenaAllocAndFreeAll(t *testing.T) {
	a := NewArena(4096)

	b1 := a.Alloc(64)
	b2 := a.Alloc(128)

	if len(b1) != 64 || len(b2) != 128 {
		t.Fatalf("unexpected allocation sizes: %d %d", len(b1), len(b2))
	}

	used, allocs := a.Stats()
	if used != 192 || allocs != 2 {
		t.Fatalf("unexpected stats: used=%d allocs=%d", used, allocs)
	}

	a.FreeAll()

	used, _ = a.Stats()
	if used != 0 {
		t.Fatalf("expected used == 0 after FreeAll, got %d", used)
	}
}

func TestArenaOverflowFallsBackToHeap(t *testing.T) {
	a := NewArena(16)

	b := a.Alloc(1024)
	if len(b) != 1024 {
		t.Fatalf("expected overflow allocation to still return requested size, got %d", len(b))
	}
}
