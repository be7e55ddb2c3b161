package ccs

import "testing"

func TestRegistryIdempotentAndMonotonicIDs(t *testing.T) {
	r := NewRegistry()

	a := &CostCentre{Label: "a"}
	r.Register(a)
	firstID := a.ID

	r.Register(a) // idempotent on identity
	if a.ID != firstID {
		t.Fatalf("re-registering the same CC must not change its id")
	}

	b := &CostCentre{Label: "b"}
	r.Register(b)

	if b.ID <= a.ID {
		t.Fatalf("ids must be monotonically increasing: a=%d b=%d", a.ID, b.ID)
	}

	if a.ID == 0 || b.ID == 0 {
		t.Fatalf("id 0 is reserved and must never be assigned")
	}
}

func TestRegistryAllPreservesRegistrationOrder(t *testing.T) {
	r := NewRegistry()

	names := []string{"a", "b", "c"}
	for _, n := range names {
		r.NewCostCentre(n, "M", "", false)
	}

	all := r.All()
	if len(all) != len(names) {
		t.Fatalf("expected %d registered CCs, got %d", len(names), len(all))
	}

	for i, n := range names {
		if all[i].Label != n {
			t.Fatalf("registration order not preserved: got %v", all)
		}
	}
}
