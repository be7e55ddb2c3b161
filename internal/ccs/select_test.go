package ccs

import "testing"

func TestMatchGlob(t *testing.T) {
	cases := []struct {
		pattern, s string
		want       bool
	}{
		{"foo", "foo", true},
		{"foo", "bar", false},
		{"*", "anything", true},
		{"foo*", "foobar", true},
		{"foo*", "barfoo", false},
		{"*bar", "foobar", true},
		{"*bar", "barfoo", false},
		{"foo*bar", "foo-xyz-bar", true},
		{"foo*bar", "foobar", true},
		{"foo?bar", "foo?bar", true}, // '?' is literal, not a metacharacter
		{"foo?bar", "fooXbar", false},
	}

	for _, tc := range cases {
		if got := matchGlob(tc.pattern, tc.s); got != tc.want {
			t.Errorf("matchGlob(%q,%q) = %v, want %v", tc.pattern, tc.s, got, tc.want)
		}
	}
}

func TestSelectorSemantics(t *testing.T) {
	c := newTestContext(t)
	c.selectors.Store(&SelectorConfig{CCS: "target"})

	target := c.registry.NewCostCentre("target", "M", "", false)
	other := c.registry.NewCostCentre("other", "M", "", false)

	sTarget := c.Push(c.Main(), target)
	sTargetChild := c.Push(sTarget, other)

	if !sTarget.Selected {
		t.Fatalf("node matching ccs_selector directly should be selected")
	}

	if !sTargetChild.Selected {
		t.Fatalf("descendant of a matching ancestor should be selected (ccs_selector is ancestor-inclusive)")
	}

	c2 := newTestContext(t)
	c2.selectors.Store(&SelectorConfig{CCS: "target"})

	unrelated := c2.registry.NewCostCentre("unrelated", "M", "", false)
	sUnrelated := c2.Push(c2.Main(), unrelated)

	if sUnrelated.Selected {
		t.Fatalf("node with no matching ancestor must not be selected")
	}
}

func TestSelectorAbsentMeansMatch(t *testing.T) {
	c := newTestContext(t)
	c.selectors.Store(&SelectorConfig{})

	a := c.registry.NewCostCentre("a", "M", "", false)
	sa := c.Push(c.Main(), a)

	if !sa.Selected {
		t.Fatalf("absent selectors should select everything")
	}
}
