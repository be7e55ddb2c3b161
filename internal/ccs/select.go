package ccs

import "strings"

// matchGlob implements a simple shell-glob-style match: '*' is a wildcard
// for any run of characters (including none), everything else is matched
// literally, case-sensitive. path/filepath.Match is deliberately not used
// here: it also treats '?' and '[...]' as metacharacters, which would make
// cost-centre labels containing those characters fail to match themselves
// literally.
func matchGlob(pattern, s string) bool {
	parts := strings.Split(pattern, "*")
	if len(parts) == 1 {
		return pattern == s
	}

	if !strings.HasPrefix(s, parts[0]) {
		return false
	}

	s = s[len(parts[0]):]

	for i := 1; i < len(parts)-1; i++ {
		idx := strings.Index(s, parts[i])
		if idx < 0 {
			return false
		}

		s = s[idx+len(parts[i]):]
	}

	return strings.HasSuffix(s, parts[len(parts)-1])
}

// computeSelected evaluates the three orthogonal selectors (module,
// cost-centre, ancestor cost-centre) against a freshly-created node and
// returns the resulting Selected bit. An absent selector (empty string) is
// treated as "match".
func (c *Context) computeSelected(s *CostCentreStack) bool {
	sel := c.selectors.Load()
	if sel == nil {
		return false
	}

	if sel.Mod != "" && !matchGlob(sel.Mod, s.CC.Module) {
		return false
	}

	if sel.CC != "" && !matchGlob(sel.CC, s.CC.Label) {
		return false
	}

	if sel.CCS != "" {
		matched := false

		for n := s; n != nil && n.CC != nil; n = n.Prev {
			if matchGlob(sel.CCS, n.CC.Label) {
				matched = true
				break
			}
		}

		if !matched {
			return false
		}
	}

	return true
}
