package match

import "strings"

// NameMatch reports whether two person names plausibly belong to the same
// person. Multi-word names carry enough signal for substring containment
// ("JD Bruce" vs "JD Bruce Smith"); a single-word name does not, and only
// matches by exact equality. The first-word shortcut requires both names to
// be multi-word and the shared first word to be longer than two characters,
// which keeps initials like "JD" from matching unrelated names.
func NameMatch(a, b string) bool {
	a = normalizeName(a)
	b = normalizeName(b)
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}

	aWords := strings.Fields(a)
	bWords := strings.Fields(b)
	if len(aWords) < 2 || len(bWords) < 2 {
		// Single-word names match only exactly; "Jenn" is not
		// "Jenn Kenning" and "Ed" is not "Fred".
		return false
	}

	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}

	// Same given name, e.g. "Jon D. Jones" vs "Jon Jones".
	if aWords[0] == bWords[0] && len(aWords[0]) > 2 {
		return true
	}

	return false
}

// normalizeName lowercases and collapses whitespace for comparison.
func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(name))), " ")
}
