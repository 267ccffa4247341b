package features

// Concept lists the accepted spellings of one phonological feature.
// Tables differ in naming ("syll" vs "syllabic"); rules refer to concepts.
type Concept []string

// Concepts referenced by alphabet partitioning and merge rules.
var (
	Syllabic       = Concept{"syll", "syllabic"}
	Consonantal    = Concept{"cons", "consonantal"}
	Sonorant       = Concept{"son", "sonorant"}
	Continuant     = Concept{"cont", "continuant"}
	Strident       = Concept{"strid", "strident"}
	DelayedRelease = Concept{"delrel", "del", "delayed_release", "delayedrelease", "del_rel"}
	Nasal          = Concept{"nas", "nasal"}
	Labial         = Concept{"lab", "labial"}
	Velar          = Concept{"vel", "velar"}
	Dorsal         = Concept{"dor", "dorsal"}
	Round          = Concept{"round", "rnd"}
	Back           = Concept{"back", "bk"}
	Low            = Concept{"low", "lo"}
	High           = Concept{"high", "hi"}
	Diphthong      = Concept{"diph", "diphthong"}
)

// Resolve returns the table's spelling of c, trying spellings in order.
func (t *Table) Resolve(c Concept) (string, bool) {
	for _, name := range c {
		if t.Has(name) {
			return name, true
		}
	}
	return "", false
}

// Matches reports whether name is one of c's spellings.
func (c Concept) Matches(name string) bool {
	for _, n := range c {
		if n == name {
			return true
		}
	}
	return false
}

// Find returns the first marker in set whose value is v and whose feature
// is a spelling of c.
func (c Concept) Find(set []string, v Value) (string, bool) {
	for _, m := range set {
		mv, name := SplitMarker(m)
		if mv == v && c.Matches(name) {
			return m, true
		}
	}
	return "", false
}
