package natclass

import (
	"fmt"
	"strings"

	"github.com/ieee0824/compseg-go/features"
)

// Ambiguity is a segment that no natural class can target without also
// targeting Superset: its feature set is contained in Superset's.
type Ambiguity struct {
	Subset, Superset string
	Identical        bool // both sets are equal
}

func (a Ambiguity) String() string {
	if a.Identical {
		return fmt.Sprintf("%s has the same features as %s", a.Subset, a.Superset)
	}
	return fmt.Sprintf("%s has a subset of the features of %s", a.Subset, a.Superset)
}

// AmbiguousTableError lists segments that cannot be told apart by features.
type AmbiguousTableError struct {
	Ambiguities []Ambiguity
}

func (e *AmbiguousTableError) Error() string {
	parts := make([]string, len(e.Ambiguities))
	for i, a := range e.Ambiguities {
		parts[i] = a.String()
	}
	return "feature table does not distinguish all segments: " + strings.Join(parts, "; ")
}

// Check compares every pair of distinct segments (table order) and reports
// those where one feature set is a proper subset of the other, or both are
// identical. An empty result means every segment is uniquely addressable.
func Check(t *features.Table) []Ambiguity {
	sets := make([][]string, t.Len())
	for i, s := range t.Segments {
		sets[i], _ = t.Set(s.Symbol)
	}
	var out []Ambiguity
	for i := range sets {
		for j := i + 1; j < len(sets); j++ {
			a, b := sets[i], sets[j]
			si, sj := t.Segments[i].Symbol, t.Segments[j].Symbol
			switch {
			case len(a) == len(b) && subset(a, b):
				out = append(out, Ambiguity{Subset: si, Superset: sj, Identical: true})
			case len(a) < len(b) && subset(a, b):
				out = append(out, Ambiguity{Subset: si, Superset: sj})
			case len(b) < len(a) && subset(b, a):
				out = append(out, Ambiguity{Subset: sj, Superset: si})
			}
		}
	}
	return out
}

// Validate is Check returning an *AmbiguousTableError when problems exist.
func Validate(t *features.Table) error {
	if amb := Check(t); len(amb) > 0 {
		return &AmbiguousTableError{Ambiguities: amb}
	}
	return nil
}
