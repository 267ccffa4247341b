package natclass

import (
	"fmt"

	"github.com/ieee0824/compseg-go/features"
)

// Contrast compares the feature sets of an ordered segment pair.
type Contrast struct {
	First, Second       string
	FirstSet, SecondSet []string
	Shared              []string // markers carried by both
	Differ              []string // markers carried by exactly one
}

// Contrast looks up both segments and splits their markers into shared
// and differing sets.
func (ix *Index) Contrast(first, second string) (Contrast, error) {
	p1, p2 := ix.table.Position(first), ix.table.Position(second)
	if p1 < 0 {
		return Contrast{}, fmt.Errorf("%w: %q", features.ErrUnknownSegment, first)
	}
	if p2 < 0 {
		return Contrast{}, fmt.Errorf("%w: %q", features.ErrUnknownSegment, second)
	}
	a, b := ix.sets[p1], ix.sets[p2]
	return Contrast{
		First:     first,
		Second:    second,
		FirstSet:  a,
		SecondSet: b,
		Shared:    intersect(a, b),
		Differ:    symmetricDifference(a, b),
	}, nil
}
