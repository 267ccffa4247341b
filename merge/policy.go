package merge

import (
	"fmt"

	"github.com/ieee0824/compseg-go/features"
	"github.com/ieee0824/compseg-go/natclass"
)

// Mode selects the alphabet and merge policy of a run.
type Mode string

const (
	ModeConsonant Mode = "consonant"
	ModeVocoid    Mode = "vocoid"
)

// ParseMode parses "consonant" or "vocoid".
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeConsonant, ModeVocoid:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown mode %q (want consonant or vocoid)", s)
}

// Alphabet returns the segments of t that mode analyzes.
func (m Mode) Alphabet(t *features.Table) ([]string, error) {
	if m == ModeVocoid {
		return natclass.Vocoids(t)
	}
	return natclass.Consonants(t)
}

// Policy returns the merge policy for mode.
func (m Mode) Policy() Policy {
	if m == ModeVocoid {
		return Vocoid{}
	}
	return Consonant{}
}

// Policy derives the markers of a merged segment from the contrast of its
// halves.
type Policy interface {
	// Prepare adjusts the table before merged segments are added.
	Prepare(t *features.Table) (*features.Table, error)
	// Markers returns the sorted non-zero markers of the merged segment.
	Markers(t *features.Table, c natclass.Contrast) []string
}

// Consonant merges consonant clusters into affricates, prenasalized stops,
// complex-place stops and stops with secondary articulation.
type Consonant struct{}

func (Consonant) Prepare(t *features.Table) (*features.Table, error) { return t, nil }

func (Consonant) Markers(t *features.Table, c natclass.Contrast) []string {
	v := newVector(c.Shared)

	// Affricates: an obstruent cluster takes stop, strident and
	// delayed-release values where the halves disagree.
	if _, ok := features.Sonorant.Find(c.Shared, features.Minus); ok {
		for _, want := range []struct {
			c   features.Concept
			val features.Value
		}{
			{features.Continuant, features.Minus},
			{features.Strident, features.Plus},
			{features.DelayedRelease, features.Plus},
		} {
			if m, ok := want.c.Find(c.Differ, want.val); ok {
				v.set(m)
			}
		}
	}

	// Prenasalized stops override affrication.
	if m, ok := features.Nasal.Find(c.Differ, features.Plus); ok {
		v.set(m)
		if son, ok := t.Resolve(features.Sonorant); ok {
			v.set(features.Marker(features.Minus, son))
		}
	}

	if _, glide := features.Consonantal.Find(c.Differ, features.Minus); !glide {
		// Complex place: keep both labial and velar/dorsal.
		if m, ok := features.Labial.Find(c.Differ, features.Plus); ok {
			v.set(m)
		}
		if m, ok := features.Velar.Find(c.Differ, features.Plus); ok {
			v.set(m)
		} else if m, ok := features.Dorsal.Find(c.Differ, features.Plus); ok {
			v.set(m)
		}
		v.fill(c.Differ, c.SecondSet)
	} else {
		// Glide second: secondary articulation from the glide, everything
		// else from the consonant.
		for _, concept := range []features.Concept{features.Round, features.Back} {
			name, ok := t.Resolve(concept)
			if !ok {
				continue
			}
			if val := valueIn(c.SecondSet, name); val != features.Zero {
				v[name] = val
			}
		}
		v.fill(c.Differ, c.FirstSet)
	}
	return v.markers()
}

// Vocoid merges vowel and glide sequences into diphthongs. One half is
// dominant and supplies every value the halves disagree on.
type Vocoid struct{}

// Prepare adds a diphthong feature if the table has none: existing vocoids
// are '-', other segments '0'.
func (Vocoid) Prepare(t *features.Table) (*features.Table, error) {
	if _, ok := t.Resolve(features.Diphthong); ok {
		return t, nil
	}
	vocoids, err := natclass.Vocoids(t)
	if err != nil {
		return nil, err
	}
	isVocoid := make(map[string]bool, len(vocoids))
	for _, s := range vocoids {
		isVocoid[s] = true
	}
	return t.WithFeature(features.Diphthong[0], func(s features.Segment) features.Value {
		if isVocoid[s.Symbol] {
			return features.Minus
		}
		return features.Zero
	})
}

func (Vocoid) Markers(t *features.Table, c natclass.Contrast) []string {
	v := newVector(c.Shared)
	v.fill(c.Differ, Dominant(c))
	if diph, ok := t.Resolve(features.Diphthong); ok {
		v[diph] = features.Plus
	}
	return v.markers()
}

// Dominant returns the feature set of the half that wins a vocoid merge:
// the syllabic half of a glide-vowel pair, else the [+low] half, else the
// half that is not [+high], else the first.
func Dominant(c natclass.Contrast) []string {
	if _, ok := features.Syllabic.Find(c.Differ, features.Minus); ok {
		if _, nonsyll := features.Syllabic.Find(c.FirstSet, features.Minus); nonsyll {
			return c.SecondSet
		}
		return c.FirstSet
	}
	if m, ok := features.Low.Find(c.Differ, features.Plus); ok {
		if contains(c.SecondSet, m) && !contains(c.FirstSet, m) {
			return c.SecondSet
		}
		return c.FirstSet
	}
	if m, ok := features.High.Find(c.Differ, features.Plus); ok {
		if contains(c.FirstSet, m) {
			return c.SecondSet
		}
		return c.FirstSet
	}
	return c.FirstSet
}
