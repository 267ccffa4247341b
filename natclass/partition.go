package natclass

import (
	"fmt"
	"strings"

	"github.com/ieee0824/compseg-go/features"
)

// ConfigurationError reports that the table lacks a feature required to
// split the alphabet.
type ConfigurationError struct {
	Want     []features.Concept
	Features []string // what the table has
}

func (e *ConfigurationError) Error() string {
	var wants []string
	for _, c := range e.Want {
		wants = append(wants, strings.Join(c, "/"))
	}
	return fmt.Sprintf("feature table needs a %s feature; features are [%s]",
		strings.Join(wants, " or "), strings.Join(e.Features, ","))
}

// Partition returns, in table order, the segments whose value for concept c
// is v.
func Partition(t *features.Table, c features.Concept, v features.Value) ([]string, error) {
	name, ok := t.Resolve(c)
	if !ok {
		return nil, &ConfigurationError{Want: []features.Concept{c}, Features: t.Names}
	}
	var out []string
	for _, s := range t.Segments {
		if t.Value(s.Symbol, name) == v {
			out = append(out, s.Symbol)
		}
	}
	return out, nil
}

// Consonants returns the [-syllabic] segments.
func Consonants(t *features.Table) ([]string, error) {
	return Partition(t, features.Syllabic, features.Minus)
}

// Vocoids returns vowels and glides: the [-consonantal] segments, or the
// [+syllabic] ones when the table has no consonantal feature.
func Vocoids(t *features.Table) ([]string, error) {
	if _, ok := t.Resolve(features.Consonantal); ok {
		return Partition(t, features.Consonantal, features.Minus)
	}
	if _, ok := t.Resolve(features.Syllabic); ok {
		return Partition(t, features.Syllabic, features.Plus)
	}
	return nil, &ConfigurationError{
		Want:     []features.Concept{features.Consonantal, features.Syllabic},
		Features: t.Names,
	}
}
