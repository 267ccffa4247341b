// Package merge synthesizes complex segments from admitted clusters.
package merge

import (
	"fmt"
	"strings"

	"github.com/ieee0824/compseg-go/corpus"
	"github.com/ieee0824/compseg-go/features"
	"github.com/ieee0824/compseg-go/natclass"
)

// Segment is a complex segment derived from an adjacent pair.
type Segment struct {
	Symbol        string
	First, Second string
	Markers       []string // sorted non-zero markers
}

// Pair returns the cluster the segment replaces.
func (s Segment) Pair() corpus.Pair { return corpus.Pair{First: s.First, Second: s.Second} }

// SymbolCollisionError reports a merged symbol that is already taken, either
// by a table segment or by another cluster in the same batch.
type SymbolCollisionError struct {
	Symbol   string
	Pairs    []corpus.Pair // clusters producing Symbol
	Existing bool          // Symbol is already in the feature table
}

func (e *SymbolCollisionError) Error() string {
	var ps []string
	for _, p := range e.Pairs {
		ps = append(ps, fmt.Sprintf("%q", p.First+" "+p.Second))
	}
	if e.Existing {
		return fmt.Sprintf("merged symbol %q from %s already exists in the feature table", e.Symbol, strings.Join(ps, ", "))
	}
	return fmt.Sprintf("merged symbol %q produced by %s", e.Symbol, strings.Join(ps, " and "))
}

// Merger applies a Policy to batches of clusters.
type Merger struct {
	policy Policy
}

// New creates a merger using p.
func New(p Policy) *Merger {
	return &Merger{policy: p}
}

// Merge derives one complex segment per pair, in the given order, from the
// feature sets in t.
func (m *Merger) Merge(t *features.Table, pairs []corpus.Pair) ([]Segment, error) {
	t, err := m.policy.Prepare(t)
	if err != nil {
		return nil, err
	}
	ix := natclass.New(t)
	seen := make(map[string]corpus.Pair, len(pairs))
	out := make([]Segment, 0, len(pairs))
	for _, p := range pairs {
		sym := p.Symbol()
		if t.Position(sym) >= 0 {
			return nil, &SymbolCollisionError{Symbol: sym, Pairs: []corpus.Pair{p}, Existing: true}
		}
		if prev, ok := seen[sym]; ok {
			return nil, &SymbolCollisionError{Symbol: sym, Pairs: []corpus.Pair{prev, p}}
		}
		seen[sym] = p

		c, err := ix.Contrast(p.First, p.Second)
		if err != nil {
			return nil, fmt.Errorf("merge %s %s: %w", p.First, p.Second, err)
		}
		out = append(out, Segment{
			Symbol:  sym,
			First:   p.First,
			Second:  p.Second,
			Markers: m.policy.Markers(t, c),
		})
	}
	return out, nil
}

// Extend returns t prepared by the policy with segs appended, each padded
// to the full feature set with '0'.
func (m *Merger) Extend(t *features.Table, segs []Segment) (*features.Table, error) {
	t, err := m.policy.Prepare(t)
	if err != nil {
		return nil, err
	}
	rows := make([]features.Segment, 0, len(segs))
	for _, s := range segs {
		row, err := t.FromMarkers(s.Symbol, s.Markers)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return t.WithSegments(rows...)
}
