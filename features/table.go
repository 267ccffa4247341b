// Package features holds phonological feature tables: an ordered list of
// feature names and, for every transcribed segment, one signed value per
// feature.
package features

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Value is a signed feature value.
type Value byte

// Feature values as written in a table cell.
const (
	Plus  Value = '+'
	Minus Value = '-'
	Zero  Value = '0' // unspecified
)

// ParseValue converts a table cell into a Value.
func ParseValue(s string) (Value, error) {
	if len(s) == 1 {
		switch v := Value(s[0]); v {
		case Plus, Minus, Zero:
			return v, nil
		}
	}
	return 0, fmt.Errorf("invalid feature value %q (want \"+\", \"-\" or \"0\")", s)
}

func (v Value) String() string { return string(rune(v)) }

// Marker joins a value and a feature name into a signed marker such as "+son".
func Marker(v Value, name string) string {
	return string(rune(v)) + name
}

// SplitMarker is the inverse of Marker.
func SplitMarker(m string) (Value, string) {
	if m == "" {
		return 0, ""
	}
	return Value(m[0]), m[1:]
}

// ErrUnknownSegment is returned when a symbol is not in the table.
var ErrUnknownSegment = errors.New("unknown segment")

// Segment is one row of a feature table.
type Segment struct {
	Symbol string
	Values []Value // aligned with Table.Names
}

// Table is an immutable feature table. Derivation methods return new tables.
type Table struct {
	Names    []string
	Segments []Segment

	byName   map[string]int
	bySymbol map[string]int
}

// New builds a table, validating that every segment has one value per
// feature and that symbols are unique.
func New(names []string, segs []Segment) (*Table, error) {
	if len(names) == 0 {
		return nil, errors.New("feature table has no features")
	}
	t := &Table{
		Names:    append([]string(nil), names...),
		Segments: make([]Segment, 0, len(segs)),
		byName:   make(map[string]int, len(names)),
		bySymbol: make(map[string]int, len(segs)),
	}
	for i, n := range t.Names {
		if _, dup := t.byName[n]; dup {
			return nil, fmt.Errorf("duplicate feature %q", n)
		}
		t.byName[n] = i
	}
	for _, s := range segs {
		if s.Symbol == "" {
			return nil, errors.New("segment with empty symbol")
		}
		if len(s.Values) != len(names) {
			return nil, fmt.Errorf("segment %q: %d values for %d features", s.Symbol, len(s.Values), len(names))
		}
		if _, dup := t.bySymbol[s.Symbol]; dup {
			return nil, fmt.Errorf("duplicate segment %q", s.Symbol)
		}
		t.bySymbol[s.Symbol] = len(t.Segments)
		t.Segments = append(t.Segments, Segment{Symbol: s.Symbol, Values: append([]Value(nil), s.Values...)})
	}
	return t, nil
}

// Len returns the number of segments.
func (t *Table) Len() int { return len(t.Segments) }

// Symbols returns segment symbols in table order.
func (t *Table) Symbols() []string {
	out := make([]string, len(t.Segments))
	for i, s := range t.Segments {
		out[i] = s.Symbol
	}
	return out
}

// Has reports whether the table defines feature name.
func (t *Table) Has(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// Index returns the column of feature name, or -1.
func (t *Table) Index(name string) int {
	if i, ok := t.byName[name]; ok {
		return i
	}
	return -1
}

// Position returns the row of symbol, or -1.
func (t *Table) Position(symbol string) int {
	if i, ok := t.bySymbol[symbol]; ok {
		return i
	}
	return -1
}

// Lookup returns the segment for symbol.
func (t *Table) Lookup(symbol string) (Segment, bool) {
	i, ok := t.bySymbol[symbol]
	if !ok {
		return Segment{}, false
	}
	return t.Segments[i], true
}

// Value returns the value of feature name on symbol. Unknown pairs are Zero.
func (t *Table) Value(symbol, name string) Value {
	i, ok := t.bySymbol[symbol]
	j, ok2 := t.byName[name]
	if !ok || !ok2 {
		return Zero
	}
	return t.Segments[i].Values[j]
}

// Set returns the sorted signed markers of symbol, skipping unspecified values.
func (t *Table) Set(symbol string) ([]string, error) {
	s, ok := t.Lookup(symbol)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSegment, symbol)
	}
	return t.markers(s), nil
}

func (t *Table) markers(s Segment) []string {
	out := make([]string, 0, len(s.Values))
	for j, v := range s.Values {
		if v != Zero {
			out = append(out, Marker(v, t.Names[j]))
		}
	}
	sort.Strings(out)
	return out
}

// FromMarkers builds a full segment vector from signed markers. Features
// not mentioned are Zero; markers naming unknown features are an error.
func (t *Table) FromMarkers(symbol string, markers []string) (Segment, error) {
	vals := make([]Value, len(t.Names))
	for i := range vals {
		vals[i] = Zero
	}
	for _, m := range markers {
		v, name := SplitMarker(m)
		j, ok := t.byName[name]
		if !ok {
			return Segment{}, fmt.Errorf("segment %q: unknown feature %q", symbol, name)
		}
		if v != Plus && v != Minus {
			continue
		}
		vals[j] = v
	}
	return Segment{Symbol: symbol, Values: vals}, nil
}

// WithSegments returns a copy of t with segs appended.
func (t *Table) WithSegments(segs ...Segment) (*Table, error) {
	all := make([]Segment, 0, len(t.Segments)+len(segs))
	all = append(all, t.Segments...)
	all = append(all, segs...)
	return New(t.Names, all)
}

// WithFeature returns a copy of t with a new trailing feature whose value
// on each existing segment is chosen by fill.
func (t *Table) WithFeature(name string, fill func(Segment) Value) (*Table, error) {
	names := append(append([]string(nil), t.Names...), name)
	segs := make([]Segment, len(t.Segments))
	for i, s := range t.Segments {
		vals := append(append([]Value(nil), s.Values...), fill(s))
		segs[i] = Segment{Symbol: s.Symbol, Values: vals}
	}
	return New(names, segs)
}

// Without returns a copy of t minus the given symbols.
func (t *Table) Without(symbols ...string) *Table {
	drop := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		drop[s] = true
	}
	segs := make([]Segment, 0, len(t.Segments))
	for _, s := range t.Segments {
		if !drop[s.Symbol] {
			segs = append(segs, s)
		}
	}
	out, _ := New(t.Names, segs)
	return out
}

// Bracket renders markers as "[+a,-b]".
func Bracket(markers []string) string {
	return "[" + strings.Join(markers, ",") + "]"
}
