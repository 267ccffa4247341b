// Package natclass derives natural classes from a feature table: sets of
// segments picked out by a conjunction of signed feature values, each with
// its shortest description.
package natclass

import (
	"fmt"
	"sort"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/ieee0824/compseg-go/features"
)

// Class is a natural class: a feature description and its extension.
type Class struct {
	Features []string // sorted signed markers
	Segments []string // table order
}

// Key is the comma-joined description, e.g. "+cons,-son".
func (c Class) Key() string { return strings.Join(c.Features, ",") }

// String renders the class as "[+cons,-son]".
func (c Class) String() string { return features.Bracket(c.Features) }

// Index answers natural-class queries over one table snapshot.
type Index struct {
	table   *features.Table
	sets    [][]string
	all     *roaring.Bitmap
	bitmaps map[string]*roaring.Bitmap // marker -> segment rows
}

// New indexes t. The table must not change afterwards.
func New(t *features.Table) *Index {
	ix := &Index{
		table:   t,
		sets:    make([][]string, t.Len()),
		all:     roaring.New(),
		bitmaps: make(map[string]*roaring.Bitmap),
	}
	for i, s := range t.Segments {
		set, _ := t.Set(s.Symbol)
		ix.sets[i] = set
		ix.all.Add(uint32(i))
		for _, m := range set {
			bm, ok := ix.bitmaps[m]
			if !ok {
				bm = roaring.New()
				ix.bitmaps[m] = bm
			}
			bm.Add(uint32(i))
		}
	}
	return ix
}

// Table returns the indexed table.
func (ix *Index) Table() *features.Table { return ix.table }

func (ix *Index) extension(markers []string) *roaring.Bitmap {
	out := ix.all.Clone()
	for _, m := range markers {
		bm, ok := ix.bitmaps[m]
		if !ok {
			return roaring.New()
		}
		out.And(bm)
	}
	return out
}

func (ix *Index) symbols(bm *roaring.Bitmap) []string {
	out := make([]string, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, ix.table.Segments[it.Next()].Symbol)
	}
	return out
}

// Extension returns the segments carrying every marker, in table order.
func (ix *Index) Extension(markers []string) []string {
	return ix.symbols(ix.extension(markers))
}

// Classes returns the candidate natural classes: the distinct non-empty
// intersections of the feature sets of every pair of distinct segments,
// each with its full extension. Sorted by description.
func (ix *Index) Classes() []Class {
	n := len(ix.sets)
	if n < 2 {
		return nil
	}
	seen := make(map[string]bool)
	var out []Class
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			shared := intersect(ix.sets[i], ix.sets[j])
			if len(shared) == 0 {
				continue
			}
			key := strings.Join(shared, ",")
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, Class{Features: shared, Segments: ix.Extension(shared)})
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Key() < out[b].Key() })
	return out
}

// NaturalClasses is Minimize(Classes()).
func (ix *Index) NaturalClasses() []Class {
	return ix.Minimize(ix.Classes())
}

// Minimize replaces each class description by its shortest equivalent
// subset and keeps one class per extension. Among equally short
// descriptions the one whose features have the larger mean extension wins;
// remaining ties go to the lexicographically smallest description.
func (ix *Index) Minimize(classes []Class) []Class {
	best := make(map[string]Class)
	var order []string
	for _, c := range classes {
		target := ix.extension(c.Features)
		desc := ix.shortest(c.Features, target)
		cand := Class{Features: desc, Segments: ix.symbols(target)}
		ext := strings.Join(cand.Segments, "\x00")
		cur, ok := best[ext]
		if !ok {
			order = append(order, ext)
			best[ext] = cand
			continue
		}
		if ix.better(cand.Features, cur.Features) {
			best[ext] = cand
		}
	}
	out := make([]Class, 0, len(order))
	for _, ext := range order {
		out = append(out, best[ext])
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Key() < out[b].Key() })
	return out
}

// Describe returns the shortest description selecting exactly sym. When
// no description isolates sym (its set is contained in another segment's),
// the full feature set is returned.
func (ix *Index) Describe(sym string) ([]string, error) {
	pos := ix.table.Position(sym)
	if pos < 0 {
		return nil, fmt.Errorf("%w: %q", features.ErrUnknownSegment, sym)
	}
	target := roaring.BitmapOf(uint32(pos))
	return ix.shortest(ix.sets[pos], target), nil
}

// shortest searches subsets of feats by increasing size for one whose
// extension equals target.
func (ix *Index) shortest(feats []string, target *roaring.Bitmap) []string {
	full := append([]string(nil), feats...)
	if len(feats) <= 1 || !ix.extension(full).Equals(target) {
		return full
	}
	for size := 1; size < len(feats); size++ {
		var found []string
		combinations(len(feats), size, func(idx []int) {
			sub := make([]string, len(idx))
			for i, k := range idx {
				sub[i] = feats[k]
			}
			if !ix.extension(sub).Equals(target) {
				return
			}
			if found == nil || ix.better(sub, found) {
				found = sub
			}
		})
		if found != nil {
			return found
		}
	}
	return full
}

// better orders descriptions: shorter, then larger mean extension per
// feature, then lexicographically smaller.
func (ix *Index) better(a, b []string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	sa, sb := ix.extSum(a), ix.extSum(b)
	// same length, so comparing sums compares means
	if sa != sb {
		return sa > sb
	}
	return strings.Join(a, ",") < strings.Join(b, ",")
}

func (ix *Index) extSum(feats []string) uint64 {
	var s uint64
	for _, f := range feats {
		if bm, ok := ix.bitmaps[f]; ok {
			s += bm.GetCardinality()
		}
	}
	return s
}

// combinations calls fn with every k-subset of 0..n-1 in lexicographic order.
// The slice passed to fn is reused.
func combinations(n, k int, fn func([]int)) {
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		fn(idx)
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// intersect returns the sorted intersection of two sorted marker lists.
func intersect(a, b []string) []string {
	var out []string
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}

// symmetricDifference returns the sorted markers found in exactly one list.
func symmetricDifference(a, b []string) []string {
	var out []string
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case j >= len(b) || (i < len(a) && a[i] < b[j]):
			out = append(out, a[i])
			i++
		case i >= len(a) || b[j] < a[i]:
			out = append(out, b[j])
			j++
		default:
			i++
			j++
		}
	}
	return out
}

func subset(a, b []string) bool {
	return len(intersect(a, b)) == len(a)
}
