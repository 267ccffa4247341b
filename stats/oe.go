package stats

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ieee0824/compseg-go/corpus"
)

// OETable holds observed and expected counts of adjacent segment pairs over
// a fixed segment list. Expected counts come from positional frequencies:
// E(a b) = N(a as first) * N(b as second) / number of pairs.
type OETable struct {
	Segments  []string
	Observed  map[corpus.Pair]int
	Expected  map[corpus.Pair]float64
	PairCount int
}

// ObservedExpected builds an OETable. When local is false, each word is first
// reduced to its members of segs, so pairs are tier-adjacent rather than
// string-adjacent. When local is true, every adjacent pair in a word counts
// toward the pair total but only pairs within segs are tabulated.
func ObservedExpected(c *corpus.Corpus, segs []string, local bool) *OETable {
	segs = dedupe(segs)
	member := make(map[string]bool, len(segs))
	for _, s := range segs {
		member[s] = true
	}

	t := &OETable{
		Segments: segs,
		Observed: make(map[corpus.Pair]int),
		Expected: make(map[corpus.Pair]float64),
	}
	firsts := make(map[string]int)
	seconds := make(map[string]int)
	for _, w := range c.Words {
		word := w.Segments
		if !local {
			word = word[:0:0]
			for _, s := range w.Segments {
				if member[s] {
					word = append(word, s)
				}
			}
		}
		if len(word) < 2 {
			continue
		}
		t.PairCount += len(word) - 1
		for i := 1; i < len(word); i++ {
			a, b := word[i-1], word[i]
			if !member[a] || !member[b] {
				continue
			}
			t.Observed[corpus.Pair{First: a, Second: b}]++
			firsts[a]++
			seconds[b]++
		}
	}
	if t.PairCount == 0 {
		return t
	}
	for _, a := range segs {
		for _, b := range segs {
			t.Expected[corpus.Pair{First: a, Second: b}] = float64(firsts[a]*seconds[b]) / float64(t.PairCount)
		}
	}
	return t
}

// Ratio returns observed/expected for p. ok is false when the expected count
// is 0, in which case the ratio is undefined.
func (t *OETable) Ratio(p corpus.Pair) (float64, bool) {
	e := t.Expected[p]
	if e == 0 {
		return 0, false
	}
	return float64(t.Observed[p]) / e, true
}

// WriteRatios writes a square table of O/E ratios, rows indexed by the first
// segment and columns by the second. Undefined cells are written as "NA".
func (t *OETable) WriteRatios(w io.Writer, precision int) error {
	return t.writeGrid(w, func(p corpus.Pair) string {
		r, ok := t.Ratio(p)
		if !ok {
			return "NA"
		}
		return strconv.FormatFloat(r, 'f', precision, 64)
	})
}

// WriteCounts writes a square table of "observed/expected" cells.
func (t *OETable) WriteCounts(w io.Writer, precision int) error {
	return t.writeGrid(w, func(p corpus.Pair) string {
		return fmt.Sprintf("%d/%s", t.Observed[p], strconv.FormatFloat(t.Expected[p], 'f', precision, 64))
	})
}

func (t *OETable) writeGrid(w io.Writer, cell func(corpus.Pair) string) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "\t"+strings.Join(t.Segments, "\t"))
	for _, a := range t.Segments {
		cells := make([]string, 0, len(t.Segments)+1)
		cells = append(cells, a)
		for _, b := range t.Segments {
			cells = append(cells, cell(corpus.Pair{First: a, Second: b}))
		}
		fmt.Fprintln(bw, strings.Join(cells, "\t"))
	}
	return bw.Flush()
}
