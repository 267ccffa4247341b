// Package stats computes cluster statistics over a segmented corpus:
// transitional probabilities, inseparability and a significance test for
// every observed pair of alphabet segments.
package stats

import (
	"context"
	"sort"

	"github.com/ieee0824/compseg-go/corpus"
	"github.com/ieee0824/compseg-go/internal/mathutil"
	"golang.org/x/sync/errgroup"
)

// Counts holds unigram and bigram tallies restricted to an alphabet.
type Counts struct {
	Alphabet     []string
	Unigrams     map[string]int
	Bigrams      map[corpus.Pair]int
	UnigramTotal int
	BigramTotal  int
}

// Probability returns the relative frequency of p among all counted bigrams.
func (c *Counts) Probability(p corpus.Pair) float64 {
	return ratio(c.Bigrams[p], c.BigramTotal)
}

// UnigramProbability returns the relative frequency of s among alphabet
// segments.
func (c *Counts) UnigramProbability(s string) float64 {
	return ratio(c.Unigrams[s], c.UnigramTotal)
}

// ForwardTP returns P(first second) / P(first). It is 0 when either total is
// 0 or first never occurs.
func ForwardTP(c *Counts, p corpus.Pair) float64 {
	return tp(c.Probability(p), c.UnigramProbability(p.First))
}

// BackwardTP returns P(first second) / P(second).
func BackwardTP(c *Counts, p corpus.Pair) float64 {
	return tp(c.Probability(p), c.UnigramProbability(p.Second))
}

// Inseparability is the product of the forward and backward transitional
// probabilities of p.
func Inseparability(c *Counts, p corpus.Pair) float64 {
	return ForwardTP(c, p) * BackwardTP(c, p)
}

func tp(joint, marginal float64) float64 {
	if marginal == 0 {
		return 0
	}
	return joint / marginal
}

// Significance returns the one-sided Fisher exact p-value of observing
// count cluster tokens among total bigrams against a baseline of none.
// It is non-increasing in count for fixed total.
func Significance(count, total int) float64 {
	// Compute only passes a pair count and the bigram total it is part of,
	// so this guard never fires there. It is not a meaningful p-value.
	if count < 0 || total < count {
		return 1
	}
	t := mathutil.Contingency{{count, total - count}, {0, total}}
	return mathutil.FisherExact(t, mathutil.Greater)
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

// Record holds the statistics of one ordered segment pair.
type Record struct {
	First, Second  string
	Count          int
	FirstCount     int
	SecondCount    int
	Forward        float64
	Backward       float64
	Inseparability float64
	PValue         float64
}

// Pair returns the record's segment pair.
func (r Record) Pair() corpus.Pair { return corpus.Pair{First: r.First, Second: r.Second} }

// Result is the output of Compute.
type Result struct {
	Counts  *Counts
	Records []Record
}

// Compute counts the corpus over alphabet and returns one record per pair
// with a nonzero count, sorted by descending inseparability. Ties keep
// alphabet × alphabet order.
func Compute(ctx context.Context, c *corpus.Corpus, alphabet []string, opts Options) (*Result, error) {
	counts, err := Count(ctx, c, alphabet, opts)
	if err != nil {
		return nil, err
	}

	var records []Record
	for _, a := range counts.Alphabet {
		for _, b := range counts.Alphabet {
			p := corpus.Pair{First: a, Second: b}
			n := counts.Bigrams[p]
			if n == 0 {
				continue
			}
			records = append(records, Record{
				First:          a,
				Second:         b,
				Count:          n,
				FirstCount:     counts.Unigrams[a],
				SecondCount:    counts.Unigrams[b],
				Forward:        ForwardTP(counts, p),
				Backward:       BackwardTP(counts, p),
				Inseparability: Inseparability(counts, p),
			})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())
	for i := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records[i].PValue = Significance(records[i].Count, counts.BigramTotal)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Inseparability > records[j].Inseparability
	})
	return &Result{Counts: counts, Records: records}, nil
}

// Admit returns the records whose inseparability reaches threshold and whose
// p-value is at most alpha, preserving order.
func Admit(records []Record, threshold, alpha float64) []Record {
	var out []Record
	for _, r := range records {
		if r.Inseparability >= threshold && r.PValue <= alpha {
			out = append(out, r)
		}
	}
	return out
}
