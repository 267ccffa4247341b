package stats

import (
	"context"
	"runtime"

	"github.com/ieee0824/compseg-go/corpus"
	"golang.org/x/sync/errgroup"
)

// Options tunes statistics computation.
type Options struct {
	// Workers bounds the number of goroutines used for counting and for
	// significance tests. 0 means GOMAXPROCS.
	Workers int
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Counter accumulates unigram and bigram counts restricted to an alphabet.
type Counter struct {
	alphabet map[string]bool
	unigrams map[string]int
	bigrams  map[corpus.Pair]int
}

// NewCounter creates a counter over alphabet.
func NewCounter(alphabet []string) *Counter {
	c := &Counter{
		alphabet: make(map[string]bool, len(alphabet)),
		unigrams: make(map[string]int),
		bigrams:  make(map[corpus.Pair]int),
	}
	for _, s := range alphabet {
		c.alphabet[s] = true
	}
	return c
}

// AddWord counts the alphabet segments of w and every adjacent pair of
// alphabet segments. Overlapping pairs are counted: "a a a" yields two "a a".
func (c *Counter) AddWord(w corpus.Word) {
	segs := w.Segments
	for i, s := range segs {
		if !c.alphabet[s] {
			continue
		}
		c.unigrams[s]++
		if i >= 1 && c.alphabet[segs[i-1]] {
			c.bigrams[corpus.Pair{First: segs[i-1], Second: s}]++
		}
	}
}

// Merge adds other's counts into c. Addition commutes, so shards may be
// merged in any order.
func (c *Counter) Merge(other *Counter) {
	for k, v := range other.unigrams {
		c.unigrams[k] += v
	}
	for k, v := range other.bigrams {
		c.bigrams[k] += v
	}
}

// Count tallies c over words, splitting the corpus into contiguous shards
// counted concurrently.
func Count(ctx context.Context, c *corpus.Corpus, alphabet []string, opts Options) (*Counts, error) {
	alphabet = dedupe(alphabet)
	shards := opts.workers()
	if shards > len(c.Words) {
		shards = max(1, len(c.Words))
	}
	partial := make([]*Counter, shards)
	size := (len(c.Words) + shards - 1) / shards

	g, ctx := errgroup.WithContext(ctx)
	for i := range shards {
		lo := min(i*size, len(c.Words))
		hi := min(lo+size, len(c.Words))
		g.Go(func() error {
			ctr := NewCounter(alphabet)
			for j, w := range c.Words[lo:hi] {
				if j%4096 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				ctr.AddWord(w)
			}
			partial[i] = ctr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := NewCounter(alphabet)
	for _, p := range partial {
		total.Merge(p)
	}
	return total.Counts(alphabet), nil
}

// CountBigrams returns adjacent-pair counts over alphabet × alphabet.
func CountBigrams(ctx context.Context, c *corpus.Corpus, alphabet []string, opts Options) (map[corpus.Pair]int, error) {
	counts, err := Count(ctx, c, alphabet, opts)
	if err != nil {
		return nil, err
	}
	return counts.Bigrams, nil
}

// CountUnigrams returns per-segment counts for alphabet members.
func CountUnigrams(ctx context.Context, c *corpus.Corpus, alphabet []string, opts Options) (map[string]int, error) {
	counts, err := Count(ctx, c, alphabet, opts)
	if err != nil {
		return nil, err
	}
	return counts.Unigrams, nil
}

// Counts freezes the accumulated tallies.
func (c *Counter) Counts(alphabet []string) *Counts {
	out := &Counts{
		Alphabet: append([]string(nil), alphabet...),
		Unigrams: make(map[string]int, len(c.unigrams)),
		Bigrams:  make(map[corpus.Pair]int, len(c.bigrams)),
	}
	for k, v := range c.unigrams {
		out.Unigrams[k] = v
		out.UnigramTotal += v
	}
	for k, v := range c.bigrams {
		out.Bigrams[k] = v
		out.BigramTotal += v
	}
	return out
}

func dedupe(xs []string) []string {
	seen := make(map[string]bool, len(xs))
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		if !seen[x] {
			seen[x] = true
			out = append(out, x)
		}
	}
	return out
}
