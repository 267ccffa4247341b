// Package corpus reads, writes and rewrites segmented word lists
// (Hayes & Wilson LearningData.txt): one word per line, segments separated
// by spaces, optionally followed by tab-separated columns that are carried
// through untouched.
package corpus

import (
	"strings"
)

// Word is one corpus line.
type Word struct {
	Segments []string
	Extra    string // tab-separated tail of the line, without the leading tab
}

// Corpus is an ordered word list. Values are never modified in place.
type Corpus struct {
	Words []Word
}

// FromStrings builds a corpus from space-delimited words.
func FromStrings(lines ...string) *Corpus {
	c := &Corpus{Words: make([]Word, 0, len(lines))}
	for _, l := range lines {
		c.Words = append(c.Words, parseLine(l))
	}
	return c
}

func parseLine(line string) Word {
	word, extra, _ := strings.Cut(line, "\t")
	return Word{Segments: strings.Fields(word), Extra: strings.TrimRight(extra, "\r\n")}
}

// Len returns the number of words.
func (c *Corpus) Len() int { return len(c.Words) }

// Strings renders each word as a space-delimited line (without Extra).
func (c *Corpus) Strings() []string {
	out := make([]string, len(c.Words))
	for i, w := range c.Words {
		out[i] = strings.Join(w.Segments, " ")
	}
	return out
}

// Segments returns the distinct segment symbols in order of first appearance.
func (c *Corpus) Segments() []string {
	seen := make(map[string]bool)
	var out []string
	for _, w := range c.Words {
		for _, s := range w.Segments {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

// Count returns how often seg occurs as a whole token.
func (c *Corpus) Count(seg string) int {
	n := 0
	for _, w := range c.Words {
		for _, s := range w.Segments {
			if s == seg {
				n++
			}
		}
	}
	return n
}

// Pair is an ordered two-segment sequence to be fused into one token.
type Pair struct {
	First, Second string
}

// Symbol is the fused token: the literal concatenation of both halves.
func (p Pair) Symbol() string { return p.First + p.Second }

// Rewrite returns a new corpus where every whole-token occurrence of each
// pair is replaced by its fused symbol. Pairs are applied in the given
// order, each scanning left to right without overlap, so an earlier pair
// may consume tokens a later pair would have matched.
func (c *Corpus) Rewrite(pairs []Pair) *Corpus {
	out := &Corpus{Words: make([]Word, len(c.Words))}
	for i, w := range c.Words {
		segs := w.Segments
		for _, p := range pairs {
			segs = fuse(segs, p)
		}
		if len(pairs) == 0 {
			segs = append([]string(nil), segs...)
		}
		out.Words[i] = Word{Segments: segs, Extra: w.Extra}
	}
	return out
}

func fuse(segs []string, p Pair) []string {
	out := make([]string, 0, len(segs))
	for i := 0; i < len(segs); i++ {
		if i+1 < len(segs) && segs[i] == p.First && segs[i+1] == p.Second {
			out = append(out, p.Symbol())
			i++
			continue
		}
		out = append(out, segs[i])
	}
	return out
}
