package corpus

import (
	"fmt"
	"regexp"
	"strings"
)

// CVString maps a word onto a string of 'V' (segment in vowels) and 'C'.
func CVString(w Word, vowels map[string]bool) string {
	var sb strings.Builder
	for _, s := range w.Segments {
		if vowels[s] {
			sb.WriteByte('V')
		} else {
			sb.WriteByte('C')
		}
	}
	return sb.String()
}

// CountPatterns counts overlapping matches of each CV pattern (a regular
// expression over 'C' and 'V'; spaces are ignored, so "C V C" equals "CVC")
// across the corpus. A match may start at every position of a word.
func (c *Corpus) CountPatterns(vowels []string, patterns []string) (map[string]int, error) {
	vset := make(map[string]bool, len(vowels))
	for _, v := range vowels {
		vset[v] = true
	}
	res := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		re, err := regexp.Compile("^(?:" + strings.ReplaceAll(p, " ", "") + ")")
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", p, err)
		}
		res[i] = re
	}

	counts := make(map[string]int, len(patterns))
	for _, p := range patterns {
		counts[p] = 0
	}
	for _, w := range c.Words {
		cv := CVString(w, vset)
		for i, re := range res {
			for start := 0; start < len(cv); start++ {
				if loc := re.FindStringIndex(cv[start:]); loc != nil && loc[1] > 0 {
					counts[patterns[i]]++
				}
			}
		}
	}
	return counts, nil
}
