package mathutil

import "math"

// Contingency is a 2x2 table of counts, row-major: [[a, b], [c, d]].
type Contingency [2][2]int

// Row returns the sum of row i.
func (t Contingency) Row(i int) int { return t[i][0] + t[i][1] }

// Col returns the sum of column j.
func (t Contingency) Col(j int) int { return t[0][j] + t[1][j] }

// Total returns the sum of all four cells.
func (t Contingency) Total() int { return t.Row(0) + t.Row(1) }

// Alternative selects the tail of an exact test.
type Alternative int

const (
	// TwoSided sums every table at most as likely as the observed one.
	TwoSided Alternative = iota
	// Greater tests whether the top-left cell is larger than expected.
	Greater
	// Less tests whether the top-left cell is smaller than expected.
	Less
)

// relErr matches the tolerance used when comparing table probabilities
// in the two-sided test, so ties are not lost to rounding.
const relErr = 1 + 1e-7

// HypergeomLogPMF returns log P(X = x) where X counts successes among
// draws items taken from a population of total items holding succ successes.
func HypergeomLogPMF(x, succ, draws, total int) float64 {
	if x < 0 || x > succ || x > draws || draws-x > total-succ {
		return LogZero
	}
	return LogChoose(succ, x) + LogChoose(total-succ, draws-x) - LogChoose(total, draws)
}

// FisherExact returns the p-value of Fisher's exact test for t.
// Negative cells are invalid and yield NaN; a degenerate table
// (a single attainable configuration) yields 1.
func FisherExact(t Contingency, alt Alternative) float64 {
	for i := range 2 {
		for j := range 2 {
			if t[i][j] < 0 {
				return math.NaN()
			}
		}
	}
	n := t.Total()
	r1, c1 := t.Row(0), t.Col(0)
	lo := max(0, c1-(n-r1))
	hi := min(r1, c1)
	if n == 0 || lo == hi {
		return 1
	}
	a := t[0][0]
	logP := func(x int) float64 { return HypergeomLogPMF(x, r1, c1, n) }

	acc := LogZero
	switch alt {
	case Greater:
		for x := a; x <= hi; x++ {
			acc = LogAdd(acc, logP(x))
		}
	case Less:
		for x := lo; x <= a; x++ {
			acc = LogAdd(acc, logP(x))
		}
	default:
		obs := logP(a) + math.Log(relErr)
		for x := lo; x <= hi; x++ {
			if lp := logP(x); lp <= obs {
				acc = LogAdd(acc, lp)
			}
		}
	}
	return math.Min(1, Exp(acc))
}
