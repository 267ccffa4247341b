package stats

import (
	"bytes"
	"context"
	"math"
	"strings"
	"testing"

	"github.com/ieee0824/compseg-go/corpus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func repeat(n int, lines ...string) *corpus.Corpus {
	var all []string
	for range n {
		all = append(all, lines...)
	}
	return corpus.FromStrings(all...)
}

func TestCountOverlapping(t *testing.T) {
	c := corpus.FromStrings("a a a", "b a")
	counts, err := Count(context.Background(), c, []string{"a", "b"}, Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, counts.Bigrams[corpus.Pair{First: "a", Second: "a"}])
	assert.Equal(t, 1, counts.Bigrams[corpus.Pair{First: "b", Second: "a"}])
	assert.Equal(t, 4, counts.Unigrams["a"])
	assert.Equal(t, 1, counts.Unigrams["b"])
	assert.Equal(t, 3, counts.BigramTotal)
	assert.Equal(t, 5, counts.UnigramTotal)
}

func TestCountIgnoresNonAlphabet(t *testing.T) {
	c := corpus.FromStrings("p a t a", "k p a")
	bigrams, err := CountBigrams(context.Background(), c, []string{"p", "t", "k"}, Options{})
	require.NoError(t, err)
	assert.Equal(t, map[corpus.Pair]int{{First: "k", Second: "p"}: 1}, bigrams)

	unigrams, err := CountUnigrams(context.Background(), c, []string{"p", "t", "k"}, Options{})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"p": 2, "t": 1, "k": 1}, unigrams)
}

func TestCountShardInvariant(t *testing.T) {
	c := repeat(37, "p t a k", "k p a", "t t p", "a p k t")
	alphabet := []string{"p", "t", "k"}

	one, err := Count(context.Background(), c, alphabet, Options{Workers: 1})
	require.NoError(t, err)
	for _, w := range []int{2, 3, 8, 500} {
		many, err := Count(context.Background(), c, alphabet, Options{Workers: w})
		require.NoError(t, err)
		assert.Equal(t, one, many, "workers=%d", w)
	}
}

func TestCountCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Count(ctx, corpus.FromStrings("p t"), []string{"p", "t"}, Options{})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = Compute(ctx, corpus.FromStrings("p t"), []string{"p", "t"}, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestComputeSingleCluster(t *testing.T) {
	c := corpus.FromStrings("p a t a", "k p a")
	res, err := Compute(context.Background(), c, []string{"p", "t", "k"}, Options{})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)

	r := res.Records[0]
	assert.Equal(t, "k", r.First)
	assert.Equal(t, "p", r.Second)
	assert.Equal(t, 1, r.Count)
	assert.Equal(t, 1, r.FirstCount)
	assert.Equal(t, 2, r.SecondCount)
	assert.InDelta(t, 4.0, r.Forward, 1e-12)
	assert.InDelta(t, 2.0, r.Backward, 1e-12)
	assert.InDelta(t, 8.0, r.Inseparability, 1e-12)
	assert.InDelta(t, 0.5, r.PValue, 1e-12)

	assert.Empty(t, Admit(res.Records, 1.0, 0.05))
	assert.Len(t, Admit(res.Records, 1.0, 1.0), 1)
}

func TestComputeRepeatedCorpusAdmits(t *testing.T) {
	c := repeat(5, "p a t a", "k p a")
	res, err := Compute(context.Background(), c, []string{"p", "t", "k"}, Options{Workers: 2})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)

	r := res.Records[0]
	assert.InDelta(t, 8.0, r.Inseparability, 1e-12)
	assert.InDelta(t, 1.0/252, r.PValue, 1e-12)

	admitted := Admit(res.Records, 1.0, 0.05)
	require.Len(t, admitted, 1)
	assert.Equal(t, corpus.Pair{First: "k", Second: "p"}, admitted[0].Pair())
}

func TestComputeOrdering(t *testing.T) {
	c := corpus.FromStrings("p t", "k t", "t k", "t k")
	res, err := Compute(context.Background(), c, []string{"p", "t", "k"}, Options{})
	require.NoError(t, err)

	var got []string
	for _, r := range res.Records {
		got = append(got, r.Pair().First+" "+r.Pair().Second)
	}
	assert.Equal(t, []string{"t k", "p t", "k t"}, got)
	for i := 1; i < len(res.Records); i++ {
		assert.GreaterOrEqual(t, res.Records[i-1].Inseparability, res.Records[i].Inseparability)
	}
}

func TestComputeTiesKeepAlphabetOrder(t *testing.T) {
	c := corpus.FromStrings("k t", "p t")
	res, err := Compute(context.Background(), c, []string{"p", "t", "k"}, Options{})
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Equal(t, res.Records[0].Inseparability, res.Records[1].Inseparability)
	assert.Equal(t, "p", res.Records[0].First)
	assert.Equal(t, "k", res.Records[1].First)
}

func TestInseparabilityZeroTotals(t *testing.T) {
	empty, err := Count(context.Background(), corpus.FromStrings(), []string{"p", "t"}, Options{})
	require.NoError(t, err)
	p := corpus.Pair{First: "p", Second: "t"}

	for _, v := range []float64{ForwardTP(empty, p), BackwardTP(empty, p), Inseparability(empty, p)} {
		assert.False(t, math.IsNaN(v))
		assert.Zero(t, v)
	}

	// Unigrams but no bigrams.
	single, err := Count(context.Background(), corpus.FromStrings("p", "t"), []string{"p", "t"}, Options{})
	require.NoError(t, err)
	assert.Zero(t, single.BigramTotal)
	assert.Zero(t, Inseparability(single, p))

	res, err := Compute(context.Background(), corpus.FromStrings("a a"), []string{"p"}, Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Records)
}

func TestSignificanceMonotone(t *testing.T) {
	for _, total := range []int{1, 5, 20, 120} {
		prev := math.Inf(1)
		for count := 0; count <= total; count++ {
			p := Significance(count, total)
			assert.False(t, math.IsNaN(p))
			assert.LessOrEqual(t, p, prev+1e-12, "total=%d count=%d", total, count)
			prev = p
		}
	}
	assert.Equal(t, 1.0, Significance(0, 10))
	assert.Equal(t, 1.0, Significance(3, 2))
	assert.Equal(t, 1.0, Significance(-1, 5))
}

func TestComputeCountsWithinTotal(t *testing.T) {
	c := corpus.FromStrings("p t k", "k k k p", "t p", "p", "a p t a")
	res, err := Compute(context.Background(), c, []string{"p", "t", "k"}, Options{Workers: 3})
	require.NoError(t, err)
	require.NotEmpty(t, res.Records)
	for _, r := range res.Records {
		assert.Positive(t, r.Count)
		assert.LessOrEqual(t, r.Count, res.Counts.BigramTotal)
		assert.Equal(t, Significance(r.Count, res.Counts.BigramTotal), r.PValue)
		assert.Less(t, r.PValue, 1.0)
	}
}

func TestAdmitGates(t *testing.T) {
	records := []Record{
		{First: "a", Second: "b", Inseparability: 3, PValue: 0.01},
		{First: "c", Second: "d", Inseparability: 3, PValue: 0.2},
		{First: "e", Second: "f", Inseparability: 0.5, PValue: 0.001},
		{First: "g", Second: "h", Inseparability: 1, PValue: 0.05},
	}
	got := Admit(records, 1.0, 0.05)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].First)
	assert.Equal(t, "g", got[1].First)
}

type fakeDescriber map[string][]string

func (f fakeDescriber) Describe(sym string) ([]string, error) { return f[sym], nil }

func TestReportRoundTrip(t *testing.T) {
	records := []Record{
		{First: "k", Second: "p", Count: 5, FirstCount: 5, SecondCount: 10, Inseparability: 8, PValue: 1.0 / 252},
		{First: "t", Second: "s", Count: 2, FirstCount: 7, SecondCount: 3, Inseparability: 0.123456, PValue: 0.56789},
	}
	d := fakeDescriber{
		"k": {"+dorsal", "-cont"},
		"p": {"+labial", "-cont"},
		"t": {"-cont"},
		"s": {"+cont"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, records, d))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ngram\tinsep\tN(C1C2)\tN(C1)\tN(C2)\tp(C1C2)\tclass(C1)\tclass(C2)", lines[0])
	assert.Equal(t, "k p\t8.00\t5\t5\t10\t0.004\t[+dorsal,-cont]\t[+labial,-cont]", lines[1])
	assert.Equal(t, "t s\t0.12\t2\t7\t3\t0.568\t[-cont]\t[+cont]", lines[2])

	rows, err := ReadReport(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, ReportRow{
		First: "k", Second: "p",
		Inseparability: 8, Count: 5, FirstCount: 5, SecondCount: 10, PValue: 0.004,
		FirstClass: []string{"+dorsal", "-cont"}, SecondClass: []string{"+labial", "-cont"},
	}, rows[0])
	assert.Equal(t, 0.12, rows[1].Inseparability)
}

func TestReportWithoutDescriber(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, []Record{{First: "a", Second: "b", Count: 1}}, nil))
	assert.Contains(t, buf.String(), "a b\t0.00\t1\t0\t0\t0.000\t[]\t[]\n")

	rows, err := ReadReport(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].FirstClass)
}

func TestReadReportLegacyColumns(t *testing.T) {
	in := "ngram\tinsep\tN(C1C2)\tN(C1)\tN(C2)\tp(C1C2)\nt s\t1.5\t3\t4\t5\t0.01\n"
	rows, err := ReadReport(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 3, rows[0].Count)
}

func TestReadReportErrors(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"columns", "a b\t1\t2\n", "line 1: expected 6 or 8 columns"},
		{"ngram", "ab\t1\t1\t1\t1\t0.1\n", "line 1: malformed ngram"},
		{"count", "ngram\tinsep\tN(C1C2)\tN(C1)\tN(C2)\tp(C1C2)\na b\t1\tx\t1\t1\t0.1\n", "line 2: N(C1C2)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadReport(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestObservedExpectedNonlocal(t *testing.T) {
	c := corpus.FromStrings("p a t a", "t a p a")
	oe := ObservedExpected(c, []string{"p", "t"}, false)

	assert.Equal(t, 2, oe.PairCount)
	pt := corpus.Pair{First: "p", Second: "t"}
	pp := corpus.Pair{First: "p", Second: "p"}
	assert.Equal(t, 1, oe.Observed[pt])
	assert.InDelta(t, 0.5, oe.Expected[pt], 1e-12)

	r, ok := oe.Ratio(pt)
	assert.True(t, ok)
	assert.InDelta(t, 2.0, r, 1e-12)
	r, ok = oe.Ratio(pp)
	assert.True(t, ok)
	assert.Zero(t, r)

	var buf bytes.Buffer
	require.NoError(t, oe.WriteRatios(&buf, 2))
	assert.Equal(t, "\tp\tt\np\t0.00\t2.00\nt\t2.00\t0.00\n", buf.String())

	buf.Reset()
	require.NoError(t, oe.WriteCounts(&buf, 1))
	assert.Equal(t, "\tp\tt\np\t0/0.5\t1/0.5\nt\t1/0.5\t0/0.5\n", buf.String())
}

func TestObservedExpectedLocal(t *testing.T) {
	c := corpus.FromStrings("p a t a", "t a p a")
	oe := ObservedExpected(c, []string{"p", "t"}, true)

	assert.Equal(t, 6, oe.PairCount)
	_, ok := oe.Ratio(corpus.Pair{First: "p", Second: "t"})
	assert.False(t, ok)

	var buf bytes.Buffer
	require.NoError(t, oe.WriteRatios(&buf, 2))
	assert.Equal(t, "\tp\tt\np\tNA\tNA\nt\tNA\tNA\n", buf.String())
}
