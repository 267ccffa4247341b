package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/ieee0824/compseg-go/corpus"
	"github.com/ieee0824/compseg-go/features"
	"github.com/ieee0824/compseg-go/natclass"
	"github.com/ieee0824/compseg-go/stats"
)

var header = []string{"segs", "ngram", "insep", "N(C1C2)", "N(C1)", "N(C2)", "p(C1C2)"}

// consonantClasses returns the natural classes whose extension contains
// only [-syll] segments.
func consonantClasses(t *features.Table) ([]natclass.Class, error) {
	cons, err := natclass.Consonants(t)
	if err != nil {
		return nil, err
	}
	isCons := make(map[string]bool, len(cons))
	for _, s := range cons {
		isCons[s] = true
	}
	var out []natclass.Class
	for _, c := range natclass.New(t).NaturalClasses() {
		ok := true
		for _, s := range c.Segments {
			ok = ok && isCons[s]
		}
		if ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// classCounts lifts segment tallies to class tallies. A class unigram is the
// sum of its members' counts; a class bigram sums the report counts of every
// segment pair it covers. Classes overlap, so totals are over class counts.
func classCounts(classes []natclass.Class, unigrams map[string]int, rows []stats.ReportRow) *stats.Counts {
	members := make([]map[string]bool, len(classes))
	counts := &stats.Counts{
		Unigrams: make(map[string]int, len(classes)),
		Bigrams:  make(map[corpus.Pair]int),
	}
	for i, c := range classes {
		members[i] = make(map[string]bool, len(c.Segments))
		for _, s := range c.Segments {
			members[i][s] = true
			counts.Unigrams[c.Key()] += unigrams[s]
		}
		counts.Alphabet = append(counts.Alphabet, c.Key())
		counts.UnigramTotal += counts.Unigrams[c.Key()]
	}
	for _, row := range rows {
		for i, c1 := range classes {
			if !members[i][row.First] {
				continue
			}
			for j, c2 := range classes {
				if members[j][row.Second] {
					counts.Bigrams[corpus.Pair{First: c1.Key(), Second: c2.Key()}] += row.Count
					counts.BigramTotal += row.Count
				}
			}
		}
	}
	return counts
}

func writeTable(w io.Writer, classes []natclass.Class, counts *stats.Counts) (int, error) {
	byKey := make(map[string]natclass.Class, len(classes))
	for _, c := range classes {
		byKey[c.Key()] = c
	}
	type entry struct {
		pair  corpus.Pair
		insep float64
	}
	var entries []entry
	for _, a := range counts.Alphabet {
		for _, b := range counts.Alphabet {
			p := corpus.Pair{First: a, Second: b}
			if counts.Bigrams[p] == 0 {
				continue
			}
			entries = append(entries, entry{p, stats.Inseparability(counts, p)})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].insep > entries[j].insep })

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, strings.Join(header, "\t"))
	for _, e := range entries {
		n := counts.Bigrams[e.pair]
		fmt.Fprintf(bw, "[%s] [%s]\t%s %s\t%.4f\t%d\t%d\t%d\t%.3f\n",
			strings.Join(byKey[e.pair.First].Segments, "|"),
			strings.Join(byKey[e.pair.Second].Segments, "|"),
			e.pair.First, e.pair.Second, e.insep, n,
			counts.Unigrams[e.pair.First], counts.Unigrams[e.pair.Second],
			stats.Significance(n, counts.BigramTotal))
	}
	return len(entries), bw.Flush()
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("classbigrams", flag.ContinueOnError)
	fs.SetOutput(stderr)
	ld := fs.String("ld", "", "learning data file")
	feats := fs.String("feats", "", "feature file (tab-delimited)")
	insep := fs.String("insep", "", "inseparability report, e.g. simulation/iteration1/inseparability.txt")
	output := fs.String("output", "", "output file (default: stdout)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: classbigrams -ld LearningData.txt -feats Features.txt -insep inseparability.txt")
		fmt.Fprintln(stderr, "  Computes inseparability over consonantal natural-class bigrams")
		fmt.Fprintln(stderr, "  instead of segment bigrams.")
		fmt.Fprintln(stderr)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *ld == "" || *feats == "" || *insep == "" {
		fs.Usage()
		return errors.New("missing -ld, -feats or -insep")
	}

	t, err := features.LoadFile(*feats)
	if err != nil {
		return err
	}
	classes, err := consonantClasses(t)
	if err != nil {
		return err
	}
	c, err := corpus.LoadFile(*ld)
	if err != nil {
		return err
	}
	cons, _ := natclass.Consonants(t)
	unigrams, err := stats.CountUnigrams(ctx, c, cons, stats.Options{})
	if err != nil {
		return err
	}
	f, err := os.Open(*insep)
	if err != nil {
		return err
	}
	rows, err := stats.ReadReport(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("%s: %w", *insep, err)
	}

	w := stdout
	if *output != "" {
		out, err := os.Create(*output)
		if err != nil {
			return err
		}
		defer out.Close()
		w = out
	}
	n, err := writeTable(w, classes, classCounts(classes, unigrams, rows))
	if err != nil {
		return err
	}
	fmt.Fprintf(stderr, "%d consonantal natural classes, %d class bigrams\n", len(classes), n)
	return nil
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "classbigrams: %v\n", err)
		os.Exit(1)
	}
}
