package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ieee0824/compseg-go/corpus"
	"github.com/ieee0824/compseg-go/features"
	"github.com/ieee0824/compseg-go/natclass"
	"github.com/ieee0824/compseg-go/stats"
)

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("oecalc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	ld := fs.String("ld", "", "learning data file")
	segList := fs.String("segs", "", "space-separated segments to tabulate")
	feats := fs.String("feats", "", "feature file; with -class, selects segments by features")
	class := fs.String("class", "", "comma-separated markers, e.g. \"+cons,-son\" (requires -feats)")
	local := fs.Bool("local", false, "count string-adjacent pairs instead of tier-adjacent ones")
	counts := fs.Bool("counts", false, "print observed/expected counts instead of ratios")
	precision := fs.Int("precision", 2, "decimal places")
	output := fs.String("output", "", "output file (default: stdout)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: oecalc -ld LearningData.txt (-segs \"p t k\" | -feats Features.txt -class +cons,-son) [options]")
		fmt.Fprintln(stderr, "  Prints an observed/expected table of adjacent segment pairs.")
		fmt.Fprintln(stderr, "  Rows are the first segment, columns the second.")
		fmt.Fprintln(stderr)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *ld == "" || (*segList == "") == (*class == "") {
		fs.Usage()
		return errors.New("need -ld and exactly one of -segs or -class")
	}

	segs := strings.Fields(*segList)
	if *class != "" {
		if *feats == "" {
			return errors.New("-class requires -feats")
		}
		t, err := features.LoadFile(*feats)
		if err != nil {
			return err
		}
		markers := strings.Split(strings.Trim(*class, "[]"), ",")
		for i := range markers {
			markers[i] = strings.TrimSpace(markers[i])
		}
		segs = natclass.New(t).Extension(markers)
		if len(segs) == 0 {
			return fmt.Errorf("class [%s] selects no segments", strings.Join(markers, ","))
		}
		fmt.Fprintf(stderr, "%s: %s\n", features.Bracket(markers), strings.Join(segs, " "))
	}

	c, err := corpus.LoadFile(*ld)
	if err != nil {
		return err
	}
	oe := stats.ObservedExpected(c, segs, *local)

	w := stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if *counts {
		err = oe.WriteCounts(w, *precision)
	} else {
		err = oe.WriteRatios(w, *precision)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(stderr, "%d pairs\n", oe.PairCount)
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "oecalc: %v\n", err)
		os.Exit(1)
	}
}
