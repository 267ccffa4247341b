package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ieee0824/compseg-go/features"
	"github.com/ieee0824/compseg-go/natclass"
)

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("natclasses", flag.ContinueOnError)
	fs.SetOutput(stderr)
	feats := fs.String("feats", "", "feature file (tab-delimited)")
	consonants := fs.Bool("consonants", false, "list [-syll] segments")
	vocoids := fs.Bool("vocoids", false, "list vocoids ([-cons], else [+syll])")
	check := fs.Bool("check", false, "report segments the features cannot tell apart")
	describe := fs.String("describe", "", "print the minimal description of these space-separated segments")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: natclasses -feats Features.txt [options]")
		fmt.Fprintln(stderr, "  Prints the natural classes of a feature file, one per line:")
		fmt.Fprintln(stderr, "  [description]<TAB>segments")
		fmt.Fprintln(stderr)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *feats == "" {
		fs.Usage()
		return errors.New("missing -feats")
	}

	t, err := features.LoadFile(*feats)
	if err != nil {
		return err
	}
	ix := natclass.New(t)

	switch {
	case *consonants:
		segs, err := natclass.Consonants(t)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, strings.Join(segs, " "))
	case *vocoids:
		segs, err := natclass.Vocoids(t)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, strings.Join(segs, " "))
	case *check:
		amb := natclass.Check(t)
		for _, a := range amb {
			fmt.Fprintln(stdout, a.String())
		}
		if len(amb) > 0 {
			return &natclass.AmbiguousTableError{Ambiguities: amb}
		}
		fmt.Fprintln(stderr, "All segments are distinguished by the feature file.")
	case *describe != "":
		for _, sym := range strings.Fields(*describe) {
			d, err := ix.Describe(sym)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "%s\t%s\n", sym, features.Bracket(d))
		}
	default:
		classes := ix.NaturalClasses()
		for _, c := range classes {
			fmt.Fprintf(stdout, "%s\t%s\n", c, strings.Join(c.Segments, " "))
		}
		fmt.Fprintf(stderr, "%d natural classes over %d segments\n", len(classes), t.Len())
	}
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "natclasses: %v\n", err)
		os.Exit(1)
	}
}
