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
)

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("cvcount", flag.ContinueOnError)
	fs.SetOutput(stderr)
	ld := fs.String("ld", "", "learning data file")
	vowelList := fs.String("vowels", "", "space-separated vowel segments")
	feats := fs.String("feats", "", "feature file; vocoids are taken as vowels when -vowels is not given")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: cvcount -ld LearningData.txt (-vowels \"a i u\" | -feats Features.txt) pattern...")
		fmt.Fprintln(stderr, "  Counts overlapping matches of CV patterns such as CVC or \"C C\".")
		fmt.Fprintln(stderr, "  Patterns are regular expressions over C and V.")
		fmt.Fprintln(stderr)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *ld == "" || fs.NArg() == 0 {
		fs.Usage()
		return errors.New("need -ld and at least one pattern")
	}

	vowels := strings.Fields(*vowelList)
	if len(vowels) == 0 {
		if *feats == "" {
			return errors.New("need -vowels or -feats")
		}
		t, err := features.LoadFile(*feats)
		if err != nil {
			return err
		}
		if vowels, err = natclass.Vocoids(t); err != nil {
			return err
		}
	}

	c, err := corpus.LoadFile(*ld)
	if err != nil {
		return err
	}
	counts, err := c.CountPatterns(vowels, fs.Args())
	if err != nil {
		return err
	}
	for _, p := range fs.Args() {
		fmt.Fprintf(stdout, "%s\t%d\n", p, counts[p])
	}
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "cvcount: %v\n", err)
		os.Exit(1)
	}
}
