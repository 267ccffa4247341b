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
	"github.com/ieee0824/compseg-go/learner"
	"github.com/ieee0824/compseg-go/natclass"
)

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("datacheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	ld := fs.String("ld", "", "learning data file")
	feats := fs.String("feats", "", "feature file (tab-delimited)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: datacheck -ld LearningData.txt -feats Features.txt")
		fmt.Fprintln(stderr, "  Lists corpus segments missing from the feature file and")
		fmt.Fprintln(stderr, "  feature-file segments that never occur in the corpus.")
		fmt.Fprintln(stderr)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *ld == "" || *feats == "" {
		fs.Usage()
		return errors.New("missing -ld or -feats")
	}

	c, err := corpus.LoadFile(*ld)
	if err != nil {
		return err
	}
	t, err := features.LoadFile(*feats)
	if err != nil {
		return err
	}

	missing, extra := learner.Orphans(c, t)
	fmt.Fprintf(stdout, "missing\t%s\n", strings.Join(missing, " "))
	fmt.Fprintf(stdout, "unused\t%s\n", strings.Join(extra, " "))
	for _, a := range natclass.Check(t) {
		fmt.Fprintf(stderr, "warning: %s\n", a)
	}
	fmt.Fprintf(stderr, "%d words, %d corpus segments, %d feature-file segments\n",
		c.Len(), len(c.Segments()), t.Len())
	if len(missing) > 0 {
		return &learner.DataConsistencyError{Missing: missing}
	}
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "datacheck: %v\n", err)
		os.Exit(1)
	}
}
