package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/ieee0824/compseg-go/corpus"
	"github.com/ieee0824/compseg-go/stats"
)

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("rawcount", flag.ContinueOnError)
	fs.SetOutput(stderr)
	ld := fs.String("ld", "", "learning data file")
	workers := fs.Int("workers", 0, "counting workers (0 = GOMAXPROCS)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: rawcount -ld LearningData.txt [segments...]")
		fmt.Fprintln(stderr, "  Counts whole-token occurrences of each segment.")
		fmt.Fprintln(stderr, "  Without segments, every corpus segment is counted, most frequent first.")
		fmt.Fprintln(stderr)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *ld == "" {
		fs.Usage()
		return errors.New("missing -ld")
	}

	c, err := corpus.LoadFile(*ld)
	if err != nil {
		return err
	}
	segs := fs.Args()
	ranked := len(segs) == 0
	if ranked {
		segs = c.Segments()
	}
	counts, err := stats.CountUnigrams(ctx, c, segs, stats.Options{Workers: *workers})
	if err != nil {
		return err
	}
	if ranked {
		sort.SliceStable(segs, func(i, j int) bool { return counts[segs[i]] > counts[segs[j]] })
	}
	for _, s := range segs {
		fmt.Fprintf(stdout, "%s\t%d\n", s, counts[s])
	}
	return nil
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "rawcount: %v\n", err)
		os.Exit(1)
	}
}
