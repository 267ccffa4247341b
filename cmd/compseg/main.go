package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/ieee0824/compseg-go"
	"github.com/ieee0824/compseg-go/corpus"
	"github.com/ieee0824/compseg-go/export"
	"github.com/ieee0824/compseg-go/learner"
	"github.com/ieee0824/compseg-go/merge"
	"github.com/ieee0824/compseg-go/runlog"
)

type options struct {
	ld, feats, outdir string
	language, dataDir string
	vowels            bool
	threshold, alpha  float64
	maxIter, workers  int
	compress          string
	verbose           bool
	trace             bool

	minioEndpoint, minioBucket, minioPrefix string
	minioAccess, minioSecret                string
	minioSecure                             bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	o := &options{}
	fs := flag.NewFlagSet("compseg", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.ld, "ld", "", "learning data file (one word per line, space-separated segments; .zst/.lz4 accepted)")
	fs.StringVar(&o.feats, "feats", "", "feature file (tab-delimited)")
	fs.StringVar(&o.outdir, "outdir", "", "output directory; results go to <outdir>/simulation")
	fs.StringVar(&o.language, "language", "", "language directory under -data holding LearningData.txt and Features.txt (sets -ld, -feats, -outdir)")
	fs.StringVar(&o.dataDir, "data", "data", "root directory for -language")
	fs.BoolVar(&o.vowels, "vowels", false, "analyze vocoids instead of consonants")
	fs.Float64Var(&o.threshold, "threshold", 1.0, "minimum inseparability")
	fs.Float64Var(&o.alpha, "alpha", 0.05, "alpha level for Fisher's exact test")
	fs.IntVar(&o.maxIter, "max-iter", 100, "maximum number of iterations")
	fs.IntVar(&o.workers, "workers", 0, "statistics workers (0 = GOMAXPROCS)")
	fs.StringVar(&o.compress, "compress", "none", "compression for exported learning data: none, zstd, lz4")
	fs.BoolVar(&o.verbose, "v", false, "debug logging")
	fs.BoolVar(&o.trace, "trace", false, "record run and iteration spans in the run log")
	fs.StringVar(&o.minioEndpoint, "minio-endpoint", "", "mirror artifacts to this MinIO/S3 endpoint")
	fs.StringVar(&o.minioBucket, "minio-bucket", "compseg", "MinIO bucket")
	fs.StringVar(&o.minioPrefix, "minio-prefix", "", "MinIO key prefix (default: language or output directory name)")
	fs.StringVar(&o.minioAccess, "minio-access-key", os.Getenv("MINIO_ACCESS_KEY"), "MinIO access key")
	fs.StringVar(&o.minioSecret, "minio-secret-key", os.Getenv("MINIO_SECRET_KEY"), "MinIO secret key")
	fs.BoolVar(&o.minioSecure, "minio-secure", true, "use TLS for MinIO")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: compseg [options]")
		fmt.Fprintln(stderr, "  Finds complex segments in a learning data file.")
		fmt.Fprintln(stderr, "  Either -language, or -ld, -feats and -outdir are required.")
		fmt.Fprintln(stderr)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if o.language != "" {
		dir := filepath.Join(o.dataDir, filepath.FromSlash(o.language))
		o.ld = filepath.Join(dir, "LearningData.txt")
		o.feats = filepath.Join(dir, "Features.txt")
		o.outdir = dir
	}
	if o.ld == "" || o.feats == "" || o.outdir == "" {
		fs.Usage()
		return nil, errors.New("missing -ld, -feats or -outdir")
	}
	if o.minioPrefix == "" {
		o.minioPrefix = filepath.Base(o.outdir) + "/simulation/"
		if o.language != "" {
			o.minioPrefix = o.language + "/simulation/"
		}
	}
	return o, nil
}

func (o *options) config() learner.Config {
	cfg := learner.DefaultConfig()
	if o.vowels {
		cfg.Mode = merge.ModeVocoid
	}
	cfg.Threshold = o.threshold
	cfg.Alpha = o.alpha
	cfg.MaxIterations = o.maxIter
	cfg.Workers = o.workers
	return cfg
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	comp, err := corpus.ParseCompression(o.compress)
	if err != nil {
		return err
	}

	simDir := filepath.Join(o.outdir, "simulation")
	logFile, err := runlog.OpenRunLog(filepath.Join(simDir, export.RunLogFile))
	if err != nil {
		return fmt.Errorf("open run log: %w", err)
	}
	defer logFile.Close()

	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := runlog.New(runlog.Fanout(
		slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}),
		slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug}),
	))

	var store export.Store = export.NewLocalStore(simDir)
	if o.minioEndpoint != "" {
		client, err := export.DialMinio(ctx, o.minioEndpoint, o.minioAccess, o.minioSecret, o.minioBucket, o.minioSecure)
		if err != nil {
			return fmt.Errorf("connect MinIO: %w", err)
		}
		store = export.Mirror{store, export.NewMinioStore(client, o.minioBucket, o.minioPrefix)}
	}

	fmt.Fprintf(stderr, "Searching for complex segments in %s\n", o.ld)
	fmt.Fprintf(stderr, "Inseparability threshold: %g\nAlpha level for Fisher's exact test: %g\n", o.threshold, o.alpha)

	opts := []compseg.Option{
		compseg.WithConfig(o.config()),
		compseg.WithLogger(logger),
		compseg.WithStore(store),
		compseg.WithCompression(comp),
	}
	if o.trace {
		tp := runlog.NewTracerProvider(logger)
		defer tp.Shutdown(context.WithoutCancel(ctx))
		opts = append(opts, compseg.WithTracer(tp.Tracer("github.com/ieee0824/compseg-go/cmd/compseg")))
	}
	l := compseg.New(opts...)
	res, err := l.RunFiles(ctx, o.ld, o.feats)
	if err != nil {
		return err
	}

	segs := res.Segments()
	if len(segs) == 0 {
		fmt.Fprintln(stderr, "No complex segments found.")
		return nil
	}
	symbols := make([]string, len(segs))
	for i, s := range segs {
		symbols[i] = s.Symbol
	}
	fmt.Fprintf(stderr, "Found %d complex segments in %d iterations: %s\n", len(segs), res.Steps(), strings.Join(symbols, " "))
	fmt.Fprintf(stderr, "Results written to %s\n", simDir)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "compseg: %v\n", err)
		if compseg.IsTerminal(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
