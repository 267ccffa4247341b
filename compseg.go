// Package compseg discovers complex segments (affricates, prenasalized
// stops, labiovelars, diphthongs) in a segmented word list: adjacent pairs
// that are statistically inseparable are merged into single segments with
// a synthesized feature vector, and the process repeats until no pair
// qualifies.
package compseg

import (
	"context"
	"fmt"

	"github.com/ieee0824/compseg-go/corpus"
	"github.com/ieee0824/compseg-go/export"
	"github.com/ieee0824/compseg-go/features"
	"github.com/ieee0824/compseg-go/learner"
	"github.com/ieee0824/compseg-go/merge"
	"github.com/ieee0824/compseg-go/runlog"
	"go.opentelemetry.io/otel/trace"
)

// Learner is the top-level complex-segment learner.
type Learner struct {
	Config      learner.Config
	Logger      *runlog.Logger
	Store       export.Store // nil = no artifacts
	Compression corpus.Compression
	Tracer      trace.Tracer // nil = global otel tracer
	observers   []learner.Observer
}

// Option configures a Learner.
type Option func(*Learner)

// WithConfig replaces the whole loop configuration.
func WithConfig(cfg learner.Config) Option {
	return func(l *Learner) {
		l.Config = cfg
	}
}

// WithMode selects consonant or vocoid analysis.
func WithMode(m merge.Mode) Option {
	return func(l *Learner) {
		l.Config.Mode = m
	}
}

// WithThreshold sets the minimum inseparability for admission.
func WithThreshold(v float64) Option {
	return func(l *Learner) {
		l.Config.Threshold = v
	}
}

// WithAlpha sets the maximum p-value for admission.
func WithAlpha(v float64) Option {
	return func(l *Learner) {
		l.Config.Alpha = v
	}
}

// WithMaxIterations bounds the number of iterations.
func WithMaxIterations(n int) Option {
	return func(l *Learner) {
		l.Config.MaxIterations = n
	}
}

// WithWorkers bounds statistics parallelism (0 = GOMAXPROCS).
func WithWorkers(n int) Option {
	return func(l *Learner) {
		l.Config.Workers = n
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(lg *runlog.Logger) Option {
	return func(l *Learner) {
		l.Logger = lg
	}
}

// WithTracer sets the tracer for run and iteration spans.
func WithTracer(t trace.Tracer) Option {
	return func(l *Learner) {
		l.Tracer = t
	}
}

// WithStore enables artifact export. Earlier iteration artifacts in the
// store are removed when a run starts.
func WithStore(s export.Store) Option {
	return func(l *Learner) {
		l.Store = s
	}
}

// WithCompression compresses exported corpora.
func WithCompression(c corpus.Compression) Option {
	return func(l *Learner) {
		l.Compression = c
	}
}

// WithObserver adds an iteration observer.
func WithObserver(o learner.Observer) Option {
	return func(l *Learner) {
		l.observers = append(l.observers, o)
	}
}

// New creates a Learner with learner.DefaultConfig.
func New(opts ...Option) *Learner {
	l := &Learner{
		Config: learner.DefaultConfig(),
		Logger: runlog.Noop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// RunFiles loads a corpus and a feature table and runs the learner.
func (l *Learner) RunFiles(ctx context.Context, corpusPath, featuresPath string) (*learner.Result, error) {
	c, err := corpus.LoadFile(corpusPath)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	t, err := features.LoadFile(featuresPath)
	if err != nil {
		return nil, fmt.Errorf("load features: %w", err)
	}
	return l.Run(ctx, c, t)
}

// Run runs the learner on in-memory inputs, exporting artifacts when a
// store is configured.
func (l *Learner) Run(ctx context.Context, c *corpus.Corpus, t *features.Table) (*learner.Result, error) {
	opts := []learner.Option{learner.WithLogger(l.Logger)}
	if l.Tracer != nil {
		opts = append(opts, learner.WithTracer(l.Tracer))
	}
	for _, o := range l.observers {
		opts = append(opts, learner.WithObserver(o))
	}

	var exp *export.Exporter
	if l.Store != nil {
		exp = export.NewExporter(l.Store, export.WithCompression(l.Compression))
		if err := exp.Clean(ctx); err != nil {
			return nil, fmt.Errorf("clean artifacts: %w", err)
		}
		opts = append(opts, learner.WithObserver(exp))
	}

	res, err := learner.Run(ctx, c, t, l.Config, opts...)
	if err != nil {
		return nil, err
	}
	if exp != nil {
		if err := exp.Final(ctx, res); err != nil {
			return nil, fmt.Errorf("export final artifacts: %w", err)
		}
	}
	return res, nil
}
