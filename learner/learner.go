// Package learner drives complex-segment discovery to a fixed point:
// compute cluster statistics, admit clusters, merge them into new segments,
// rewrite corpus and feature table, and repeat until nothing is admitted.
//
// Every iteration is a pure transformation of (Corpus, Table). Persistence
// is left to an Observer.
package learner

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ieee0824/compseg-go/corpus"
	"github.com/ieee0824/compseg-go/features"
	"github.com/ieee0824/compseg-go/merge"
	"github.com/ieee0824/compseg-go/natclass"
	"github.com/ieee0824/compseg-go/runlog"
	"github.com/ieee0824/compseg-go/stats"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Iteration records one pass of the loop. Corpus and Table are the pass's
// output; on the final pass they equal its input.
type Iteration struct {
	Step        int
	Alphabet    []string
	Records     []stats.Record // all observed clusters, descending inseparability
	Admitted    []stats.Record
	Segments    []merge.Segment
	Pruned      []string // table entries absent from the rewritten corpus
	Ambiguities []natclass.Ambiguity
	Input       *features.Table // table the statistics were computed on
	Corpus      *corpus.Corpus
	Table       *features.Table
}

// Merged reports whether the iteration created segments.
func (it *Iteration) Merged() bool { return len(it.Segments) > 0 }

// Result is the outcome of a run.
type Result struct {
	RunID      string
	Corpus     *corpus.Corpus
	Table      *features.Table
	Iterations []Iteration
	Converged  bool
}

// Segments returns every complex segment created, in creation order.
func (r *Result) Segments() []merge.Segment {
	var out []merge.Segment
	for _, it := range r.Iterations {
		out = append(out, it.Segments...)
	}
	return out
}

// Steps returns the number of iterations that rewrote the corpus.
func (r *Result) Steps() int {
	n := 0
	for _, it := range r.Iterations {
		if it.Merged() {
			n++
		}
	}
	return n
}

// Observer is notified after every completed iteration. A non-nil error
// aborts the run.
type Observer interface {
	OnIteration(ctx context.Context, it *Iteration) error
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, it *Iteration) error

func (f ObserverFunc) OnIteration(ctx context.Context, it *Iteration) error { return f(ctx, it) }

type options struct {
	logger    *runlog.Logger
	tracer    trace.Tracer
	runID     string
	observers []Observer
}

// Option configures Run.
type Option func(*options)

// WithLogger sets the diagnostics logger.
func WithLogger(l *runlog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTracer overrides the global otel tracer.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// WithRunID sets the run id instead of a random one.
func WithRunID(id string) Option {
	return func(o *options) { o.runID = id }
}

// WithObserver adds an iteration observer.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observers = append(o.observers, obs) }
}

// Run discovers complex segments in c given t. Inputs are not modified.
//
// Terminal failures: *natclass.ConfigurationError when the mode's alphabet
// feature is absent, *natclass.AmbiguousTableError when t does not
// distinguish its segments, *DataConsistencyError when the corpus uses
// segments t lacks, *merge.SymbolCollisionError, ErrNoConvergence and
// context errors. Ambiguities in generated tables are advisories.
func Run(ctx context.Context, c *corpus.Corpus, t *features.Table, cfg Config, opts ...Option) (*Result, error) {
	o := options{
		logger: runlog.Noop(),
		tracer: otel.Tracer("github.com/ieee0824/compseg-go/learner"),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.runID == "" {
		o.runID = uuid.New().String()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	log := o.logger.WithRun(o.runID)

	ctx, span := o.tracer.Start(ctx, "learner.Run",
		trace.WithAttributes(
			attribute.String("run_id", o.runID),
			attribute.String("mode", string(cfg.Mode)),
			attribute.Float64("threshold", cfg.Threshold),
			attribute.Float64("alpha", cfg.Alpha),
			attribute.Int("words", c.Len()),
			attribute.Int("segments", t.Len()),
		),
	)
	defer span.End()

	fail := func(step int, msg string, err error) (*Result, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, msg)
		log.LogFailure(ctx, step, err)
		return nil, err
	}

	log.LogStart(ctx, string(cfg.Mode), cfg.Threshold, cfg.Alpha, c.Len(), t.Len())

	if _, err := cfg.Mode.Alphabet(t); err != nil {
		return fail(0, "configuration", err)
	}
	if err := natclass.Validate(t); err != nil {
		return fail(0, "ambiguous feature table", err)
	}
	if missing, _ := Orphans(c, t); len(missing) > 0 {
		return fail(0, "data consistency", &DataConsistencyError{Step: 0, Missing: missing})
	}

	res := &Result{RunID: o.runID, Corpus: c, Table: t}
	merger := merge.New(cfg.Mode.Policy())
	for step := 1; step <= cfg.MaxIterations; step++ {
		it, err := iterate(ctx, o.tracer, log, step, res.Corpus, res.Table, cfg, merger)
		if err != nil {
			return fail(step, "iteration failed", err)
		}
		for _, obs := range o.observers {
			if err := obs.OnIteration(ctx, it); err != nil {
				return fail(step, "observer failed", fmt.Errorf("iteration %d: %w", step, err))
			}
		}
		res.Iterations = append(res.Iterations, *it)
		res.Corpus, res.Table = it.Corpus, it.Table
		if !it.Merged() {
			res.Converged = true
			created := make([]string, 0)
			for _, s := range res.Segments() {
				created = append(created, s.Symbol)
			}
			span.SetAttributes(
				attribute.Int("iterations", len(res.Iterations)),
				attribute.Int("complex_segments", len(created)),
			)
			log.LogConverged(ctx, res.Steps(), created)
			return res, nil
		}
	}
	return fail(cfg.MaxIterations, "no convergence",
		fmt.Errorf("%w after %d iterations", ErrNoConvergence, cfg.MaxIterations))
}

func iterate(ctx context.Context, tracer trace.Tracer, log *runlog.Logger, step int,
	c *corpus.Corpus, t *features.Table, cfg Config, merger *merge.Merger) (*Iteration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx, span := tracer.Start(ctx, "learner.Iteration",
		trace.WithAttributes(attribute.Int("step", step)))
	defer span.End()

	alphabet, err := cfg.Mode.Alphabet(t)
	if err != nil {
		return nil, err
	}
	st, err := stats.Compute(ctx, c, alphabet, stats.Options{Workers: cfg.Workers})
	if err != nil {
		return nil, fmt.Errorf("statistics: %w", err)
	}
	admitted := stats.Admit(st.Records, cfg.Threshold, cfg.Alpha)
	span.SetAttributes(
		attribute.Int("alphabet", len(alphabet)),
		attribute.Int("clusters", len(st.Records)),
		attribute.Int("admitted", len(admitted)),
	)

	it := &Iteration{
		Step:     step,
		Alphabet: alphabet,
		Records:  st.Records,
		Admitted: admitted,
		Input:    t,
		Corpus:   c,
		Table:    t,
	}
	if len(admitted) == 0 {
		log.LogIteration(ctx, step, len(st.Records), nil)
		return it, nil
	}

	pairs := make([]corpus.Pair, len(admitted))
	for i, r := range admitted {
		pairs[i] = r.Pair()
	}
	segs, err := merger.Merge(t, pairs)
	if err != nil {
		return nil, err
	}
	next, err := merger.Extend(t, segs)
	if err != nil {
		return nil, fmt.Errorf("extend feature table: %w", err)
	}
	rewritten := c.Rewrite(pairs)

	missing, extra := Orphans(rewritten, next)
	if len(missing) > 0 {
		return nil, &DataConsistencyError{Step: step, Missing: missing}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	symbols := make([]string, len(segs))
	for i, s := range segs {
		symbols[i] = s.Symbol
	}
	log.LogIteration(ctx, step, len(st.Records), symbols)

	if len(extra) > 0 {
		next = next.Without(extra...)
		log.LogAdvisory(ctx, step, "unused segments removed from feature table", extra)
	}
	amb := natclass.Check(next)
	if len(amb) > 0 {
		items := make([]string, len(amb))
		for i, a := range amb {
			items[i] = a.String()
		}
		log.LogAdvisory(ctx, step, "generated feature table does not distinguish all segments", items)
	}

	it.Segments = segs
	it.Pruned = extra
	it.Ambiguities = amb
	it.Corpus = rewritten
	it.Table = next
	return it, nil
}

// Orphans compares corpus segments with table entries. missing lists corpus
// segments absent from t in corpus order; extra lists entries of t that the
// corpus never uses, in table order.
func Orphans(c *corpus.Corpus, t *features.Table) (missing, extra []string) {
	used := make(map[string]bool)
	for _, s := range c.Segments() {
		used[s] = true
		if t.Position(s) < 0 {
			missing = append(missing, s)
		}
	}
	for _, s := range t.Symbols() {
		if !used[s] {
			extra = append(extra, s)
		}
	}
	return missing, extra
}
