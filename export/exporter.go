package export

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/ieee0824/compseg-go/corpus"
	"github.com/ieee0824/compseg-go/features"
	"github.com/ieee0824/compseg-go/learner"
	"github.com/ieee0824/compseg-go/natclass"
	"github.com/ieee0824/compseg-go/stats"
)

// Artifact names.
const (
	CorpusFile   = "LearningData.txt"
	FeaturesFile = "Features.txt"
	ReportFile   = "inseparability.txt"
	RunLogFile   = "simulation_report.txt"
)

// IterationDir returns the directory name of iteration step.
func IterationDir(step int) string { return fmt.Sprintf("iteration%d", step) }

// Exporter writes artifacts to a Store. It implements learner.Observer.
type Exporter struct {
	store       Store
	compression corpus.Compression
}

// ExporterOption configures an Exporter.
type ExporterOption func(*Exporter)

// WithCompression compresses corpus artifacts; the file name gains the
// codec's extension.
func WithCompression(c corpus.Compression) ExporterOption {
	return func(e *Exporter) { e.compression = c }
}

// NewExporter creates an exporter writing to s.
func NewExporter(s Store, opts ...ExporterOption) *Exporter {
	e := &Exporter{store: s}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CorpusName returns the corpus artifact name under dir.
func (e *Exporter) CorpusName(dir string) string {
	return path.Join(dir, CorpusFile+e.compression.Ext())
}

// OnIteration writes the iteration's inseparability report, and for merging
// iterations the rewritten corpus and feature table, under iterationK/.
func (e *Exporter) OnIteration(ctx context.Context, it *learner.Iteration) error {
	dir := IterationDir(it.Step)
	if len(it.Records) > 0 {
		var buf bytes.Buffer
		if err := stats.WriteReport(&buf, it.Records, natclass.New(it.Input)); err != nil {
			return fmt.Errorf("inseparability report: %w", err)
		}
		if err := e.store.Put(ctx, path.Join(dir, ReportFile), buf.Bytes()); err != nil {
			return err
		}
	}
	if !it.Merged() {
		return nil
	}
	return e.writePair(ctx, dir, it.Corpus, it.Table)
}

// Final writes the run's final corpus and feature table at the store root.
func (e *Exporter) Final(ctx context.Context, res *learner.Result) error {
	return e.writePair(ctx, "", res.Corpus, res.Table)
}

// Clean deletes artifacts of earlier runs: iteration directories and the
// final corpus and feature table. The run log is kept.
func (e *Exporter) Clean(ctx context.Context) error {
	names, err := e.store.List(ctx, "")
	if err != nil {
		return err
	}
	for _, name := range names {
		base := path.Base(name)
		stale := strings.HasPrefix(name, "iteration") ||
			(path.Dir(name) == "." && (base == FeaturesFile || strings.HasPrefix(base, CorpusFile)))
		if !stale {
			continue
		}
		if err := e.store.Delete(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) writePair(ctx context.Context, dir string, c *corpus.Corpus, t *features.Table) error {
	var cb bytes.Buffer
	if err := c.WriteCompressed(&cb, e.compression); err != nil {
		return fmt.Errorf("encode corpus: %w", err)
	}
	if err := e.store.Put(ctx, e.CorpusName(dir), cb.Bytes()); err != nil {
		return err
	}
	var fb bytes.Buffer
	if err := t.Write(&fb); err != nil {
		return fmt.Errorf("encode features: %w", err)
	}
	return e.store.Put(ctx, path.Join(dir, FeaturesFile), fb.Bytes())
}
