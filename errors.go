package compseg

import (
	"context"
	"errors"

	"github.com/ieee0824/compseg-go/features"
	"github.com/ieee0824/compseg-go/learner"
	"github.com/ieee0824/compseg-go/merge"
	"github.com/ieee0824/compseg-go/natclass"
)

// Error taxonomy of a run.
type (
	// ConfigurationError: the feature table lacks the feature that splits
	// the alphabet for the selected mode.
	ConfigurationError = natclass.ConfigurationError
	// AmbiguousFeatureTableError: the input table does not distinguish
	// its segments.
	AmbiguousFeatureTableError = natclass.AmbiguousTableError
	// DataConsistencyError: the corpus uses segments the table lacks.
	DataConsistencyError = learner.DataConsistencyError
	// SymbolCollisionError: a merged symbol is already taken.
	SymbolCollisionError = merge.SymbolCollisionError
)

var (
	ErrNoConvergence  = learner.ErrNoConvergence
	ErrUnknownSegment = features.ErrUnknownSegment
)

// IsTerminal reports whether err is one of the run-stopping failures of
// the learner, as opposed to an I/O or usage error.
func IsTerminal(err error) bool {
	var (
		cfg       *ConfigurationError
		amb       *AmbiguousFeatureTableError
		data      *DataConsistencyError
		collision *SymbolCollisionError
	)
	switch {
	case errors.As(err, &cfg), errors.As(err, &amb), errors.As(err, &data), errors.As(err, &collision):
		return true
	case errors.Is(err, ErrNoConvergence), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return true
	}
	return false
}
