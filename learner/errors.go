package learner

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoConvergence is returned when clusters are still being admitted after
// Config.MaxIterations iterations.
var ErrNoConvergence = errors.New("no convergence")

// DataConsistencyError reports corpus segments with no feature-table entry.
// Step 0 means the input files.
type DataConsistencyError struct {
	Step    int
	Missing []string
}

func (e *DataConsistencyError) Error() string {
	where := fmt.Sprintf("iteration %d", e.Step)
	if e.Step == 0 {
		where = "input"
	}
	return fmt.Sprintf("%s: feature table is missing segments found in the corpus: %s",
		where, strings.Join(e.Missing, " "))
}
