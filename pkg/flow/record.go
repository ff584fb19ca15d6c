package flow

import (
	"fmt"

	"github.com/matzehuels/stageflow/pkg/errors"
)

// StageCount is the number of pipeline stages every record spans.
const StageCount = 5

// PairCount is the number of consecutive stage pairs.
const PairCount = StageCount - 1

// ResolutionPair is the stage pair whose edges leave the "Unknown Resolution"
// input stage; only its edges are colored by phase.
const ResolutionPair = 3

const (
	// Null marks a stage with no assignment.
	Null = "NULL"
	// Unknown marks a stage whose category could not be classified.
	Unknown = "Unknown"
)

// Record is one aggregated path through the pipeline.
type Record struct {
	Stages [StageCount]string `json:"stages"`
	Phase  Phase              `json:"phase"`
	Weight float64            `json:"weight"`
}

// Stage returns the category at stage i.
func (r Record) Stage(i int) string { return r.Stages[i] }

// String renders the path as "A > B > C > D > E (phase, weight)".
func (r Record) String() string {
	return fmt.Sprintf("%s > %s > %s > %s > %s (%s, %g)",
		r.Stages[0], r.Stages[1], r.Stages[2], r.Stages[3], r.Stages[4], r.Phase, r.Weight)
}

// Validate checks the record's weight, phase, and category names.
func (r Record) Validate() error {
	if err := errors.ValidateWeight(r.Weight); err != nil {
		return err
	}
	if !r.Phase.Valid() {
		return errors.New(errors.ErrCodeInvalidRecord, "unknown phase %q", r.Phase)
	}
	for i, c := range r.Stages {
		if err := errors.ValidateCategory(c); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidRecord, err, "stage %d", i+1)
		}
	}
	return nil
}

// NewRecord builds a record from a variable-length stage slice, as decoded
// from external formats. It fails when the slice does not hold exactly
// StageCount values or when the resulting record is invalid.
func NewRecord(stages []string, phase Phase, weight float64) (Record, error) {
	if len(stages) != StageCount {
		return Record{}, errors.New(errors.ErrCodeInvalidRecord,
			"expected %d stage values, got %d", StageCount, len(stages))
	}
	r := Record{Phase: phase, Weight: weight}
	copy(r.Stages[:], stages)
	if err := r.Validate(); err != nil {
		return Record{}, err
	}
	return r, nil
}

// ValidateAll validates every record and fails on the first bad one.
func ValidateAll(records []Record) error {
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidRecord, err, "record %d", i)
		}
	}
	return nil
}

// TotalWeight sums the weights of records.
func TotalWeight(records []Record) float64 {
	var total float64
	for _, r := range records {
		total += r.Weight
	}
	return total
}
