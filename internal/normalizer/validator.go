package normalizer

import (
	"errors"
	"fmt"
	"math"

	"consulta/internal/models"
)

// Validation errors.
var (
	ErrNilSurvey             = errors.New("survey is nil")
	ErrNoMappableRegions     = errors.New("survey contains no mappable regions")
	ErrRegionMissingName     = errors.New("region missing name")
	ErrParticipationRange    = errors.New("participation outside 0-100")
	ErrNegativeVotes         = errors.New("negative vote total")
	ErrResponseMissingLabel  = errors.New("response option missing label")
	ErrResponsePercentRange  = errors.New("response percentage outside 0-100")
	ErrNegativeTrailingCount = errors.New("trailing exclusion count is negative")
)

// Validator checks survey records before they are tabulated.
type Validator struct{}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks the national totals and the given region records.
func (v *Validator) Validate(survey *models.Survey, regions []models.RegionRecord) error {
	if survey == nil {
		return ErrNilSurvey
	}

	if !inPercentRange(survey.Participation) {
		return fmt.Errorf("%w: national %.4f", ErrParticipationRange, survey.Participation)
	}

	if survey.TotalVotes < 0 {
		return fmt.Errorf("%w: national", ErrNegativeVotes)
	}

	if len(regions) == 0 {
		return ErrNoMappableRegions
	}

	for i, r := range regions {
		if r.RawName == "" {
			return fmt.Errorf("%w at index %d", ErrRegionMissingName, i)
		}

		if !inPercentRange(r.Participation) {
			return fmt.Errorf("%w: %s (%.4f)", ErrParticipationRange, r.RawName, r.Participation)
		}

		if r.TotalVotes < 0 {
			return fmt.Errorf("%w: %s", ErrNegativeVotes, r.RawName)
		}

		for j, resp := range r.Responses {
			if resp.Label == "" {
				return fmt.Errorf("%w: %s option %d", ErrResponseMissingLabel, r.RawName, j)
			}

			if !inPercentRange(resp.Percentage) {
				return fmt.Errorf("%w: %s %q", ErrResponsePercentRange, r.RawName, resp.Label)
			}
		}
	}

	return nil
}

// inPercentRange reports whether v is a number in [0, 100].
func inPercentRange(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 100
}
