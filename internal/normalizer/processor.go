// Package normalizer turns raw survey documents into tables keyed by boundary names.
package normalizer

import (
	"fmt"

	"consulta/internal/models"
)

// Processor validates survey regions and tabulates them.
type Processor struct {
	validator   *Validator
	transformer *Transformer
	trailing    int
}

// NewProcessor creates a processor. trailing is the number of aggregate
// entries at the end of the region list that have no boundary.
func NewProcessor(names *Names, trailing int) *Processor {
	return &Processor{
		validator:   NewValidator(),
		transformer: NewTransformer(names),
		trailing:    trailing,
	}
}

// Process drops the trailing aggregate entries, validates the rest and
// returns the tabulated regions.
func (p *Processor) Process(survey *models.Survey) (*Table, error) {
	if survey == nil {
		return nil, ErrNilSurvey
	}

	regions, err := p.Mappable(survey)
	if err != nil {
		return nil, err
	}

	// 1. Validate the input data
	if err := p.validator.Validate(survey, regions); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// 2. Normalize names and tabulate
	return p.transformer.Tabulate(regions), nil
}

// Mappable returns the region records that correspond to a boundary.
func (p *Processor) Mappable(survey *models.Survey) ([]models.RegionRecord, error) {
	if p.trailing < 0 {
		return nil, ErrNegativeTrailingCount
	}

	n := len(survey.Regions) - p.trailing
	if n <= 0 {
		return nil, ErrNoMappableRegions
	}

	return survey.Regions[:n], nil
}
