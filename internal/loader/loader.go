// Package loader reads survey results and boundary files from disk.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"consulta/internal/models"
)

// Loader errors.
var (
	ErrNoRegions  = errors.New("survey contains no regions")
	ErrNoFeatures = errors.New("boundary file contains no features")
)

// LoadSurvey reads and decodes a survey JSON document.
func LoadSurvey(path string) (*models.Survey, error) {
	var survey models.Survey
	if err := decodeFile(path, &survey); err != nil {
		return nil, err
	}

	if len(survey.Regions) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoRegions, path)
	}

	return &survey, nil
}

// LoadBoundaries reads and decodes a GeoJSON feature collection.
func LoadBoundaries(path string) (*models.FeatureCollection, error) {
	var fc models.FeatureCollection
	if err := decodeFile(path, &fc); err != nil {
		return nil, err
	}

	if len(fc.Features) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFeatures, path)
	}

	return &fc, nil
}

func decodeFile(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return nil
}
