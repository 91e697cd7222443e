package geo

import (
	"errors"
	"fmt"

	"consulta/internal/models"
)

// Join errors.
var (
	ErrRegionNotFound      = errors.New("region not found in table")
	ErrMissingNameProperty = errors.New("feature has no name property")
)

// Lookup resolves a region name to the value drawn on the map.
type Lookup interface {
	Value(name string) (float64, bool)
}

// Joined holds the locations and values handed to the renderer, aligned
// with the boundary feature order.
type Joined struct {
	Locations []string
	Values    []float64
}

// Len returns the number of joined features.
func (j *Joined) Len() int {
	return len(j.Locations)
}

// Join walks the features in stored order and looks each name up in values.
// Any miss aborts the join; no partial result is returned.
func Join(fc *models.FeatureCollection, nameField string, values Lookup) (*Joined, error) {
	joined := &Joined{
		Locations: make([]string, 0, len(fc.Features)),
		Values:    make([]float64, 0, len(fc.Features)),
	}

	for i := range fc.Features {
		name, ok := fc.Features[i].Name(nameField)
		if !ok {
			return nil, fmt.Errorf("%w: feature %d lacks %q", ErrMissingNameProperty, i, nameField)
		}

		v, ok := values.Value(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrRegionNotFound, name)
		}

		joined.Locations = append(joined.Locations, name)
		joined.Values = append(joined.Values, v)
	}

	return joined, nil
}

// Unmatched lists every feature name that values cannot resolve, in
// feature order. Features without a name property are reported as "#<index>".
func Unmatched(fc *models.FeatureCollection, nameField string, values Lookup) []string {
	var missing []string

	for i := range fc.Features {
		name, ok := fc.Features[i].Name(nameField)
		if !ok {
			missing = append(missing, fmt.Sprintf("#%d", i))
			continue
		}

		if _, ok := values.Value(name); !ok {
			missing = append(missing, name)
		}
	}

	return missing
}

// LookupFunc adapts a function to Lookup.
type LookupFunc func(name string) (float64, bool)

// Value calls f.
func (f LookupFunc) Value(name string) (float64, bool) {
	return f(name)
}
