package models

import (
	"encoding/json"
	"fmt"
)

// FeatureCollection is a GeoJSON feature collection of administrative boundaries.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a single boundary polygon with its properties.
type Feature struct {
	Properties map[string]any `json:"properties"`
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
}

// Geometry keeps coordinates raw; their shape depends on Type.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Name returns the feature's name property under field.
// Non-string values are formatted with %v.
func (f *Feature) Name(field string) (string, bool) {
	v, ok := f.Properties[field]
	if !ok || v == nil {
		return "", false
	}

	if s, isString := v.(string); isString {
		return s, true
	}

	return fmt.Sprintf("%v", v), true
}
