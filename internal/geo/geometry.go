// Package geo decodes boundary geometry and joins boundary features to region tables.
package geo

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"consulta/internal/models"
)

// Geometry errors.
var (
	ErrUnsupportedGeometry = errors.New("unsupported geometry type")
	ErrEmptyBounds         = errors.New("no coordinates to bound")
)

// Point is a lon/lat coordinate pair.
type Point struct {
	X, Y float64
}

// Ring is a closed sequence of points.
type Ring []Point

// Polygon is an outer ring followed by optional holes.
type Polygon []Ring

// Bounds is an axis-aligned lon/lat box.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// EmptyBounds returns bounds that any Extend call will replace.
func EmptyBounds() Bounds {
	return Bounds{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
}

// Extend grows b to include p.
func (b *Bounds) Extend(p Point) {
	b.MinX = math.Min(b.MinX, p.X)
	b.MinY = math.Min(b.MinY, p.Y)
	b.MaxX = math.Max(b.MaxX, p.X)
	b.MaxY = math.Max(b.MaxY, p.Y)
}

// IsEmpty reports whether no point was added.
func (b Bounds) IsEmpty() bool {
	return b.MinX > b.MaxX || b.MinY > b.MaxY
}

// Width returns the lon extent.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the lat extent.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Polygons decodes a Polygon or MultiPolygon geometry.
func Polygons(g models.Geometry) ([]Polygon, error) {
	switch g.Type {
	case "Polygon":
		var coords [][][]float64
		if err := json.Unmarshal(g.Coordinates, &coords); err != nil {
			return nil, fmt.Errorf("failed to decode polygon: %w", err)
		}

		poly, err := toPolygon(coords)
		if err != nil {
			return nil, err
		}

		return []Polygon{poly}, nil

	case "MultiPolygon":
		var coords [][][][]float64
		if err := json.Unmarshal(g.Coordinates, &coords); err != nil {
			return nil, fmt.Errorf("failed to decode multipolygon: %w", err)
		}

		polys := make([]Polygon, 0, len(coords))

		for _, c := range coords {
			poly, err := toPolygon(c)
			if err != nil {
				return nil, err
			}

			polys = append(polys, poly)
		}

		return polys, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedGeometry, g.Type)
	}
}

func toPolygon(coords [][][]float64) (Polygon, error) {
	poly := make(Polygon, 0, len(coords))

	for _, rc := range coords {
		ring := make(Ring, 0, len(rc))

		for _, pos := range rc {
			if len(pos) < 2 {
				return nil, fmt.Errorf("position with %d values, want at least 2", len(pos))
			}

			ring = append(ring, Point{X: pos[0], Y: pos[1]})
		}

		poly = append(poly, ring)
	}

	return poly, nil
}

// Shape is one decoded boundary feature.
type Shape struct {
	Name     string
	Polygons []Polygon
}

// Shapes decodes every feature of fc, reading names from nameField.
func Shapes(fc *models.FeatureCollection, nameField string) ([]Shape, error) {
	shapes := make([]Shape, 0, len(fc.Features))

	for i := range fc.Features {
		f := &fc.Features[i]

		name, ok := f.Name(nameField)
		if !ok {
			return nil, fmt.Errorf("%w: feature %d lacks %q", ErrMissingNameProperty, i, nameField)
		}

		polys, err := Polygons(f.Geometry)
		if err != nil {
			return nil, fmt.Errorf("feature %q: %w", name, err)
		}

		shapes = append(shapes, Shape{Name: name, Polygons: polys})
	}

	return shapes, nil
}

// ShapeBounds returns the box enclosing all shapes.
func ShapeBounds(shapes []Shape) (Bounds, error) {
	b := EmptyBounds()

	for _, s := range shapes {
		for _, poly := range s.Polygons {
			for _, ring := range poly {
				for _, p := range ring {
					b.Extend(p)
				}
			}
		}
	}

	if b.IsEmpty() {
		return b, ErrEmptyBounds
	}

	return b, nil
}
