package geo

import (
	"encoding/json"
	"errors"
	"testing"

	"consulta/internal/models"
)

func geometry(typ, coords string) models.Geometry {
	return models.Geometry{Type: typ, Coordinates: json.RawMessage(coords)}
}

func TestPolygons_Polygon(t *testing.T) {
	polys, err := Polygons(geometry("Polygon", `[[[0,0],[4,0],[4,4],[0,4],[0,0]],[[1,1],[1,2],[2,2],[1,1]]]`))
	if err != nil {
		t.Fatalf("Polygons failed: %v", err)
	}

	if len(polys) != 1 {
		t.Fatalf("Expected 1 polygon, got %d", len(polys))
	}

	if len(polys[0]) != 2 {
		t.Errorf("Expected outer ring and one hole, got %d rings", len(polys[0]))
	}

	if polys[0][0][2] != (Point{X: 4, Y: 4}) {
		t.Errorf("Unexpected point: %+v", polys[0][0][2])
	}
}

func TestPolygons_MultiPolygon(t *testing.T) {
	polys, err := Polygons(geometry("MultiPolygon",
		`[[[[0,0],[1,0],[1,1],[0,0]]],[[[5,5],[6,5],[6,6],[5,5]]]]`))
	if err != nil {
		t.Fatalf("Polygons failed: %v", err)
	}

	if len(polys) != 2 {
		t.Fatalf("Expected 2 polygons, got %d", len(polys))
	}
}

func TestPolygons_Errors(t *testing.T) {
	tests := []struct {
		name string
		geom models.Geometry
	}{
		{"point", geometry("Point", `[1,2]`)},
		{"bad polygon", geometry("Polygon", `[[1,2]]`)},
		{"short position", geometry("Polygon", `[[[1]]]`)},
		{"bad multipolygon", geometry("MultiPolygon", `{}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Polygons(tt.geom); err == nil {
				t.Error("Expected error")
			}
		})
	}

	if _, err := Polygons(geometry("LineString", `[]`)); !errors.Is(err, ErrUnsupportedGeometry) {
		t.Errorf("Expected ErrUnsupportedGeometry, got %v", err)
	}
}

func TestShapesAndBounds(t *testing.T) {
	fc := &models.FeatureCollection{Features: []models.Feature{
		{Properties: map[string]any{"NOM_ENT": "Colima"},
			Geometry: geometry("Polygon", `[[[-104,19],[-103,19],[-103,18.5],[-104,19]]]`)},
		{Properties: map[string]any{"NOM_ENT": "Yucatán"},
			Geometry: geometry("MultiPolygon", `[[[[-90,21],[-87,21],[-88,20],[-90,21]]]]`)},
	}}

	shapes, err := Shapes(fc, "NOM_ENT")
	if err != nil {
		t.Fatalf("Shapes failed: %v", err)
	}

	if shapes[1].Name != "Yucatán" {
		t.Errorf("Name = %q, want Yucatán", shapes[1].Name)
	}

	b, err := ShapeBounds(shapes)
	if err != nil {
		t.Fatalf("ShapeBounds failed: %v", err)
	}

	want := Bounds{MinX: -104, MinY: 18.5, MaxX: -87, MaxY: 21}
	if b != want {
		t.Errorf("bounds = %+v, want %+v", b, want)
	}

	if _, err := Shapes(fc, "ADMIN_NAME"); !errors.Is(err, ErrMissingNameProperty) {
		t.Errorf("Expected ErrMissingNameProperty, got %v", err)
	}

	if _, err := ShapeBounds(nil); !errors.Is(err, ErrEmptyBounds) {
		t.Errorf("Expected ErrEmptyBounds, got %v", err)
	}
}
