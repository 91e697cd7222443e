package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"consulta/internal/compositor"
	"consulta/internal/config"
	"consulta/internal/geo"
	"consulta/internal/loader"
	"consulta/internal/logger"
	"consulta/internal/normalizer"
	"consulta/internal/pipeline"
	"consulta/pkg/metadata"
)

var fixtures = filepath.Join("..", "fixtures")

func TestFixtures_NamesJoinBoundaries(t *testing.T) {
	survey, err := loader.LoadSurvey(filepath.Join(fixtures, "survey.json"))
	if err != nil {
		t.Fatalf("LoadSurvey failed: %v", err)
	}

	boundaries, err := loader.LoadBoundaries(filepath.Join(fixtures, "boundaries.json"))
	if err != nil {
		t.Fatalf("LoadBoundaries failed: %v", err)
	}

	names := normalizer.NewNames([]string{"de"}, map[string]string{"México": "Estado de México"})

	table, err := normalizer.NewProcessor(names, 1).Process(survey)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	column, err := table.Column(normalizer.MetricParticipation)
	if err != nil {
		t.Fatal(err)
	}

	joined, err := geo.Join(boundaries, "ADMIN_NAME", column)
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	want := &geo.Joined{
		Locations: []string{"Aguascalientes", "Ciudad de México", "Estado de México"},
		Values:    []float64{4.5, 10.25, 6.0},
	}
	if diff := cmp.Diff(want, joined); diff != "" {
		t.Errorf("Joined mismatch (-want +got):\n%s", diff)
	}

	shapes, err := geo.Shapes(boundaries, "ADMIN_NAME")
	if err != nil {
		t.Fatalf("Shapes failed: %v", err)
	}

	if len(shapes[2].Polygons) != 2 {
		t.Errorf("MultiPolygon decoded into %d polygons, want 2", len(shapes[2].Polygons))
	}
}

func TestPipeline_FixtureDataset(t *testing.T) {
	cfg, err := config.LoadConfig(filepath.Join(fixtures, "consulta.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	d := cfg.Datasets[0]
	d.Survey = filepath.Join(fixtures, "survey.json")
	d.Boundaries = filepath.Join(fixtures, "boundaries.json")
	d.Output.Dir = t.TempDir()

	p, err := pipeline.New(cfg.Theme, logger.Discard())
	if err != nil {
		t.Fatal(err)
	}

	res, err := p.Run(d)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(res.Files) != 5 {
		t.Errorf("expected 5 outputs, got %v", res.Files)
	}

	img, err := compositor.ReadPNG(d.OutputPath(d.Output.Composite.File))
	if err != nil {
		t.Fatal(err)
	}

	if got, want := img.Bounds().Dy(), cfg.Theme.MapHeight+cfg.Theme.BarsHeight; got != want {
		t.Errorf("composite height = %d, want %d", got, want)
	}

	report, err := os.ReadFile(d.OutputPath(d.Output.Report))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := metadata.Verify(string(report)); err != nil {
		t.Errorf("report does not verify: %v", err)
	}
}

func TestShippedConfig_IsValid(t *testing.T) {
	cfg, err := config.LoadConfig(filepath.Join("..", "..", "configs", "consulta.yaml"))
	if err != nil {
		t.Fatalf("configs/consulta.yaml: %v", err)
	}

	for _, id := range []string{"2021", "2022"} {
		if _, ok := cfg.Dataset(id); !ok {
			t.Errorf("dataset %s missing", id)
		}
	}
}
