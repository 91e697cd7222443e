package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"consulta/internal/compositor"
	"consulta/internal/config"
	"consulta/pkg/metadata"
)

var fixtures = filepath.Join("..", "..", "test", "fixtures")

// fixtureConfig writes a copy of the fixture configuration whose inputs
// point at the fixtures and whose outputs land in a temp directory.
func fixtureConfig(t *testing.T, mutate func(d *config.DatasetConfig)) (string, config.DatasetConfig) {
	t.Helper()

	cfg, err := config.LoadConfig(filepath.Join(fixtures, "consulta.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	d := &cfg.Datasets[0]
	d.Survey = filepath.Join(fixtures, "survey.json")
	d.Boundaries = filepath.Join(fixtures, "boundaries.json")
	d.Output.Dir = t.TempDir()

	if mutate != nil {
		mutate(d)
	}

	path := filepath.Join(t.TempDir(), "consulta.yaml")
	if err := cfg.SaveConfig(path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	return path, *d
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer

	logLevel, verifySource = "", ""

	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()

	return buf.String(), err
}

func TestRenderCommand(t *testing.T) {
	cfgPath, d := fixtureConfig(t, nil)

	out, err := execute(t, "render", "--config", cfgPath)
	if err != nil {
		t.Fatalf("render failed: %v\n%s", err, out)
	}

	if !strings.Contains(out, "fixture: 3 regions") {
		t.Errorf("unexpected output:\n%s", out)
	}

	for _, f := range []string{"map.png", "table.png", "bars.png", "composite.png", "report.md"} {
		if _, err := os.Stat(d.OutputPath(f)); err != nil {
			t.Errorf("%s not written: %v", f, err)
		}
	}

	out, err = execute(t, "verify", d.OutputPath("report.md"), "--source", d.Survey)
	if err != nil {
		t.Fatalf("verify failed: %v\n%s", err, out)
	}

	if !strings.Contains(out, "dataset fixture") {
		t.Errorf("unexpected verify output:\n%s", out)
	}
}

func TestRootCommand_RendersEnabledDatasets(t *testing.T) {
	cfgPath, d := fixtureConfig(t, nil)

	out, err := execute(t, "--config", cfgPath)
	if err != nil {
		t.Fatalf("consulta failed: %v\n%s", err, out)
	}

	if !strings.Contains(out, "fixture: 3 regions") {
		t.Errorf("unexpected output:\n%s", out)
	}

	if _, err := os.Stat(d.OutputPath("map.png")); err != nil {
		t.Errorf("map not written: %v", err)
	}
}

func TestLogLevelFlag(t *testing.T) {
	cfgPath, _ := fixtureConfig(t, nil)

	if out, err := execute(t, "check", "--config", cfgPath, "--log-level", "debug"); err != nil {
		t.Fatalf("check with --log-level debug failed: %v\n%s", err, out)
	}

	if _, err := execute(t, "check", "--config", cfgPath, "--log-level", "verbose"); !errors.Is(err, config.ErrInvalidLogLevel) {
		t.Errorf("error = %v, want ErrInvalidLogLevel", err)
	}
}

func TestRenderCommand_UnknownDataset(t *testing.T) {
	cfgPath, _ := fixtureConfig(t, nil)

	if _, err := execute(t, "render", "2018", "--config", cfgPath); err == nil {
		t.Fatal("expected error for unknown dataset")
	}
}

func TestCheckCommand(t *testing.T) {
	cfgPath, _ := fixtureConfig(t, nil)

	out, err := execute(t, "check", "--config", cfgPath)
	if err != nil {
		t.Fatalf("check failed: %v\n%s", err, out)
	}

	if !strings.Contains(out, "3 features matched 3 regions") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestCheckCommand_Mismatch(t *testing.T) {
	cfgPath, _ := fixtureConfig(t, func(d *config.DatasetConfig) {
		d.Names.Aliases = nil
	})

	out, err := execute(t, "check", "fixture", "--config", cfgPath)
	if !errors.Is(err, errJoinMismatch) {
		t.Fatalf("error = %v, want errJoinMismatch", err)
	}

	if !strings.Contains(out, "Estado de México") || !strings.Contains(out, "survey regions without boundary: México") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestCombineCommand(t *testing.T) {
	cfgPath, d := fixtureConfig(t, func(d *config.DatasetConfig) {
		d.Output.Composite = config.CompositeConfig{}
	})

	if out, err := execute(t, "render", "--config", cfgPath); err != nil {
		t.Fatalf("render failed: %v\n%s", err, out)
	}

	dst := filepath.Join(t.TempDir(), "stacked.png")

	if out, err := execute(t, "combine", d.OutputPath("map.png"), d.OutputPath("table.png"), dst); err != nil {
		t.Fatalf("combine failed: %v\n%s", err, out)
	}

	img, err := compositor.ReadPNG(dst)
	if err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{}
	cfg.ApplyDefaults()

	if got, want := img.Bounds().Dy(), cfg.Theme.MapHeight+cfg.Theme.TableHeight; got != want {
		t.Errorf("height = %d, want %d", got, want)
	}

	if _, err := execute(t, "combine", d.OutputPath("map.png"), dst); err == nil {
		t.Error("combine with two arguments should fail")
	}
}

func TestVerifyCommand_Tampered(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	signed := metadata.Sign("| Entidad |\n| --- |\n| Colima |", metadata.Metadata{Dataset: "2022"})

	if err := os.WriteFile(path, []byte(strings.Replace(signed, "Colima", "Sonora", 1)), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "verify", path); !errors.Is(err, metadata.ErrHashMismatch) {
		t.Errorf("error = %v, want ErrHashMismatch", err)
	}
}
