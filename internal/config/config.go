// Package config provides configuration management for the consulta pipeline.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"consulta/internal/binning"
)

// Configuration validation errors.
var (
	ErrNoDatasets          = errors.New("at least one dataset is required")
	ErrNoEnabledDatasets   = errors.New("at least one dataset must be enabled")
	ErrDatasetMissingID    = errors.New("dataset id is required")
	ErrDuplicateDatasetID  = errors.New("dataset id must be unique")
	ErrMissingSurvey       = errors.New("survey path is required")
	ErrMissingBoundaries   = errors.New("boundaries path is required")
	ErrMissingNameField    = errors.New("boundary_name_field is required")
	ErrNegativeTrailing    = errors.New("trailing_aggregates must be non-negative")
	ErrInvalidMetric       = errors.New("metric must be 'participation' or 'votes'")
	ErrInvalidScaleStep    = errors.New("scale.step must be positive")
	ErrInvalidScaleRange   = errors.New("scale.min and scale.max must be finite with min not above max")
	ErrTooManyTicks        = errors.New("scale range holds too many steps")
	ErrInvalidDecimals     = errors.New("scale.decimals must be between 0 and 6")
	ErrMissingMapOutput    = errors.New("output.map is required")
	ErrInvalidComposite    = errors.New("output.composite parts must name configured outputs (map, table, bars)")
	ErrInvalidTableColumns = errors.New("table.columns must be at least 1")
	ErrInvalidSize         = errors.New("theme sizes must be positive")
	ErrInvalidColor        = errors.New("theme color is not a valid hex color")
	ErrInvalidLogLevel     = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat    = errors.New("logging.format must be 'text' or 'json'")
)

// Output part names usable in a composite.
const (
	PartMap   = "map"
	PartTable = "table"
	PartBars  = "bars"
)

// Config represents the complete pipeline configuration.
type Config struct {
	Logging  LoggingConfig   `yaml:"logging"`
	Theme    ThemeConfig     `yaml:"theme"`
	Datasets []DatasetConfig `yaml:"datasets"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ThemeConfig holds canvas sizes and colors shared by every dataset.
type ThemeConfig struct {
	Width       int    `yaml:"width"`
	MapHeight   int    `yaml:"map_height"`
	TableHeight int    `yaml:"table_height"`
	BarsHeight  int    `yaml:"bars_height"`
	Paper       string `yaml:"paper"`
	Ocean       string `yaml:"ocean"`
	Text        string `yaml:"text"`
	Border      string `yaml:"border"`
	HeaderFill  string `yaml:"header_fill"`
	CellFill    string `yaml:"cell_fill"`
}

// DatasetConfig describes one survey year and how to draw it.
type DatasetConfig struct {
	ID                 string       `yaml:"id"`
	Survey             string       `yaml:"survey"`
	Boundaries         string       `yaml:"boundaries"`
	BoundaryNameField  string       `yaml:"boundary_name_field"`
	Metric             string       `yaml:"metric"`
	TrailingAggregates *int         `yaml:"trailing_aggregates"`
	Names              NamesConfig  `yaml:"names"`
	Scale              ScaleConfig  `yaml:"scale"`
	Labels             LabelsConfig `yaml:"labels"`
	Table              TableConfig  `yaml:"table"`
	Output             OutputConfig `yaml:"output"`
	Enabled            bool         `yaml:"enabled"`
}

// NamesConfig controls region name normalization.
type NamesConfig struct {
	Aliases        map[string]string `yaml:"aliases"`
	LowercaseWords []string          `yaml:"lowercase_words"`
}

// ScaleConfig is the color scale range and legend tick spacing.
type ScaleConfig struct {
	Colorscale string  `yaml:"colorscale"`
	Min        float64 `yaml:"min"`
	Max        float64 `yaml:"max"`
	Step       float64 `yaml:"step"`
	Decimals   int     `yaml:"decimals"`
}

// LabelsConfig holds the texts drawn around the map.
type LabelsConfig struct {
	Title         string `yaml:"title"`
	ColorbarTitle string `yaml:"colorbar_title"`
	Source        string `yaml:"source"`
	Credit        string `yaml:"credit"`
	BarsTitle     string `yaml:"bars_title"`
}

// TableConfig controls the ranking table image.
type TableConfig struct {
	Columns int `yaml:"columns"`
}

// OutputConfig names the files produced for a dataset.
type OutputConfig struct {
	Dir       string          `yaml:"dir"`
	Map       string          `yaml:"map"`
	Table     string          `yaml:"table"`
	Bars      string          `yaml:"bars"`
	Report    string          `yaml:"report"`
	Composite CompositeConfig `yaml:"composite"`
}

// CompositeConfig stacks two rendered parts into one file.
type CompositeConfig struct {
	File   string `yaml:"file"`
	Top    string `yaml:"top"`
	Bottom string `yaml:"bottom"`
}

// LoadConfig loads configuration from YAML file.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.ApplyDefaults()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyDefaults fills unset values with the stock look of the charts.
func (c *Config) ApplyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}

	c.Theme.applyDefaults()

	for i := range c.Datasets {
		c.Datasets[i].applyDefaults()
	}
}

func (t *ThemeConfig) applyDefaults() {
	setInt := func(v *int, d int) {
		if *v == 0 {
			*v = d
		}
	}
	setStr := func(v *string, d string) {
		if *v == "" {
			*v = d
		}
	}

	setInt(&t.Width, 1280)
	setInt(&t.MapHeight, 720)
	setInt(&t.TableHeight, 570)
	setInt(&t.BarsHeight, 720)
	setStr(&t.Paper, "#334756")
	setStr(&t.Ocean, "#082032")
	setStr(&t.Text, "#FFFFFF")
	setStr(&t.Border, "#FFFFFF")
	setStr(&t.HeaderFill, "#ff5722")
	setStr(&t.CellFill, "#082032")
}

func (d *DatasetConfig) applyDefaults() {
	if d.Metric == "" {
		d.Metric = "participation"
	}

	if d.TrailingAggregates == nil {
		one := 1
		d.TrailingAggregates = &one
	}

	if d.Names.LowercaseWords == nil {
		d.Names.LowercaseWords = []string{"de"}
	}

	if d.Scale.Colorscale == "" {
		d.Scale.Colorscale = "portland"
	}

	if d.Table.Columns == 0 {
		d.Table.Columns = 2
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.Datasets) == 0 {
		return ErrNoDatasets
	}

	seen := make(map[string]bool, len(c.Datasets))
	enabledCount := 0

	for i := range c.Datasets {
		d := &c.Datasets[i]

		if d.ID == "" {
			return fmt.Errorf("%w: datasets[%d]", ErrDatasetMissingID, i)
		}

		if seen[d.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateDatasetID, d.ID)
		}

		seen[d.ID] = true

		if err := d.Validate(); err != nil {
			return fmt.Errorf("dataset %s: %w", d.ID, err)
		}

		if d.Enabled {
			enabledCount++
		}
	}

	if enabledCount == 0 {
		return ErrNoEnabledDatasets
	}

	if err := c.Theme.Validate(); err != nil {
		return err
	}

	// Validate logging config
	if !ValidLogLevel(c.Logging.Level) {
		return ErrInvalidLogLevel
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}

	return nil
}

// Validate checks sizes and colors.
func (t *ThemeConfig) Validate() error {
	if t.Width <= 0 || t.MapHeight <= 0 || t.TableHeight <= 0 || t.BarsHeight <= 0 {
		return ErrInvalidSize
	}

	colors := map[string]string{
		"paper":       t.Paper,
		"ocean":       t.Ocean,
		"text":        t.Text,
		"border":      t.Border,
		"header_fill": t.HeaderFill,
		"cell_fill":   t.CellFill,
	}

	for name, value := range colors {
		if _, err := colorful.Hex(value); err != nil {
			return fmt.Errorf("%w: theme.%s = %q", ErrInvalidColor, name, value)
		}
	}

	return nil
}

// Validate checks a single dataset.
func (d *DatasetConfig) Validate() error {
	if d.Survey == "" {
		return ErrMissingSurvey
	}

	if d.Boundaries == "" {
		return ErrMissingBoundaries
	}

	if d.BoundaryNameField == "" {
		return ErrMissingNameField
	}

	if d.TrailingAggregates != nil && *d.TrailingAggregates < 0 {
		return ErrNegativeTrailing
	}

	if d.Metric != "participation" && d.Metric != "votes" {
		return ErrInvalidMetric
	}

	if !(d.Scale.Step > 0) || math.IsInf(d.Scale.Step, 0) {
		return ErrInvalidScaleStep
	}

	if !isFinite(d.Scale.Min) || !isFinite(d.Scale.Max) || d.Scale.Min > d.Scale.Max {
		return ErrInvalidScaleRange
	}

	if d.Scale.Decimals < 0 || d.Scale.Decimals > 6 {
		return ErrInvalidDecimals
	}

	if _, err := binning.Bins(d.Scale.Min, d.Scale.Max, d.Scale.Step, d.Scale.Decimals); err != nil {
		return fmt.Errorf("%w: %w", ErrTooManyTicks, err)
	}

	if d.Table.Columns < 1 {
		return ErrInvalidTableColumns
	}

	if d.Output.Map == "" {
		return ErrMissingMapOutput
	}

	if comp := d.Output.Composite; comp.File != "" {
		if d.PartFile(comp.Top) == "" || d.PartFile(comp.Bottom) == "" {
			return fmt.Errorf("%w: top %q, bottom %q", ErrInvalidComposite, comp.Top, comp.Bottom)
		}
	}

	return nil
}

// ValidLogLevel reports whether level is a supported logging level.
func ValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Trailing returns the number of aggregate entries dropped from the survey.
func (d *DatasetConfig) Trailing() int {
	if d.TrailingAggregates == nil {
		return 1
	}

	return *d.TrailingAggregates
}

// PartFile returns the configured file name of a rendered part, or "".
func (d *DatasetConfig) PartFile(part string) string {
	switch strings.ToLower(part) {
	case PartMap:
		return d.Output.Map
	case PartTable:
		return d.Output.Table
	case PartBars:
		return d.Output.Bars
	default:
		return ""
	}
}

// OutputPath joins name onto the output directory. An empty name yields "".
func (d *DatasetConfig) OutputPath(name string) string {
	if name == "" {
		return ""
	}

	return filepath.Join(d.Output.Dir, name)
}

// EnabledDatasets returns only enabled datasets.
func (c *Config) EnabledDatasets() []DatasetConfig {
	var enabled []DatasetConfig

	for _, d := range c.Datasets {
		if d.Enabled {
			enabled = append(enabled, d)
		}
	}

	return enabled
}

// Dataset returns the dataset with the given id, enabled or not.
func (c *Config) Dataset(id string) (DatasetConfig, bool) {
	for _, d := range c.Datasets {
		if d.ID == id {
			return d, true
		}
	}

	return DatasetConfig{}, false
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Datasets: %d, Enabled: %d, Canvas: %dx%d}",
		len(c.Datasets),
		len(c.EnabledDatasets()),
		c.Theme.Width,
		c.Theme.MapHeight,
	)
}
