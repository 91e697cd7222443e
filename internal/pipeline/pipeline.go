// Package pipeline runs one dataset from its input files to the rendered
// images and report.
package pipeline

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"consulta/internal/binning"
	"consulta/internal/compositor"
	"consulta/internal/config"
	"consulta/internal/formatter"
	"consulta/internal/geo"
	"consulta/internal/loader"
	"consulta/internal/logger"
	"consulta/internal/models"
	"consulta/internal/normalizer"
	"consulta/internal/render"
	"consulta/pkg/metadata"
)

// Stage names a pipeline step in errors and logs.
type Stage string

// Pipeline stages, in execution order.
const (
	StageLoad        Stage = "load"
	StageProcess     Stage = "process"
	StageBins        Stage = "bins"
	StageJoin        Stage = "join"
	StageGeometry    Stage = "geometry"
	StageRenderMap   Stage = "render_map"
	StageRenderTable Stage = "render_table"
	StageRenderBars  Stage = "render_bars"
	StageComposite   Stage = "composite"
	StageReport      Stage = "report"
)

// ErrMissingPart is returned when a composite names a part that was not rendered.
var ErrMissingPart = errors.New("composite part was not rendered")

// StageError tags an error with the dataset and stage it came from.
type StageError struct {
	Dataset string
	Stage   Stage
	Err     error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("dataset %s: %s: %v", e.Dataset, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Result summarizes a successful run.
type Result struct {
	Dataset    string
	Regions    int
	Collisions []string
	Files      []string
}

// CheckResult is the outcome of a join check.
type CheckResult struct {
	Dataset   string
	Features  int
	Regions   int
	Unmatched []string // boundary names the survey lacks
	Unused    []string // survey names no boundary uses
}

// OK reports whether every boundary feature found its region.
func (c *CheckResult) OK() bool {
	return len(c.Unmatched) == 0
}

// Pipeline renders datasets with a shared theme.
type Pipeline struct {
	renderer *render.Renderer
	log      *logger.Logger
}

// New builds the renderer for the configured theme.
func New(theme config.ThemeConfig, log *logger.Logger) (*Pipeline, error) {
	t, err := render.NewTheme(theme)
	if err != nil {
		return nil, err
	}

	r, err := render.NewRenderer(t)
	if err != nil {
		return nil, err
	}

	return &Pipeline{renderer: r, log: log}, nil
}

// inputs is a dataset after loading and tabulation.
type inputs struct {
	survey     *models.Survey
	boundaries *models.FeatureCollection
	table      *normalizer.Table
	column     normalizer.Column
}

func (p *Pipeline) prepare(d config.DatasetConfig, log *logger.Logger) (*inputs, error) {
	survey, err := loader.LoadSurvey(d.Survey)
	if err != nil {
		return nil, &StageError{d.ID, StageLoad, err}
	}

	boundaries, err := loader.LoadBoundaries(d.Boundaries)
	if err != nil {
		return nil, &StageError{d.ID, StageLoad, err}
	}

	log.Debug("Loaded inputs", "regions", len(survey.Regions), "features", len(boundaries.Features))

	names := normalizer.NewNames(d.Names.LowercaseWords, d.Names.Aliases)

	table, err := normalizer.NewProcessor(names, d.Trailing()).Process(survey)
	if err != nil {
		return nil, &StageError{d.ID, StageProcess, err}
	}

	for _, name := range table.Collisions() {
		log.Warn("Duplicate region name, keeping last record", "name", name)
	}

	column, err := table.Column(d.Metric)
	if err != nil {
		return nil, &StageError{d.ID, StageJoin, err}
	}

	return &inputs{survey: survey, boundaries: boundaries, table: table, column: column}, nil
}

// Check loads and tabulates the dataset and reports join mismatches
// without rendering anything.
func (p *Pipeline) Check(d config.DatasetConfig) (*CheckResult, error) {
	log := p.log.With("dataset", d.ID)

	in, err := p.prepare(d, log)
	if err != nil {
		return nil, err
	}

	res := &CheckResult{
		Dataset:   d.ID,
		Features:  len(in.boundaries.Features),
		Regions:   in.table.Len(),
		Unmatched: geo.Unmatched(in.boundaries, d.BoundaryNameField, in.column),
	}

	used := make(map[string]bool, len(in.boundaries.Features))
	for i := range in.boundaries.Features {
		if name, ok := in.boundaries.Features[i].Name(d.BoundaryNameField); ok {
			used[name] = true
		}
	}

	for _, name := range in.table.Names() {
		if !used[name] {
			res.Unused = append(res.Unused, name)
		}
	}

	return res, nil
}

// Run renders every configured output of the dataset.
func (p *Pipeline) Run(d config.DatasetConfig) (*Result, error) {
	log := p.log.With("dataset", d.ID)
	log.Info("Processing dataset", "survey", d.Survey, "boundaries", d.Boundaries)

	in, err := p.prepare(d, log)
	if err != nil {
		return nil, err
	}

	res := &Result{Dataset: d.ID, Regions: in.table.Len(), Collisions: in.table.Collisions()}

	bins, err := binning.Bins(d.Scale.Min, d.Scale.Max, d.Scale.Step, d.Scale.Decimals)
	if err != nil {
		return nil, &StageError{d.ID, StageBins, err}
	}

	joined, err := geo.Join(in.boundaries, d.BoundaryNameField, in.column)
	if err != nil {
		return nil, &StageError{d.ID, StageJoin, err}
	}

	shapes, err := geo.Shapes(in.boundaries, d.BoundaryNameField)
	if err != nil {
		return nil, &StageError{d.ID, StageGeometry, err}
	}

	log.Info("Joined regions to boundaries", "features", joined.Len(), "ticks", bins.Len())

	parts := make(map[string]image.Image)
	skipped := make(map[string]bool)

	mapImg, err := p.renderMap(d, in.survey, shapes, joined, bins)
	if err != nil {
		return nil, &StageError{d.ID, StageRenderMap, err}
	}

	parts[config.PartMap] = mapImg

	if err := p.save(res, d.OutputPath(d.Output.Map), mapImg); err != nil {
		return nil, &StageError{d.ID, StageRenderMap, err}
	}

	if d.Output.Table != "" {
		img, err := p.renderTable(d, in.table)
		if err == nil {
			err = p.save(res, d.OutputPath(d.Output.Table), img)
		}

		if err != nil {
			return nil, &StageError{d.ID, StageRenderTable, err}
		}

		parts[config.PartTable] = img
	}

	if d.Output.Bars != "" {
		rows := barRows(in.table)
		if len(rows) == 0 {
			log.Warn("Survey has no response distribution, skipping bars")

			skipped[config.PartBars] = true
		} else {
			img, err := p.renderer.StackedBars(d.Labels.BarsTitle, rows)
			if err == nil {
				err = p.save(res, d.OutputPath(d.Output.Bars), img)
			}

			if err != nil {
				return nil, &StageError{d.ID, StageRenderBars, err}
			}

			parts[config.PartBars] = img
		}
	}

	if c := d.Output.Composite; c.File != "" {
		if err := p.composite(res, d, parts, skipped, log); err != nil {
			return nil, &StageError{d.ID, StageComposite, err}
		}
	}

	if d.Output.Report != "" {
		if err := p.report(res, d, in); err != nil {
			return nil, &StageError{d.ID, StageReport, err}
		}
	}

	log.Info("Dataset rendered", "files", len(res.Files))

	return res, nil
}

// National returns the national summary line drawn under the map.
func National(s *models.Survey) string {
	return fmt.Sprintf("Nacional: %.2f%% (%s votos)", s.Participation, humanize.Comma(s.TotalVotes))
}

func (p *Pipeline) renderMap(d config.DatasetConfig, survey *models.Survey, shapes []geo.Shape, joined *geo.Joined, bins binning.BinSet) (*image.RGBA, error) {
	scale, err := render.Scale(d.Scale.Colorscale)
	if err != nil {
		return nil, err
	}

	return p.renderer.Choropleth(render.MapSpec{
		Shapes:        shapes,
		Values:        joined.Values,
		Scale:         scale,
		Ticks:         bins,
		Title:         d.Labels.Title,
		ColorbarTitle: d.Labels.ColorbarTitle,
		Source:        d.Labels.Source,
		Subtitle:      National(survey),
		Credit:        d.Labels.Credit,
		Min:           d.Scale.Min,
		Max:           d.Scale.Max,
	})
}

func (p *Pipeline) renderTable(d config.DatasetConfig, table *normalizer.Table) (*image.RGBA, error) {
	sorted := table.ByParticipation()

	rows := make([]render.TableRow, len(sorted))
	for i, r := range sorted {
		rows[i] = render.TableRow{Name: r.Name, Votes: r.Votes, Participation: r.Participation}
	}

	return p.renderer.Table(rows, d.Table.Columns)
}

// barRows returns the regions that carry a response distribution.
func barRows(table *normalizer.Table) []render.BarRow {
	var rows []render.BarRow

	for _, r := range table.Rows() {
		if len(r.Responses) == 0 {
			continue
		}

		shares := make([]render.Share, len(r.Responses))
		for i, s := range r.Responses {
			shares[i] = render.Share{Label: s.Label, Percentage: s.Percentage}
		}

		rows = append(rows, render.BarRow{Name: r.Name, Shares: shares})
	}

	return rows
}

// composite stacks the configured parts. A part skipped for lack of data
// drops out and the remaining part is written alone.
func (p *Pipeline) composite(res *Result, d config.DatasetConfig, parts map[string]image.Image, skipped map[string]bool, log *logger.Logger) error {
	c := d.Output.Composite

	var imgs []image.Image

	for _, name := range []string{strings.ToLower(c.Top), strings.ToLower(c.Bottom)} {
		img, ok := parts[name]

		switch {
		case ok:
			imgs = append(imgs, img)
		case skipped[name]:
			log.Warn("Composite part skipped, writing the rest alone", "part", name)
		default:
			return fmt.Errorf("%w: %s", ErrMissingPart, name)
		}
	}

	if len(imgs) == 0 {
		log.Warn("No composite parts rendered, skipping composite")
		return nil
	}

	img := imgs[0]

	if len(imgs) == 2 {
		stacked, err := compositor.Stack(imgs[0], imgs[1])
		if err != nil {
			return err
		}

		img = stacked
	}

	return p.save(res, d.OutputPath(c.File), img)
}

func (p *Pipeline) report(res *Result, d config.DatasetConfig, in *inputs) error {
	sorted := in.table.ByParticipation()

	rows := make([]formatter.ReportRow, len(sorted))
	for i, r := range sorted {
		rows[i] = formatter.ReportRow{Name: r.Name, Votes: r.Votes, Participation: r.Participation}
	}

	body := formatter.Report{
		Title:      d.Labels.Title,
		Summary:    National(in.survey),
		Rows:       rows,
		Collisions: in.table.Collisions(),
	}.Markdown()

	source, err := metadata.HashFile(d.Survey)
	if err != nil {
		return err
	}

	signed := metadata.Sign(body, metadata.Metadata{
		Dataset:    d.ID,
		Source:     source,
		Validation: true,
	})

	path := d.OutputPath(d.Output.Report)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(signed), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	res.Files = append(res.Files, path)
	p.log.Debug("Wrote report", "path", path)

	return nil
}

func (p *Pipeline) save(res *Result, path string, img image.Image) error {
	if err := compositor.WritePNG(path, img); err != nil {
		return err
	}

	res.Files = append(res.Files, path)
	p.log.Debug("Wrote image", "path", path)

	return nil
}
