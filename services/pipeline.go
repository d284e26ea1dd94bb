package services

import (
	"errors"
	"io"

	"goodreads-insights/models"
	"goodreads-insights/utils"
)

// maxLoggedWarnings caps per-run warning log lines; the report keeps all.
const maxLoggedWarnings = 20

// Result is the output of one pipeline run.
type Result struct {
	Source   string
	Table    []*models.Book // derived table
	Report   *models.InsightReport
	Warnings []FieldParseWarning
}

// Pipeline runs ingest → derive → insights over one source at a time.
// Runs share no state; every run rebuilds its table from scratch.
type Pipeline struct {
	logger   *utils.Logger
	insights *InsightService
}

func NewPipeline(logger *utils.Logger, insights *InsightService) *Pipeline {
	return &Pipeline{logger: logger, insights: insights}
}

// Run ingests r and computes its report. A source that cannot be read as a
// table returns an *IngestionError naming source.
func (p *Pipeline) Run(source string, r io.Reader) (*Result, error) {
	table, warnings, err := Ingest(r)
	if err != nil {
		var ie *IngestionError
		if errors.As(err, &ie) && ie.Source == "" {
			ie.Source = source
		}
		return nil, err
	}
	p.logger.Info("[pipeline] Ingested %d records from %s", len(table), source)
	return p.RunTable(source, table, warnings), nil
}

// RunTable computes the report for an already-typed table, such as one
// loaded back from a store.
func (p *Pipeline) RunTable(source string, table []*models.Book, warnings []FieldParseWarning) *Result {
	for i, w := range warnings {
		if i == maxLoggedWarnings {
			p.logger.Warn("[pipeline] %d more field warnings not shown", len(warnings)-i)
			break
		}
		p.logger.Warn("[pipeline] %v", w)
	}

	derived := Derive(table)
	report := p.insights.Generate(derived)
	report.Source = source
	for _, w := range warnings {
		report.Warnings = append(report.Warnings, w.Error())
	}

	return &Result{Source: source, Table: derived, Report: report, Warnings: warnings}
}
