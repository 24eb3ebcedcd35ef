package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aktagon/pocket2omnivore/internal/importer"
)

// Report is written with --report after every run
type Report struct {
	Source     string                 `yaml:"source"`
	DryRun     bool                   `yaml:"dry_run"`
	StartedAt  time.Time              `yaml:"started_at"`
	FinishedAt time.Time              `yaml:"finished_at"`
	Statistics importer.RunStatistics `yaml:"statistics"`
	Skipped    []SkippedRow           `yaml:"skipped,omitempty"`
	Failure    *FailedRow             `yaml:"failure,omitempty"`

	currentRow int
}

// SkippedRow records a dead URL
type SkippedRow struct {
	Row    int    `yaml:"row"`
	Title  string `yaml:"title"`
	URL    string `yaml:"url"`
	Reason string `yaml:"reason"`
}

// FailedRow records the row that stopped the run
type FailedRow struct {
	Row    int    `yaml:"row"`
	Title  string `yaml:"title"`
	URL    string `yaml:"url"`
	Tags   string `yaml:"tags"`
	Status string `yaml:"status"`
	Error  string `yaml:"error"`
}

// NewReport starts a report for the given export file
func NewReport(source string, dryRun bool) *Report {
	return &Report{
		Source:    source,
		DryRun:    dryRun,
		StartedAt: time.Now().UTC(),
	}
}

// Begin marks the row being processed
func (r *Report) Begin(row int) {
	r.currentRow = row
}

// Record adds a row outcome
func (r *Report) Record(outcome importer.RowOutcome) {
	if s, ok := outcome.(importer.Skipped); ok {
		r.Skipped = append(r.Skipped, SkippedRow{
			Row:    r.currentRow,
			Title:  s.Title,
			URL:    s.URL,
			Reason: s.Reason,
		})
	}
}

// Finish stores the final statistics and failure, if any
func (r *Report) Finish(stats importer.RunStatistics, err error) {
	r.FinishedAt = time.Now().UTC()
	r.Statistics = stats

	var rowErr *importer.RowError
	if errors.As(err, &rowErr) {
		r.Failure = &FailedRow{
			Row:    rowErr.Row,
			Title:  rowErr.Title,
			URL:    rowErr.URL,
			Tags:   rowErr.Tags,
			Status: rowErr.Status,
			Error:  rowErr.Error(),
		}
	}
}

// Save writes the report as YAML
func (r *Report) Save(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating report directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
