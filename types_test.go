package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aktagon/pocket2omnivore/internal/importer"
)

func TestReport_RecordAndFinish(t *testing.T) {
	r := NewReport("export.csv", true)

	r.Begin(1)
	r.Record(importer.Success{ID: "1", URL: "https://one.example"})
	r.Begin(2)
	r.Record(importer.Skipped{Title: "Gone", URL: "https://gone.example", Reason: "Dead URL: Timeout"})

	rowErr := &importer.RowError{Row: 3, URL: "not-a-url", Err: errors.New("boom")}
	r.Finish(importer.RunStatistics{Total: 2, Successful: 1, Skipped: 1}, rowErr)

	assert.Equal(t, []SkippedRow{{Row: 2, Title: "Gone", URL: "https://gone.example", Reason: "Dead URL: Timeout"}}, r.Skipped)
	require.NotNil(t, r.Failure)
	assert.Equal(t, 3, r.Failure.Row)
	assert.Equal(t, "row 3: boom", r.Failure.Error)
	assert.False(t, r.FinishedAt.Before(r.StartedAt))
}

func TestReport_FinishWithoutFailure(t *testing.T) {
	r := NewReport("export.csv", false)
	r.Finish(importer.RunStatistics{Total: 1, Successful: 1}, nil)
	assert.Nil(t, r.Failure)
}

func TestReport_Save(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "run.yaml")

	r := NewReport("export.csv", false)
	r.Finish(importer.RunStatistics{Total: 4, Successful: 3, Skipped: 1, Tagged: 2, Archived: 1, SkippedArchive: 1}, nil)
	require.NoError(t, r.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "source: export.csv")
	assert.Contains(t, content, "skipped_archive: 1")
	assert.False(t, strings.Contains(content, "failure:"))
	assert.False(t, strings.Contains(content, "currentRow"))
}
