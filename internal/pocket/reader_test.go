package pocket

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aktagon/pocket2omnivore/internal/importer"
)

const sampleExport = `title,url,time_added,tags,status
Go Concurrency Patterns,https://go.dev/talks/2012/concurrency.slide,1609459200,go|talks,unread
"Quoted, title",https://example.com/a,1609459300,,archive
`

func TestRead(t *testing.T) {
	rows, err := Read(strings.NewReader(sampleExport))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, importer.RawRecord{
		"title":      "Go Concurrency Patterns",
		"url":        "https://go.dev/talks/2012/concurrency.slide",
		"time_added": "1609459200",
		"tags":       "go|talks",
		"status":     "unread",
	}, rows[0])
	assert.Equal(t, "Quoted, title", rows[1]["title"])
	assert.Equal(t, "", rows[1]["tags"])
	assert.Equal(t, "archive", rows[1]["status"])
}

func TestRead_Empty(t *testing.T) {
	rows, err := Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.NotNil(t, rows)
}

func TestRead_HeaderOnly(t *testing.T) {
	rows, err := Read(strings.NewReader("title,url\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRead_BOMAndShortRows(t *testing.T) {
	input := "\ufefftitle , url,tags\nOnly title\nT,https://example.com,a|b,extra\n"

	rows, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, importer.RawRecord{"title": "Only title"}, rows[0])
	_, hasURL := rows[0]["url"]
	assert.False(t, hasURL)
	assert.Equal(t, importer.RawRecord{"title": "T", "url": "https://example.com", "tags": "a|b"}, rows[1])
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleExport), 0644))

	rows, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening export")
}
