// Package pocket reads the CSV export produced by Pocket
package pocket

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aktagon/pocket2omnivore/internal/importer"
)

const utf8BOM = "\ufeff"

// ReadFile reads every row of a Pocket export
func ReadFile(path string) ([]importer.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening export: %w", err)
	}
	defer f.Close()

	rows, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return rows, nil
}

// Read parses CSV with a header row. Empty input yields no rows.
func Read(r io.Reader) ([]importer.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []importer.RawRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("parsing CSV header: %w", err)
	}

	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		header[i] = strings.TrimSpace(name)
	}

	rows := make([]importer.RawRecord, 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing CSV: %w", err)
		}

		row := make(importer.RawRecord, len(header))
		for i, value := range record {
			if i >= len(header) {
				break
			}
			row[header[i]] = value
		}
		rows = append(rows, row)
	}

	return rows, nil
}
