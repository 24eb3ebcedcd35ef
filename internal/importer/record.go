package importer

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	// ErrEmptyURL is returned for rows without a URL
	ErrEmptyURL = errors.New("URL is empty")
	// ErrInvalidURLFormat is returned for rows whose URL is not absolute
	ErrInvalidURLFormat = errors.New("invalid URL format")
)

// ValidationError reports a row that cannot be imported
type ValidationError struct {
	Row int
	URL string
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.detail())
}

// detail describes the problem without the row number
func (e *ValidationError) detail() string {
	if e.URL == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v: %s", e.Err, e.URL)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate normalizes a raw row. row is 1-based.
func Validate(row int, raw RawRecord) (ValidatedRecord, error) {
	rec := ValidatedRecord{
		Title:     field(raw, ColumnTitle),
		URL:       field(raw, ColumnURL),
		TimeAdded: field(raw, ColumnTimeAdded),
		Tags:      field(raw, ColumnTags),
		Status:    field(raw, ColumnStatus),
	}

	if rec.URL == "" {
		return ValidatedRecord{}, &ValidationError{Row: row, Err: ErrEmptyURL}
	}

	if !isAbsoluteURL(rec.URL) {
		return ValidatedRecord{}, &ValidationError{Row: row, URL: rec.URL, Err: ErrInvalidURLFormat}
	}

	return rec, nil
}

func field(raw RawRecord, name string) string {
	return strings.TrimSpace(raw[name])
}

// isAbsoluteURL requires a scheme and an authority
func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
