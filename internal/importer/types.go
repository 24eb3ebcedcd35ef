// Package importer turns Pocket export rows into Omnivore saves
package importer

// Pocket export column names
const (
	ColumnTitle     = "title"
	ColumnURL       = "url"
	ColumnTimeAdded = "time_added"
	ColumnTags      = "tags"
	ColumnStatus    = "status"
)

// StatusArchive is the Pocket status of an archived bookmark
const StatusArchive = "archive"

// RawRecord is one row of the export keyed by header name
type RawRecord map[string]string

// ValidatedRecord is a row whose URL is known to be a well-formed absolute URL
type ValidatedRecord struct {
	Title     string
	URL       string
	TimeAdded string
	Tags      string
	Status    string
}

// Archived reports whether Pocket marked the row as archived
func (r ValidatedRecord) Archived() bool {
	return r.Status == StatusArchive
}

// LivenessResult is the outcome of probing a URL.
// StatusCode is nil when no HTTP response was received.
type LivenessResult struct {
	IsAlive    bool
	StatusCode *int
	Reason     string
}

// RowOutcome is either Success or Skipped
type RowOutcome interface {
	rowOutcome()
}

// Success is recorded for rows saved to Omnivore
type Success struct {
	ID                  string
	Title               string
	URL                 string
	HasLabels           bool
	IsArchived          bool
	WasArchivedInPocket bool
}

// Skipped is recorded for rows whose URL no longer resolves
type Skipped struct {
	Title  string
	URL    string
	Reason string
}

func (Success) rowOutcome() {}
func (Skipped) rowOutcome() {}

// RunStatistics counts what happened during a run
type RunStatistics struct {
	Total          int `yaml:"total" json:"total"`
	Successful     int `yaml:"successful" json:"successful"`
	Skipped        int `yaml:"skipped" json:"skipped"`
	Tagged         int `yaml:"tagged" json:"tagged"`
	Archived       int `yaml:"archived" json:"archived"`
	SkippedArchive int `yaml:"skipped_archive" json:"skipped_archive"`
}

func (s *RunStatistics) record(outcome RowOutcome) {
	s.Total++
	switch o := outcome.(type) {
	case Skipped:
		s.Skipped++
	case Success:
		s.Successful++
		if o.HasLabels {
			s.Tagged++
		}
		if o.IsArchived {
			s.Archived++
		}
		if o.WasArchivedInPocket && !o.IsArchived {
			s.SkippedArchive++
		}
	}
}
