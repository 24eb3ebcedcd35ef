package importer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aktagon/pocket2omnivore/internal/omnivore"
)

// RowError aborts a run. It carries everything needed to find the
// offending row and resume after fixing it.
type RowError struct {
	Row    int
	Title  string
	URL    string
	Tags   string
	Status string
	Stats  RunStatistics
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, describeFailure(e.Err))
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Diagnostics renders the failing row and the statistics so far
func (e *RowError) Diagnostics() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Row:    %d\n", e.Row)
	fmt.Fprintf(&b, "Title:  %s\n", e.Title)
	fmt.Fprintf(&b, "URL:    %s\n", e.URL)
	fmt.Fprintf(&b, "Tags:   %s\n", e.Tags)
	fmt.Fprintf(&b, "Status: %s\n", e.Status)
	fmt.Fprintf(&b, "Error:  %s\n", describeFailure(e.Err))
	fmt.Fprintf(&b, "Completed before failure: %d successful, %d skipped of %d processed\n",
		e.Stats.Successful, e.Stats.Skipped, e.Stats.Total)
	fmt.Fprintf(&b, "Tagged: %d  Archived: %d  Archived in Pocket, imported unread: %d",
		e.Stats.Tagged, e.Stats.Archived, e.Stats.SkippedArchive)
	return b.String()
}

// describeFailure prefixes remote failures with their kind. Validation
// errors lose their own row prefix since RowError already prints it.
func describeFailure(err error) string {
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return valErr.detail()
	}

	var apiErr *omnivore.Error
	if !errors.As(err, &apiErr) {
		return err.Error()
	}

	msg := apiErr.Message
	if apiErr.StatusCode != 0 {
		msg = fmt.Sprintf("HTTP %d: %s", apiErr.StatusCode, msg)
	}

	switch apiErr.Kind {
	case omnivore.KindGraphQL:
		return "GraphQL error: " + msg
	case omnivore.KindNetwork:
		return "Network error: " + msg
	default:
		return "Omnivore error: " + msg
	}
}
