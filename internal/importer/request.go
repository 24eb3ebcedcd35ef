package importer

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/aktagon/pocket2omnivore/internal/omnivore"
)

const (
	requestSource   = "api"
	requestTimezone = "UTC"
	requestLocale   = "en-US"

	// JavaScript Date.toISOString layout, always UTC with millisecond precision
	isoTimestamp = "2006-01-02T15:04:05.000Z"
)

// BuildRequest maps a validated row to the saveUrl input
func BuildRequest(rec ValidatedRecord, labels []omnivore.LabelInput, archive bool) omnivore.SaveURLInput {
	input := omnivore.SaveURLInput{
		URL:             rec.URL,
		ClientRequestID: uuid.NewString(),
		Source:          requestSource,
		Timezone:        requestTimezone,
		Locale:          requestLocale,
	}

	if len(labels) > 0 {
		input.Labels = labels
	}

	if archive {
		input.State = omnivore.StateArchived
	}

	if ts, ok := parseTimeAdded(rec.TimeAdded); ok {
		input.SavedAt = ts
		input.PublishedAt = ts
	}

	return input
}

// parseTimeAdded converts Pocket's unix seconds into an ISO-8601 instant
func parseTimeAdded(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	secs, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return "", false
	}
	return time.UnixMilli(secs * 1000).UTC().Format(isoTimestamp), true
}
