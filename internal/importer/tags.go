package importer

import (
	"regexp"
	"strings"

	"github.com/aktagon/pocket2omnivore/internal/omnivore"
)

// DefaultLabelColor is assigned to every imported label
const DefaultLabelColor = "#808080"

const tagSeparator = "|"

// A bare integer in the tags column means the row is misaligned
var numericTags = regexp.MustCompile(`^\d+$`)

// MapTags converts a pipe-delimited Pocket tag string into Omnivore labels.
// Order and duplicates are preserved.
func MapTags(raw string) []omnivore.LabelInput {
	raw = strings.TrimSpace(raw)
	if raw == "" || numericTags.MatchString(raw) {
		return []omnivore.LabelInput{}
	}

	parts := strings.Split(raw, tagSeparator)
	labels := make([]omnivore.LabelInput, 0, len(parts))
	for _, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		labels = append(labels, omnivore.LabelInput{
			Name:        name,
			Color:       DefaultLabelColor,
			Description: "",
		})
	}
	return labels
}
