package importer

import (
	"context"
	"fmt"

	"github.com/aktagon/pocket2omnivore/internal/omnivore"
)

// DryRunSaver accepts every request without calling the API
type DryRunSaver struct {
	saved int
}

func (s *DryRunSaver) SaveURL(_ context.Context, input omnivore.SaveURLInput) (*omnivore.SaveResult, error) {
	s.saved++
	state := input.State
	if state == "" {
		state = omnivore.StateSucceeded
	}
	return &omnivore.SaveResult{
		ID:    fmt.Sprintf("dry-run-%d", s.saved),
		URL:   input.URL,
		State: state,
	}, nil
}
