package omnivore

import "fmt"

// ErrorKind classifies a failed save
type ErrorKind int

const (
	// KindOther covers unexpected responses from the API
	KindOther ErrorKind = iota
	// KindGraphQL is reported when the API answers with GraphQL errors or a SaveError
	KindGraphQL
	// KindNetwork is reported when the request never got a response
	KindNetwork
)

func (k ErrorKind) String() string {
	switch k {
	case KindGraphQL:
		return "graphql"
	case KindNetwork:
		return "network"
	default:
		return "other"
	}
}

// Error is returned by Client.SaveURL for every failure
type Error struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: HTTP %d: %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}
