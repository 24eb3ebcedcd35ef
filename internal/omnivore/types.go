package omnivore

// DefaultEndpoint is the production GraphQL endpoint
const DefaultEndpoint = "https://api-prod.omnivore.app/api/graphql"

// StateArchived marks a saved article as archived
const StateArchived = "ARCHIVED"

// StateSucceeded is reported for saves that did not request a state
const StateSucceeded = "SUCCEEDED"

// LabelInput is a label attached to a saved article
type LabelInput struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// SaveURLInput is the input of the saveUrl mutation.
// Optional fields are omitted when empty so the server default applies.
type SaveURLInput struct {
	URL             string       `json:"url"`
	ClientRequestID string       `json:"clientRequestId"`
	Source          string       `json:"source"`
	Timezone        string       `json:"timezone"`
	Locale          string       `json:"locale"`
	Labels          []LabelInput `json:"labels,omitempty"`
	State           string       `json:"state,omitempty"`
	SavedAt         string       `json:"savedAt,omitempty"`
	PublishedAt     string       `json:"publishedAt,omitempty"`
}

// SaveResult is the outcome of a successful save
type SaveResult struct {
	ID    string
	URL   string
	State string
}
