// Package omnivore is a minimal client for the Omnivore saveUrl mutation
package omnivore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const saveURLMutation = `mutation SaveUrl($input: SaveUrlInput!) {
  saveUrl(input: $input) {
    ... on SaveSuccess {
      url
      clientRequestId
    }
    ... on SaveError {
      errorCodes
      message
    }
  }
}`

const defaultTimeout = 30 * time.Second

// maxErrorBody bounds how much of a failed response ends up in an error message
const maxErrorBody = 512

// Client talks to the Omnivore GraphQL API
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	userAgent  string
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithTimeout sets the timeout of each save request
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a client for the given endpoint and API key
func NewClient(endpoint, apiKey string, opts ...ClientOption) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type saveURLResponse struct {
	Data *struct {
		SaveURL *struct {
			URL             string   `json:"url"`
			ClientRequestID string   `json:"clientRequestId"`
			ErrorCodes      []string `json:"errorCodes"`
			Message         string   `json:"message"`
		} `json:"saveUrl"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

// SaveURL saves a single article. Failures are always *Error.
func (c *Client) SaveURL(ctx context.Context, input SaveURLInput) (*SaveResult, error) {
	body, err := json.Marshal(graphQLRequest{
		Query:     saveURLMutation,
		Variables: map[string]any{"input": input},
	})
	if err != nil {
		return nil, &Error{Kind: KindOther, Message: fmt.Sprintf("encoding request: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Kind: KindOther, Message: fmt.Sprintf("creating request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.apiKey)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Message: fmt.Sprintf("reading response: %v", err)}
	}

	var parsed saveURLResponse
	decodeErr := json.Unmarshal(data, &parsed)

	// GraphQL servers may answer errors with a non-2xx status; prefer their message
	if decodeErr == nil && len(parsed.Errors) > 0 {
		apiErr := &Error{Kind: KindGraphQL, Message: joinMessages(parsed.Errors)}
		if !isSuccess(resp.StatusCode) {
			apiErr.StatusCode = resp.StatusCode
		}
		return nil, apiErr
	}

	if !isSuccess(resp.StatusCode) {
		return nil, &Error{Kind: KindOther, Message: truncate(strings.TrimSpace(string(data))), StatusCode: resp.StatusCode}
	}

	if decodeErr != nil {
		return nil, &Error{Kind: KindOther, Message: fmt.Sprintf("decoding response: %v", decodeErr)}
	}

	if parsed.Data == nil || parsed.Data.SaveURL == nil {
		return nil, &Error{Kind: KindOther, Message: "response missing saveUrl payload"}
	}

	payload := parsed.Data.SaveURL
	if len(payload.ErrorCodes) > 0 {
		msg := strings.Join(payload.ErrorCodes, ", ")
		if payload.Message != "" {
			msg = fmt.Sprintf("%s (%s)", payload.Message, msg)
		}
		return nil, &Error{Kind: KindGraphQL, Message: msg}
	}

	state := input.State
	if state == "" {
		state = StateSucceeded
	}

	id := payload.ClientRequestID
	if id == "" {
		id = input.ClientRequestID
	}

	return &SaveResult{
		ID:    id,
		URL:   payload.URL,
		State: state,
	}, nil
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

func joinMessages(errs []graphQLError) string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

func truncate(s string) string {
	if len(s) > maxErrorBody {
		return s[:maxErrorBody] + "..."
	}
	return s
}
