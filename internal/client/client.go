// Package client is a small HTTP client for the waitlist API, used by the
// terminal signup program.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nimbuslabs/waitlist-service/domain/waitlist"
)

const defaultTimeout = 15 * time.Second

// APIError is a non-2xx response from the waitlist API. FieldErrors is
// populated for validation failures so the form can mark individual fields.
type APIError struct {
	StatusCode  int
	Message     string
	FieldErrors map[string]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return fmt.Sprintf("waitlist API returned status %d", e.StatusCode)
}

// Client talks to a running waitlist service.
type Client struct {
	baseURL    string
	locale     string
	httpClient *http.Client
}

// New returns a client for the API at baseURL. The locale is sent as
// Accept-Language so the server localizes its messages; empty means the
// server default.
func New(baseURL, locale string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		locale:     locale,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// envelope mirrors the server's response shape.
type envelope struct {
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type wireFieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Signup submits a draft to POST /v1/waitlist.
func (c *Client) Signup(ctx context.Context, draft waitlist.Draft) error {
	payload := waitlist.SignupRequest{
		Name:        draft.Name,
		Email:       draft.Email,
		PhoneNumber: draft.PhoneNumber,
		HowHeard:    draft.HowHeard,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding signup request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/waitlist", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building signup request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.locale != "" {
		req.Header.Set("Accept-Language", c.locale)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("submitting signup: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return fmt.Errorf("decoding signup response: %w", err)
		}

		return &APIError{StatusCode: resp.StatusCode}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode, Message: env.Message}

	var fieldErrors []wireFieldError
	if len(env.Data) > 0 && json.Unmarshal(env.Data, &fieldErrors) == nil && len(fieldErrors) > 0 {
		apiErr.FieldErrors = make(map[string]string, len(fieldErrors))
		for _, fe := range fieldErrors {
			apiErr.FieldErrors[fe.Field] = fe.Message
		}
	}

	return apiErr
}
