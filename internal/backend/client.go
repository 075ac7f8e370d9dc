package backend

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go-paylink/internal/config"
)

// ErrUnauthorized is returned for any 401 response. Callers treat it
// globally: the session cookie is cleared and the user is sent to sign-in.
var ErrUnauthorized = errors.New("backend: unauthorized")

// APIError carries a non-2xx backend response. Message holds the backend's
// own error message when the body contained one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend error: status %d", e.Status)
}

// Client wraps all outbound requests to the backend API. It attaches the
// bearer token when one is supplied and normalizes error responses.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a backend API client
func New(cfg *config.Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BackendURL, "/"),
		http:    &http.Client{Timeout: cfg.RequestTimeout},
	}
}

// do performs one JSON request. token may be empty for public endpoints.
func (c *Client) do(method, path, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decodeResponse(resp, out)
}

// get performs a GET with the page-fetch retry policy: one retry on
// transport failure, never on an HTTP-level error.
func (c *Client) get(path, token string, out interface{}) error {
	err := c.do(http.MethodGet, path, token, nil, out)
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.Is(err, ErrUnauthorized) || errors.As(err, &apiErr) {
		return err
	}
	return c.do(http.MethodGet, path, token, nil, out)
}

func decodeResponse(resp *http.Response, out interface{}) error {
	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		return &APIError{Status: resp.StatusCode, Message: extractMessage(data)}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("backend: decoding response: %w", err)
		}
	}
	return nil
}

// extractMessage pulls the backend's {"message": ...} out of an error body
func extractMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}

// UserMessage converts a request error into the text shown to the user:
// the backend's message verbatim when present, otherwise the fallback.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
