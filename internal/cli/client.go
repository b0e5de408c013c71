package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
)

// Client is an HTTP client for the ledger API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// NewClient creates a ledger API client.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{},
		Logger:     logger,
	}
}

// apiResponse is the parsed envelope, including the sibling fields either
// pagination strategy may add. Raw keeps the whole body for commands that
// read action keys beside the status.
type apiResponse struct {
	Status         string          `json:"status"`
	Data           json.RawMessage `json:"data"`
	Count          *int            `json:"count"`
	Next           *string         `json:"next"`
	Previous       *string         `json:"previous"`
	NextCursor     *string         `json:"next_cursor"`
	PreviousCursor *string         `json:"previous_cursor"`

	Raw []byte `json:"-"`
}

// APIFailure is a failure envelope surfaced as an error. Data carries the
// message string or field name to messages map the server sent.
type APIFailure struct {
	StatusCode int
	Data       json.RawMessage
}

func (e *APIFailure) Error() string {
	var msg string
	if json.Unmarshal(e.Data, &msg) == nil {
		return msg
	}
	var fields map[string][]string
	if json.Unmarshal(e.Data, &fields) == nil {
		parts := make([]string, 0, len(fields))
		for f, msgs := range fields {
			parts = append(parts, f+": "+strings.Join(msgs, " "))
		}
		sort.Strings(parts)
		return strings.Join(parts, "; ")
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// do performs an HTTP request and returns the parsed envelope. A failure
// envelope comes back as an *APIFailure.
func (c *Client) do(method, path string, body any) (*apiResponse, error) {
	url := c.BaseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
		c.Logger.Debug("HTTP request body", "body", string(data))
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.Logger.Debug("HTTP request", "method", method, "url", url)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.Logger.Debug("HTTP response", "status", resp.StatusCode, "body", string(respBody))

	// DELETE may answer 204 with no body at all.
	if len(respBody) == 0 {
		return &apiResponse{Status: "success"}, nil
	}

	var apiResp apiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("parse response (status %d): %w\nbody: %s", resp.StatusCode, err, string(respBody))
	}
	apiResp.Raw = respBody

	if apiResp.Status == "failure" {
		return &apiResp, &APIFailure{StatusCode: resp.StatusCode, Data: apiResp.Data}
	}
	return &apiResp, nil
}

// Get performs a GET request.
func (c *Client) Get(path string) (*apiResponse, error) {
	return c.do("GET", path, nil)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(path string, body any) (*apiResponse, error) {
	return c.do("POST", path, body)
}

// Put performs a PUT request.
func (c *Client) Put(path string, body any) (*apiResponse, error) {
	return c.do("PUT", path, body)
}

// Delete performs a DELETE request.
func (c *Client) Delete(path string) (*apiResponse, error) {
	return c.do("DELETE", path, nil)
}
