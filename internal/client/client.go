// Package client provides a Go SDK for talking to the distributed KV store.
//
// Big idea:
//
// Instead of writing raw HTTP requests everywhere,
// we wrap them inside a clean Go API.
//
// So instead of:
//
//	http.NewRequest(...)
//	json.Marshal(...)
//
// Users can simply call:
//
//	client.Put(ctx, "key", "value", 0)
//	client.Get(ctx, "key")
//
// This is called a "client library" or "SDK".
//
// It hides:
//   - HTTP details
//   - JSON encoding/decoding
//   - Error handling
//
// And exposes a clean Go interface.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client represents a connection to ONE cluster listener.
//
// Important:
//
// The cluster itself lives entirely in the server process — every node
// in it is in-process, not a separate peer this client talks to. This
// client just speaks HTTP to the one listener that fronts the cluster.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new Client.
//
// baseURL example:
//
//	"http://localhost:8080"
//
// timeout protects us from hanging forever.
// In distributed systems:
//
//	NEVER call network without timeout.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// PutResponse is returned after a successful write.
type PutResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// GetResponse carries the value found for a key.
type GetResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Put stores key=value in the cluster. If ttl is positive, it is sent in
// whole seconds (any fraction is dropped) and the entry expires that long
// after this call reaches the primary; a zero or negative ttl sends no
// expiry.
//
// Flow:
//
//  1. Create JSON body
//  2. Build HTTP PUT request
//  3. Send request
//  4. Check status
//  5. Decode response
//
// The routing and replication logic happens inside the server.
// This client only performs the HTTP call.
func (c *Client) Put(ctx context.Context, key, value string, ttl time.Duration) (*PutResponse, error) {
	payload := map[string]any{"value": value}
	if ttl > 0 {
		payload["ttl_seconds"] = int(ttl.Seconds())
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut,
		fmt.Sprintf("%s/kv/%s", c.baseURL, key), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("PUT request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var result PutResponse
	return &result, json.NewDecoder(resp.Body).Decode(&result)
}

// Get retrieves value for key.
//
// Special case:
//
//	If server returns 404
//	We convert it into ErrNotFound
func (c *Client) Get(ctx context.Context, key string) (*GetResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/kv/%s", c.baseURL, key), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var result GetResponse
	return &result, json.NewDecoder(resp.Body).Decode(&result)
}

// Delete removes key from the cluster.
//
// Internally the server removes the primary's copy and fans the delete
// out to replicas in the background. Client doesn't care — it just sends
// the DELETE request.
func (c *Client) Delete(ctx context.Context, key string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		fmt.Sprintf("%s/kv/%s", c.baseURL, key), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("DELETE request failed: %w", err)
	}
	defer resp.Body.Close()

	return checkStatus(resp)
}

// ─── JSON convenience ─────────────────────────────────────────────────────────

// PutJSON marshals v and stores it under key via the /kv/:key/json route.
// This is the Go counterpart of the original store's set_json helper: a
// thin convenience layer that never touches the opaque-byte core.
func (c *Client) PutJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	encoded, err := json.Marshal(v)
	if err != nil {
		return err
	}

	payload := map[string]any{"value": json.RawMessage(encoded)}
	if ttl > 0 {
		payload["ttl_seconds"] = int(ttl.Seconds())
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut,
		fmt.Sprintf("%s/kv/%s/json", c.baseURL, key), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("PUT JSON request failed: %w", err)
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

// GetJSON retrieves the value for key and unmarshals it into dst.
func (c *Client) GetJSON(ctx context.Context, key string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/kv/%s/json", c.baseURL, key), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET JSON request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if err := checkStatus(resp); err != nil {
		return err
	}

	var wrapper struct {
		Value json.RawMessage `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&wrapper); err != nil {
		return err
	}
	return json.Unmarshal(wrapper.Value, dst)
}

// ─── Errors ───────────────────────────────────────────────────────────────────

// ErrNotFound is returned when a key does not exist in the store.
var ErrNotFound = fmt.Errorf("key not found")

// APIError carries the HTTP status and the error message from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

// checkStatus converts HTTP error responses
// into Go errors.
//
// If status is 2xx → success.
// Otherwise:
//
//  1. Read response body
//  2. Try parsing {"error": "..."} JSON
//  3. Return APIError
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(resp.Body)
	var apiErr struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(body, &apiErr)
	msg := apiErr.Error
	if msg == "" {
		msg = string(body)
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}
