// Package firebase talks to a hosted realtime database and its
// identity provider over their REST surfaces. It owns no feed
// semantics beyond the four record operations and the session; every
// durability and consistency guarantee is the service's.
package firebase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// TokenSource supplies the session ID token for database calls.
// An empty token means unauthenticated access.
type TokenSource interface {
	IDToken() string
}

// Client is a thin HTTP wrapper for the realtime-database REST API.
// It handles URL construction, the ".json" suffix, and auth injection.
type Client struct {
	baseURL string
	tokens  TokenSource
	http    *http.Client
}

// NewClient creates a database client for the given base URL.
func NewClient(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: baseURL,
		tokens:  tokens,
		http:    &http.Client{},
	}
}

// CreateRecord stores v under a generated child key of path and
// returns the key.
func (c *Client) CreateRecord(path string, v any) (string, error) {
	data, err := c.do(http.MethodPost, path, v)
	if err != nil {
		return "", err
	}
	var created struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &created); err != nil {
		return "", fmt.Errorf("parsing create response: %w", err)
	}
	if created.Name == "" {
		return "", fmt.Errorf("database returned no key for %s", path)
	}
	return created.Name, nil
}

// GetRecord reads the value at path into out. It reports false when
// the record is absent (the database serves "null").
func (c *Client) GetRecord(path string, out any) (bool, error) {
	data, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return false, err
	}
	if len(data) == 0 || string(data) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("parsing %s: %w", path, err)
	}
	return true, nil
}

// DeleteRecord removes the value at path.
func (c *Client) DeleteRecord(path string) error {
	_, err := c.do(http.MethodDelete, path, nil)
	return err
}

// UpdateFields applies a multi-path update rooted at the database
// root. A nil value deletes its path. The individual paths are
// written together but without transactional coupling to any read
// that produced them.
func (c *Client) UpdateFields(fields map[string]any) error {
	_, err := c.do(http.MethodPatch, "", fields)
	return err
}

func (c *Client) do(method, path string, body any) ([]byte, error) {
	u := c.baseURL + "/" + path + ".json"
	if path == "" {
		u = c.baseURL + "/.json"
	}
	if token := c.tokens.IDToken(); token != "" {
		u += "?auth=" + url.QueryEscape(token)
	}

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding %s body: %w", path, err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, u, payload)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("database %s %s returned %d: %s", method, path, resp.StatusCode, string(data))
	}
	return data, nil
}
