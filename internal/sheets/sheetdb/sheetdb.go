// Package sheetdb uploads report rows to a SheetDB-style endpoint: a single
// HTTP POST of {"data": [rows]} to a fixed URL.
package sheetdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tesouraria/tesouraria-backend/internal/sheets"
)

type Client struct {
	url        string
	httpClient *http.Client
}

// Ensure interface conformance
var _ sheets.RowAppender = (*Client)(nil)

// New creates a client for the given endpoint URL.
func New(url string) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// NewWithHTTPClient allows injecting an HTTP client (used in tests).
func NewWithHTTPClient(url string, httpClient *http.Client) *Client {
	return &Client{url: url, httpClient: httpClient}
}

type payload struct {
	Data []sheets.Row `json:"data"`
}

// AppendRows posts all rows in one request. There is no retry: the caller
// records the failure and the generated CSV remains available regardless.
func (c *Client) AppendRows(ctx context.Context, rows []sheets.Row) error {
	if len(rows) == 0 {
		return nil
	}

	body, err := json.Marshal(payload{Data: rows})
	if err != nil {
		return fmt.Errorf("marshal rows: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post rows: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Read a snippet of the body for the log line; the service returns
		// short JSON error messages.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sheetdb returned %d: %s", resp.StatusCode, snippet)
	}

	return nil
}
