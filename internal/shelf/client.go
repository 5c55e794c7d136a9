// Package shelf is the HTTP client for the remote shelf server: asset
// uploads and bookmark registration.
package shelf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"
)

const (
	assetsPath    = "/api/v1/assets"
	bookmarksPath = "/api/v1/bookmarks"

	defaultTimeout = 60 * time.Second
)

// Bookmark field values used for imported images
const (
	BookmarkTypeAsset = "ASSET"
	AssetTypeImage    = "image"
)

// Client interfaces with the shelf server API
type Client struct {
	httpClient *http.Client
}

// NewClient creates a new shelf API client
func NewClient() *Client {
	return NewClientWithTimeout(defaultTimeout)
}

// NewClientWithTimeout creates a client with a custom per-call timeout.
// Uploads and registrations that exceed it fail like any other call.
func NewClientWithTimeout(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Credentials identify the shelf server for a single call. They are passed
// per call rather than stored so settings changes take effect immediately.
type Credentials struct {
	ServerURL string
	APIKey    string
}

// UploadResponse represents the response from the asset upload endpoint
type UploadResponse struct {
	AssetID string `json:"assetId"`
}

// BookmarkRequest represents the payload for registering an imported asset
type BookmarkRequest struct {
	Type      string `json:"type"`
	FileName  string `json:"fileName"`
	AssetID   string `json:"assetId"`
	AssetType string `json:"assetType"`
	SourceURL string `json:"sourceUrl,omitempty"`
}

// UploadAsset uploads file content as a multipart form and returns the
// asset identifier assigned by the server.
func (c *Client) UploadAsset(ctx context.Context, creds Credentials, filename, mimeType string, content io.Reader) (string, error) {
	if creds.ServerURL == "" || creds.APIKey == "" {
		return "", ErrNotConfigured
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(filename)))
	header.Set("Content-Type", mimeType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("failed to build upload body: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("failed to read file content: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to finish upload body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL(creds.ServerURL, assetsPath), &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+creds.APIKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return "", err
	}

	var uploadResp UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&uploadResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if uploadResp.AssetID == "" {
		return "", fmt.Errorf("server returned no asset id")
	}

	return uploadResp.AssetID, nil
}

// CreateBookmark registers an uploaded asset as a bookmark.
func (c *Client) CreateBookmark(ctx context.Context, creds Credentials, bookmark BookmarkRequest) error {
	if creds.ServerURL == "" || creds.APIKey == "" {
		return ErrNotConfigured
	}

	payload, err := json.Marshal(bookmark)
	if err != nil {
		return fmt.Errorf("failed to encode bookmark: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL(creds.ServerURL, bookmarksPath), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+creds.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return checkStatus(resp)
}

// Ping verifies the server is reachable and the API key is accepted.
func (c *Client) Ping(ctx context.Context, creds Credentials) error {
	if creds.ServerURL == "" {
		return ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL(creds.ServerURL, bookmarksPath)+"?limit=1", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+creds.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return checkStatus(resp)
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode >= 500 {
		return &ServerError{StatusCode: resp.StatusCode}
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

func apiURL(serverURL, path string) string {
	return strings.TrimRight(serverURL, "/") + path
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
