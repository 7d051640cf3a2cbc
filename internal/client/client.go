// Package client wraps the HTTP calls to the storage service: whole-state
// persistence plus individual PDF binary upload and deletion.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/pdf-archive/backend/internal/models"
)

// Client talks to one storage service instance.
type Client struct {
	baseURL string // e.g. http://localhost:8089, no trailing slash
	http    *http.Client
	logger  *slog.Logger
}

// New creates a client for the given service base URL.
func New(baseURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		logger:  logger,
	}
}

// ResolveFileURL rewrites a server-relative file URL to a fully-qualified one.
// Already-absolute URLs pass through unchanged.
func (c *Client) ResolveFileURL(fileURL string) string {
	if fileURL == "" {
		return fileURL
	}
	if strings.HasPrefix(fileURL, "http://") || strings.HasPrefix(fileURL, "https://") {
		return fileURL
	}
	if strings.HasPrefix(fileURL, "/") {
		return c.baseURL + fileURL
	}
	return c.baseURL + "/" + fileURL
}

// UploadFile uploads one PDF binary as a multipart form {file, id, folder}.
// A non-success response is an error; the caller must not assume partial
// success.
func (c *Client) UploadFile(ctx context.Context, id string, r io.Reader, filename, folder string) (*models.UploadResult, error) {
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("building upload form: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("reading upload content: %w", err)
	}
	if err := writer.WriteField("id", id); err != nil {
		return nil, fmt.Errorf("building upload form: %w", err)
	}
	if err := writer.WriteField("folder", folder); err != nil {
		return nil, fmt.Errorf("building upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("building upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/pdfs", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("uploading file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("uploading file: unexpected status %d", resp.StatusCode)
	}

	var result models.UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding upload response: %w", err)
	}
	result.FileURL = c.ResolveFileURL(result.FileURL)
	return &result, nil
}

// DeleteFile requests removal of a stored binary. Deletion is best-effort:
// failures are logged, never returned.
func (c *Client) DeleteFile(ctx context.Context, storagePath string) {
	payload, _ := json.Marshal(map[string]string{"storagePath": storagePath})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/pdfs/delete", bytes.NewReader(payload))
	if err != nil {
		c.logger.Warn("delete request failed", "storagePath", storagePath, "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("delete request failed", "storagePath", storagePath, "error", err)
		return
	}
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("delete rejected", "storagePath", storagePath, "status", resp.StatusCode)
	}
}

// SaveState overwrites the entire remote state document. This is not a
// merge: callers send the complete collection every time.
func (c *Client) SaveState(ctx context.Context, snap *models.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/state", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("saving state: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// LoadState fetches the remote state document. A non-success response means
// "no prior state" and returns (nil, nil), not an error.
func (c *Client) LoadState(ctx context.Context) (*models.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/state", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Info("no stored state", "status", resp.StatusCode)
		return nil, nil
	}

	var snap models.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decoding state: %w", err)
	}
	return &snap, nil
}

// FetchBinary downloads a stored binary via its resolved file URL. Used by
// the bulk-download bundler.
func (c *Client) FetchBinary(ctx context.Context, fileURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ResolveFileURL(fileURL), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching binary: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetching binary: unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
