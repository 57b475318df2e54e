package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/stemsplitter/tracker/internal/config"
	"github.com/stemsplitter/tracker/internal/model"
)

// Backend defines the operations the tracker needs from the separation service
type Backend interface {
	ListModels(ctx context.Context) ([]string, error)
	Process(ctx context.Context, sourceURL, modelName string) (*model.ProcessResponse, error)
	Batch(ctx context.Context, urls []string, modelName string) (*model.BatchResponse, error)
	Status(ctx context.Context, jobID string) (*model.Job, error)
	History(ctx context.Context) ([]model.Job, error)
}

// BackendClient implements Backend over the service's JSON HTTP API
type BackendClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewBackendClient creates a new separation backend client
func NewBackendClient(cfg *config.BackendConfig) *BackendClient {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &BackendClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: cfg.BaseURL,
	}
}

// ListModels returns the selectable model names
func (c *BackendClient) ListModels(ctx context.Context) ([]string, error) {
	var result []string
	if err := c.get(ctx, "/api/models", &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Process submits a single URL for separation
func (c *BackendClient) Process(ctx context.Context, sourceURL, modelName string) (*model.ProcessResponse, error) {
	req := map[string]string{"url": sourceURL, "model": modelName}
	var result model.ProcessResponse
	if err := c.post(ctx, "/api/process", req, &result); err != nil {
		if decodeRejection(err, &result) && !result.Success {
			return &result, nil
		}
		return nil, err
	}
	return &result, nil
}

// Batch submits several URLs in one request. The returned ids are not
// guaranteed to follow input order.
func (c *BackendClient) Batch(ctx context.Context, urls []string, modelName string) (*model.BatchResponse, error) {
	req := map[string]interface{}{"urls": urls, "model": modelName}
	var result model.BatchResponse
	if err := c.post(ctx, "/api/batch", req, &result); err != nil {
		if decodeRejection(err, &result) && !result.Success {
			return &result, nil
		}
		return nil, err
	}
	return &result, nil
}

// Status retrieves the current state of a job
func (c *BackendClient) Status(ctx context.Context, jobID string) (*model.Job, error) {
	endpoint := fmt.Sprintf("/api/status/%s", url.PathEscape(jobID))
	var result model.Job
	if err := c.get(ctx, endpoint, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// History retrieves every completed job, newest first
func (c *BackendClient) History(ctx context.Context) ([]model.Job, error) {
	var result []model.Job
	if err := c.get(ctx, "/api/history", &result); err != nil {
		return nil, err
	}
	return result, nil
}

// DownloadURL returns the backend URL of one stem file
func (c *BackendClient) DownloadURL(jobID, stem string) string {
	return fmt.Sprintf("%s/api/download/%s/%s", c.baseURL, url.PathEscape(jobID), url.PathEscape(stem))
}

// OpenStem starts the download of one stem file. The caller closes the
// returned body; size is -1 when the backend does not announce it.
func (c *BackendClient) OpenStem(ctx context.Context, jobID, stem string) (body io.ReadCloser, size int64, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.DownloadURL(jobID, stem), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, 0, &StatusError{StatusCode: resp.StatusCode, Body: msg}
	}

	return resp.Body, resp.ContentLength, nil
}

// Download streams one stem file into w and returns the number of bytes written
func (c *BackendClient) Download(ctx context.Context, jobID, stem string, w io.Writer) (int64, error) {
	body, _, err := c.OpenStem(ctx, jobID, stem)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	n, err := io.Copy(w, body)
	if err != nil {
		return n, fmt.Errorf("failed to read stem: %w", err)
	}
	return n, nil
}

// post sends a POST request with JSON body
func (c *BackendClient) post(ctx context.Context, endpoint string, body interface{}, result interface{}) error {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.doRequest(req, result)
}

// get sends a GET request and parses JSON response
func (c *BackendClient) get(ctx context.Context, endpoint string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	return c.doRequest(req, result)
}

// doRequest executes an HTTP request and parses the response
func (c *BackendClient) doRequest(req *http.Request, result interface{}) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[Backend] ✗ %s %s request failed: %v", req.Method, req.URL.Path, err)
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[Backend] ✗ %d %s %s", resp.StatusCode, req.Method, req.URL.Path)
		return &StatusError{StatusCode: resp.StatusCode, Body: respBody}
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

// StatusError is a non-2xx reply from the backend
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend error (status %d): %s", e.StatusCode, string(e.Body))
}

// decodeRejection decodes the body of a non-2xx reply into result. It
// reports false for transport failures and bodies that are not JSON.
func decodeRejection(err error, result interface{}) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	return json.Unmarshal(se.Body, result) == nil
}

// IsConfigured returns true if the client has valid configuration
func (c *BackendClient) IsConfigured() bool {
	return c.baseURL != ""
}
