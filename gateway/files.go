package gateway

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"
)

// FilesClient uploads rendered tickets to the file storage and returns the
// file id the mail links to.
type FilesClient interface {
	Upload(ctx context.Context, name string, content []byte) (string, error)
}

// HTTPFilesClient puts files into the storage service over HTTP.
type HTTPFilesClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewHTTPFilesClient(baseURL, token string) *HTTPFilesClient {
	return &HTTPFilesClient{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPFilesClient) Upload(ctx context.Context, name string, content []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut,
		fmt.Sprintf("%s/files/%s/content", c.baseURL, name), bytes.NewReader(content))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/pdf")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("file upload failed: %v", err)
	}
	defer resp.Body.Close()

	// an upload retried after a partial failure may hit its own file
	if resp.StatusCode == http.StatusConflict {
		return name, nil
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status code while uploading %s: %d", name, resp.StatusCode)
	}
	return name, nil
}
