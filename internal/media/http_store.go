package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"
)

const defaultUploadTimeout = 60 * time.Second

// HTTPStore implements Store against a CDN-style unsigned upload endpoint:
// multipart POST with "file", "folder", and "resource_type" fields, JSON
// response carrying the hosted file's secure_url.
type HTTPStore struct {
	endpoint string
	folder   string
	http     *http.Client
}

// NewHTTPStore creates a store posting to endpoint, tagging uploads with
// folder. timeout <= 0 falls back to a generous default; video uploads
// are slow.
func NewHTTPStore(endpoint, folder string, timeout time.Duration) *HTTPStore {
	if timeout <= 0 {
		timeout = defaultUploadTimeout
	}
	return &HTTPStore{
		endpoint: endpoint,
		folder:   folder,
		http:     &http.Client{Timeout: timeout},
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends data to the upload endpoint and returns the durable URL.
func (s *HTTPStore) Upload(ctx context.Context, data []byte, kind Kind) (string, error) {
	if err := CheckSize(data, kind); err != nil {
		return "", err
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", fmt.Sprintf("upload.%s", kind))
	if err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write upload payload: %w", err)
	}
	if err := writer.WriteField("folder", s.folder); err != nil {
		return "", fmt.Errorf("failed to write folder field: %w", err)
	}
	if err := writer.WriteField("resource_type", string(kind)); err != nil {
		return "", fmt.Errorf("failed to write resource_type field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read upload response: %w", err)
	}

	var parsed uploadResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || parsed.SecureURL == "" {
		msg := parsed.Error.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", fmt.Errorf("upload rejected: %s", msg)
	}

	slog.Debug("Uploaded media", "kind", kind, "size", len(data), "url", parsed.SecureURL)
	return parsed.SecureURL, nil
}
