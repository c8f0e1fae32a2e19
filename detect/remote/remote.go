// Package remote implements the Detector contract against an HTTP model
// server (a YOLO sidecar exposing a predict endpoint). The sidecar receives
// the encoded image as a multipart upload and answers with labeled boxes.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/docuscan/aadhaarkit/detect"
)

// Client calls a remote detection service.
type Client struct {
	base      string
	threshold float64
	http      *http.Client
}

// New builds a client for the sidecar at baseURL, which is expected to
// serve POST /predict and GET /health. Detections scoring below threshold
// are dropped before they reach the extraction pipeline.
func New(baseURL string, threshold float64) *Client {
	return &Client{
		base:      strings.TrimRight(baseURL, "/"),
		threshold: threshold,
		http:      &http.Client{Timeout: 60 * time.Second},
	}
}

type predictResponse struct {
	Detections []detect.Detection `json:"detections"`
}

// Detect posts the encoded image and returns the detections at or above
// the confidence threshold.
func (c *Client) Detect(ctx context.Context, image []byte) ([]detect.Detection, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "image.jpg")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("write image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/predict", body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("detector returned status %d", resp.StatusCode)
	}

	var result predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	kept := result.Detections[:0]
	for _, det := range result.Detections {
		if det.Confidence >= c.threshold {
			kept = append(kept, det)
		}
	}
	return kept, nil
}

// Health probes the sidecar's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("detector unhealthy: status %d", resp.StatusCode)
	}
	return nil
}
