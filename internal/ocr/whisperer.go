// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ocr submits PDFs to the LLMWhisperer text extraction service
// and retrieves the layout-preserving OCR output.
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/pdiddy/spo-extractor/internal/httputil"
	"github.com/pdiddy/spo-extractor/pkg/types"
)

// Processing statuses reported by the whisper-status endpoint.
const (
	StatusProcessing = "processing"
	StatusProcessed  = "processed"
	StatusUnknown    = "unknown"
)

// apiKeyHeader carries the LLMWhisperer API key.
const apiKeyHeader = "unstract-key"

// Client talks to one LLMWhisperer deployment. The zero value is not
// usable; construct with NewClient.
type Client struct {
	baseURL      string
	apiKey       string
	userAgent    string
	mode         string
	outputMode   string
	httpClient   *http.Client
	pollInterval time.Duration
	maxPolls     int
	log          *slog.Logger
}

// NewClient builds an OCR client from configuration. Unset mode and
// output mode fall back to low_cost / layout_preserving.
func NewClient(cfg types.OCRConfig, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	mode := cfg.Mode
	if mode == "" {
		mode = "low_cost"
	}
	outputMode := cfg.OutputMode
	if outputMode == "" {
		outputMode = "layout_preserving"
	}
	return &Client{
		baseURL:      cfg.BaseURL,
		apiKey:       cfg.APIKey,
		userAgent:    cfg.UserAgent,
		mode:         mode,
		outputMode:   outputMode,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		pollInterval: cfg.PollInterval,
		maxPolls:     cfg.MaxPolls,
		log:          log,
	}
}

// Submit uploads the PDF at path for asynchronous OCR under the given
// processing and output modes and returns the job hash used to poll
// and retrieve.
func (c *Client) Submit(ctx context.Context, path, mode, outputMode string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading PDF for OCR: %w", err)
	}

	u := c.baseURL + "/whisper?" + url.Values{
		"mode":        {mode},
		"output_mode": {outputMode},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("building OCR submit request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, 0)
	if err != nil {
		return "", fmt.Errorf("submitting PDF for OCR: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading OCR submit response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return "", fmt.Errorf("OCR submit returned HTTP %d: %s", resp.StatusCode, truncate(body))
	}

	var parsed struct {
		WhisperHash string `json:"whisper_hash"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parsing OCR submit response: %w", err)
	}
	if parsed.WhisperHash == "" {
		return "", fmt.Errorf("OCR submit response carries no whisper_hash: %s", truncate(body))
	}

	c.log.Debug("ocr.submitted", "hash", parsed.WhisperHash, "bytes", len(data))
	return parsed.WhisperHash, nil
}

// Status fetches the current processing status for a job hash.
func (c *Client) Status(ctx context.Context, hash string) (string, error) {
	body, err := c.get(ctx, "/whisper-status", hash)
	if err != nil {
		return "", err
	}

	var parsed struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parsing OCR status response: %w", err)
	}
	if parsed.Status == "" {
		return StatusUnknown, nil
	}
	return parsed.Status, nil
}

// Retrieve fetches the extracted text of a processed job.
func (c *Client) Retrieve(ctx context.Context, hash string) (string, error) {
	body, err := c.get(ctx, "/whisper-retrieve", hash)
	if err != nil {
		return "", err
	}

	// The retrieve endpoint answers JSON with the text inside; older
	// deployments answer plain text.
	var parsed struct {
		ResultText string `json:"result_text"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.ResultText != "" {
		return parsed.ResultText, nil
	}
	return string(body), nil
}

// WaitUntilProcessed polls the job status until it reaches
// StatusProcessed, the poll budget runs out, or the context ends.
func (c *Client) WaitUntilProcessed(ctx context.Context, hash string) error {
	for poll := 0; poll < c.maxPolls; poll++ {
		status, err := c.Status(ctx, hash)
		if err != nil {
			return err
		}

		switch status {
		case StatusProcessed:
			return nil
		case StatusProcessing, StatusUnknown:
			// Unknown can appear briefly right after submission.
		default:
			return fmt.Errorf("OCR job %s entered status %q", hash, status)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
	return fmt.Errorf("OCR job %s not processed after %d polls", hash, c.maxPolls)
}

// Process is the full OCR round trip for one PDF: submit, wait,
// retrieve.
func (c *Client) Process(ctx context.Context, path string) (string, error) {
	hash, err := c.Submit(ctx, path, c.mode, c.outputMode)
	if err != nil {
		return "", err
	}
	if err := c.WaitUntilProcessed(ctx, hash); err != nil {
		return "", err
	}
	return c.Retrieve(ctx, hash)
}

func (c *Client) get(ctx context.Context, endpoint, hash string) ([]byte, error) {
	u := c.baseURL + endpoint + "?" + url.Values{"whisper_hash": {hash}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building OCR request: %w", err)
	}
	c.setHeaders(req)

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, 0)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", endpoint, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned HTTP %d: %s", endpoint, resp.StatusCode, truncate(body))
	}
	return body, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set(apiKeyHeader, c.apiKey)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
}

func truncate(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
