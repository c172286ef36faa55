// Package vqa talks to the visual question answering service that reads prescription images.
package vqa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Request is the body of POST /api/vqa_inference.
type Request struct {
	ImagePath      string `json:"image_path"`
	Question       string `json:"question"`
	PrescriptionID int    `json:"prescription_id"`
}

// Response is the body returned on success. The service's shape is not
// validated: a string result is unquoted, any other JSON value is kept as text.
type Response struct {
	PrescriptionID  json.RawMessage
	InferenceResult string
}

type wireResponse struct {
	PrescriptionID  json.RawMessage `json:"prescription_id"`
	InferenceResult json.RawMessage `json:"inference_result"`
}

// rawText turns a JSON value into display text.
func rawText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// StatusError is returned for any non-2xx answer from the service.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("VQA API call failed: status code %d", e.Code)
}

type Client struct {
	endpoint   string
	httpClient *http.Client
	timeout    time.Duration
}

type Option func(*Client)

// WithHTTPClient replaces the default client, e.g. with httptest's.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds each call; zero keeps the call unbounded.
// The timeout is applied to a copy, so a shared client passed via WithHTTPClient is left alone.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

// Infer sends one inference request. Non-2xx statuses come back as *StatusError.
func (c *Client) Infer(ctx context.Context, in Request) (Response, error) {
	bodyBytes, err := json.Marshal(in)
	if err != nil {
		return Response{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return Response{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Response{}, &StatusError{Code: resp.StatusCode, Body: string(respBody)}
	}

	var wire wireResponse
	if err := json.Unmarshal(respBody, &wire); err != nil {
		return Response{}, fmt.Errorf("failed to parse response: %w", err)
	}
	return Response{
		PrescriptionID:  wire.PrescriptionID,
		InferenceResult: rawText(wire.InferenceResult),
	}, nil
}
