// Package genai implements a client for a hosted generative-language API
// (Gemini generateContent wire format). Each call issues exactly one
// generation request for one model; failover across models is the caller's
// concern.
package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the public endpoint of the generative-language API.
	DefaultBaseURL = "https://generativelanguage.googleapis.com"

	// DefaultTimeout bounds one generation call end to end.
	DefaultTimeout = 60 * time.Second

	// maxResponseSize caps the response body read from the backend.
	maxResponseSize = 10 * 1024 * 1024
)

// Sentinel errors describing why a single generation attempt failed.
// Callers match them with errors.Is; anything else is an unknown failure.
var (
	ErrQuotaExhausted  = errors.New("quota exhausted")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrAPI             = errors.New("api error")
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

// Generate sends prompt (and img, if non-nil, inline next to the prompt) to
// the named model and returns the text of the first candidate. The text is
// returned as-is; blank-output handling is left to the caller.
func (c *Client) Generate(ctx context.Context, model string, prompt string, img *Image) (string, error) {

	parts := []part{{Text: prompt}}
	if img != nil {
		parts = append(parts, part{InlineData: &inlineData{
			MIMEType: img.MIMEType,
			Data:     base64.StdEncoding.EncodeToString(img.Data),
		}})
	}

	body, err := json.Marshal(generateRequest{Contents: []content{{Parts: parts}}})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/%s:generateContent", c.baseURL, model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", classifyStatus(resp.StatusCode, string(raw))
		}
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || parsed.Error != nil {
		return "", classifyError(resp.StatusCode, parsed.Error, string(raw))
	}

	if len(parsed.Candidates) == 0 {
		return "", nil
	}

	var sb strings.Builder
	for _, p := range parsed.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}

// classifyError maps an API error body (or a bare HTTP status when the body
// is absent) to one of the sentinel errors.
func classifyError(statusCode int, apiErr *apiErrorBody, raw string) error {
	if apiErr == nil {
		return classifyStatus(statusCode, raw)
	}
	switch {
	case apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED":
		return fmt.Errorf("%w: %s", ErrQuotaExhausted, apiErr.Message)
	case apiErr.Code == http.StatusBadRequest || apiErr.Status == "INVALID_ARGUMENT":
		return fmt.Errorf("%w: %s", ErrInvalidArgument, apiErr.Message)
	default:
		return fmt.Errorf("%w: %s (%s)", ErrAPI, apiErr.Message, apiErr.Status)
	}
}

func classifyStatus(statusCode int, raw string) error {
	switch statusCode {
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: http %d", ErrQuotaExhausted, statusCode)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: http %d", ErrInvalidArgument, statusCode)
	default:
		return fmt.Errorf("%w: http %d: %s", ErrAPI, statusCode, truncate(raw, 200))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
