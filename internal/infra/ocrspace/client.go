// Package ocrspace submits images to the OCR.space parse API.
package ocrspace

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

	"ine-ocr-server/internal/domain"
)

const (
	DefaultEndpoint = "https://api.ocr.space/parse/image"
	DefaultLanguage = "spa"
	DefaultEngine   = "2"
	DefaultTimeout  = 30 * time.Second

	// Bytes of an error body kept for the log.
	maxErrorBody = 512
)

// Options configures the client.
type Options struct {
	Endpoint   string
	APIKey     string
	Language   string
	Engine     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client implements domain.TextRecognizer against OCR.space.
type Client struct {
	endpoint   string
	apiKey     string
	language   string
	engine     string
	httpClient *http.Client
	logger     domain.Logger
}

// NewClient creates a client. Empty options fall back to the defaults.
func NewClient(opts Options, logger domain.Logger) *Client {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.Language == "" {
		opts.Language = DefaultLanguage
	}
	if opts.Engine == "" {
		opts.Engine = DefaultEngine
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	return &Client{
		endpoint:   opts.Endpoint,
		apiKey:     opts.APIKey,
		language:   opts.Language,
		engine:     opts.Engine,
		httpClient: httpClient,
		logger:     logger,
	}
}

// parseResponse is the subset of the OCR.space reply we read.
type parseResponse struct {
	ParsedResults []struct {
		ParsedText string `json:"ParsedText"`
	} `json:"ParsedResults"`
	IsErroredOnProcessing bool         `json:"IsErroredOnProcessing"`
	ErrorMessage          errorMessage `json:"ErrorMessage"`
}

// errorMessage accepts ErrorMessage as a string or as a list of strings;
// the API uses both.
type errorMessage string

func (m *errorMessage) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*m = errorMessage(single)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*m = errorMessage(strings.Join(list, "; "))
		return nil
	}
	// Unknown shapes are not worth failing the decode for.
	*m = ""
	return nil
}

// RecognizeText submits the image once. There is no retry: any failure is
// returned wrapping domain.ErrOCRUnavailable or domain.ErrNoTextExtracted.
func (c *Client) RecognizeText(ctx context.Context, image *domain.CompressedDocumentImage) (domain.OCRLineSequence, error) {
	body, contentType, err := c.buildForm(image)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build request: %v", domain.ErrOCRUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", domain.ErrOCRUnavailable, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", domain.ErrOCRUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrOCRUnavailable, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var parsed parseResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrOCRUnavailable, err)
	}

	if parsed.IsErroredOnProcessing {
		msg := string(parsed.ErrorMessage)
		if msg == "" {
			msg = "processing error"
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrOCRUnavailable, msg)
	}
	if len(parsed.ParsedResults) == 0 {
		return nil, fmt.Errorf("%w: no parsed results", domain.ErrNoTextExtracted)
	}

	lines := domain.ParseOCRText(parsed.ParsedResults[0].ParsedText)
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: empty parsed text", domain.ErrNoTextExtracted)
	}

	c.logger.Info("Extracted OCR text",
		"provider", "ocrspace",
		"lines", len(lines),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return lines, nil
}

func (c *Client) buildForm(image *domain.CompressedDocumentImage) (io.Reader, string, error) {
	if image == nil || len(image.Data) == 0 {
		return nil, "", fmt.Errorf("empty image")
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"apikey", c.apiKey},
		{"language", c.language},
		{"isOverlayRequired", "false"},
		{"OCREngine", c.engine},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}

	name := image.Name
	if name == "" {
		name = "document.jpg"
	}
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(image.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
