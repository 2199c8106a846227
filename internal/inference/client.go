// Package inference streams medical image analyses from an Ollama-compatible
// model runtime. A call serializes one normalized frame, posts a generate
// request, and folds the newline-delimited response stream into a single
// result. Failures are classified data, not just errors: every unsuccessful
// call maps to a stable fault category.
package inference

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vantrel/medscan/internal/imaging"
)

const (
	generatePath = "/api/generate"

	// maxLineSize bounds a single stream line; model deltas are small but
	// error payloads can be verbose.
	maxLineSize = 1 << 20
)

type generateRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Images []string `json:"images"`
	Stream bool     `json:"stream"`
}

type generateChunk struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Client issues streaming analysis calls against the model runtime.
// Each call owns its connection and accumulator, so a Client is safe for
// concurrent use.
type Client struct {
	http   *http.Client
	config Config
	logger *slog.Logger
}

// NewClient builds a Client from finalized configuration.
func NewClient(config Config, logger *slog.Logger) *Client {
	return &Client{
		http:   &http.Client{Timeout: config.Timeout()},
		config: config,
		logger: logger.With("system", "inference"),
	}
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.config.Model
}

// Analyze runs one analysis call and returns the full accumulated response.
func (c *Client) Analyze(ctx context.Context, frame image.Image, category Category) (string, error) {
	return c.AnalyzeStream(ctx, frame, category, nil)
}

// AnalyzeStream runs one analysis call, invoking onDelta for each response
// fragment as it arrives, and returns the accumulated response text.
// The category is validated before any bytes leave the process. An empty
// result with a nil error is a valid outcome. Calls are never retried.
func (c *Client) AnalyzeStream(ctx context.Context, frame image.Image, category Category, onDelta func(string)) (string, error) {
	if !category.Valid() {
		return "", validationFault(fmt.Errorf("%w: %q", ErrUnknownCategory, category))
	}

	png, err := imaging.EncodePNG(frame)
	if err != nil {
		return "", unexpectedFault(err)
	}

	body, err := json.Marshal(generateRequest{
		Model:  c.config.Model,
		Prompt: category.Prompt(),
		Images: []string{base64.StdEncoding.EncodeToString(png)},
		Stream: true,
	})
	if err != nil {
		return "", unexpectedFault(err)
	}

	url := strings.TrimSuffix(c.config.BaseURL, "/") + generatePath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", unexpectedFault(err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("dispatching analysis",
		"category", category,
		"model", c.config.Model,
		"payload_bytes", len(body),
	)

	res, err := c.http.Do(req)
	if err != nil {
		return "", transportFault("request failed: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return "", transportFault("unexpected status %d: %s", res.StatusCode, strings.TrimSpace(string(snippet)))
	}

	return c.consume(res.Body, onDelta)
}

// consume folds the newline-delimited stream into the accumulated response.
// Fragments append in arrival order. A done marker stops reading immediately;
// a clean end of stream without one counts as completion.
func (c *Client) consume(body io.Reader, onDelta func(string)) (string, error) {
	var result strings.Builder

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var chunk generateChunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			return "", protocolFault("malformed stream line: %v", err)
		}

		if chunk.Response != "" {
			result.WriteString(chunk.Response)
			if onDelta != nil {
				onDelta(chunk.Response)
			}
		}

		if chunk.Done {
			return result.String(), nil
		}
	}

	if err := scanner.Err(); err != nil {
		return "", transportFault("stream read failed: %v", err)
	}

	return result.String(), nil
}
