package ai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	ollamaDefaultBaseURL = "http://127.0.0.1:11434"
	ollamaDefaultModel   = "mistral"

	// Generous line cap for one NDJSON record from the backend.
	ollamaMaxLineBytes = 1 << 20

	ollamaPingTimeout = 2 * time.Second
)

// OllamaOption configures the Ollama client.
type OllamaOption func(*OllamaClient)

// WithOllamaHTTPClient sets the HTTP client used for requests.
func WithOllamaHTTPClient(client *http.Client) OllamaOption {
	return func(c *OllamaClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// OllamaClient talks to an Ollama-protocol text generation backend.
//
// The default HTTP client carries no timeout: generations may run
// arbitrarily long, and cancellation flows through the request context
// instead.
type OllamaClient struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOllama constructs a client for the backend at baseURL using model.
// Empty arguments fall back to the local default address and model.
func NewOllama(baseURL, model string, opts ...OllamaOption) *OllamaClient {
	if baseURL == "" {
		baseURL = ollamaDefaultBaseURL
	}
	if model == "" {
		model = ollamaDefaultModel
	}
	client := &OllamaClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

func (c *OllamaClient) BaseURL() string { return c.baseURL }
func (c *OllamaClient) Model() string   { return c.model }

type ollamaGenerateBody struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	Stream      bool    `json:"stream"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

type ollamaRecord struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Stream sends req to the backend and returns a channel of reply fragments.
//
// The sequence is lazy, finite, and not restartable: fragments are sent as
// they are decoded from the response stream, and the channel is closed when
// the backend closes the stream. Records that fail to decode are skipped;
// records without a response field contribute no fragment. Transport
// failures are delivered as a single Chunk with Err set. Cancelling ctx
// closes the channel without an error chunk; the response body is released
// on every path.
func (c *OllamaClient) Stream(ctx context.Context, req GenerateRequest) <-chan Chunk {
	ch := make(chan Chunk)
	go func() {
		defer close(ch)
		resp, err := c.postGenerate(ctx, req, true)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.send(ctx, ch, Chunk{Err: err})
			return
		}
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), ollamaMaxLineBytes)
		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}
			var rec ollamaRecord
			if err := json.Unmarshal(line, &rec); err != nil {
				// One bad record must not corrupt the rest of the stream.
				continue
			}
			if rec.Response == "" {
				continue
			}
			if !c.send(ctx, ch, Chunk{Text: rec.Response}) {
				return
			}
		}
		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			c.send(ctx, ch, Chunk{Err: fmt.Errorf("read generation stream: %w", err)})
		}
	}()
	return ch
}

// Complete sends req with streaming disabled and returns the full reply.
func (c *OllamaClient) Complete(ctx context.Context, req GenerateRequest) (string, error) {
	resp, err := c.postGenerate(ctx, req, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var rec ollamaRecord
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return "", fmt.Errorf("decode generation response: %w", err)
	}
	return rec.Response, nil
}

// Ping probes the backend base URL with a short timeout. It reports nil
// when anything is listening there, regardless of status code.
func (c *OllamaClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, ollamaPingTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return fmt.Errorf("build ping request: %w", err)
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &ConnectError{URL: c.baseURL, Err: err}
	}
	resp.Body.Close()
	return nil
}

func (c *OllamaClient) postGenerate(ctx context.Context, req GenerateRequest, stream bool) (*http.Response, error) {
	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse backend base url: %w", err)
	}
	endpoint.Path = "/api/generate"

	body := ollamaGenerateBody{
		Model:       c.model,
		Prompt:      req.FullPrompt(),
		Stream:      stream,
		Temperature: 0.7,
		TopP:        0.9,
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("encode generation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), &buf)
	if err != nil {
		return nil, fmt.Errorf("build generation request: %w", err)
	}
	httpReq.Header.Set("content-type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, &ConnectError{URL: c.baseURL, Err: err}
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		defer resp.Body.Close()
		errBody, _ := io.ReadAll(resp.Body)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(errBody)),
		}
	}
	return resp, nil
}

// send delivers c to ch unless ctx is cancelled first, so an abandoning
// consumer never leaks the producer goroutine.
func (c *OllamaClient) send(ctx context.Context, ch chan<- Chunk, chunk Chunk) bool {
	select {
	case ch <- chunk:
		return true
	case <-ctx.Done():
		return false
	}
}
