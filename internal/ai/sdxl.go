package ai

import (
	"bytes"
	"context"
	"encoding/base64"
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
	sdxlDefaultBaseURL = "http://127.0.0.1:7860/api"

	sdxlDefaultNegativePrompt = "low quality, blurry, distorted"
	sdxlDefaultWidth          = 768
	sdxlDefaultHeight         = 1024
	sdxlDefaultSteps          = 30
	sdxlDefaultCFGScale       = 7.5
	sdxlDefaultSampler        = "DPM++ 2M Karras"
)

// SDXLOption configures the SDXL client.
type SDXLOption func(*SDXLClient)

// WithSDXLHTTPClient sets the HTTP client used for requests.
func WithSDXLHTTPClient(client *http.Client) SDXLOption {
	return func(c *SDXLClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// SDXLClient generates images through an SDXL WebUI txt2img endpoint.
type SDXLClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewSDXL constructs a client for the SDXL API at baseURL (empty uses the
// local default).
func NewSDXL(baseURL string, opts ...SDXLOption) *SDXLClient {
	if baseURL == "" {
		baseURL = sdxlDefaultBaseURL
	}
	client := &SDXLClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

func (c *SDXLClient) BaseURL() string { return c.baseURL }

type sdxlTxt2ImgBody struct {
	Prompt         string  `json:"prompt"`
	NegativePrompt string  `json:"negative_prompt"`
	Steps          int     `json:"steps"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	CFGScale       float64 `json:"cfg_scale"`
	SamplerName    string  `json:"sampler_name"`
}

type sdxlTxt2ImgResponse struct {
	Images []string `json:"images"`
}

// Generate renders one image and returns the decoded PNG bytes. Zero-valued
// request fields fall back to the standard SDXL defaults.
func (c *SDXLClient) Generate(ctx context.Context, req ImageRequest) ([]byte, error) {
	endpoint, err := url.Parse(c.baseURL + "/txt2img")
	if err != nil {
		return nil, fmt.Errorf("parse sdxl base url: %w", err)
	}

	body := sdxlTxt2ImgBody{
		Prompt:         req.Prompt,
		NegativePrompt: req.NegativePrompt,
		Steps:          req.Steps,
		Width:          req.Width,
		Height:         req.Height,
		CFGScale:       sdxlDefaultCFGScale,
		SamplerName:    sdxlDefaultSampler,
	}
	if body.NegativePrompt == "" {
		body.NegativePrompt = sdxlDefaultNegativePrompt
	}
	if body.Steps <= 0 {
		body.Steps = sdxlDefaultSteps
	}
	if body.Width <= 0 {
		body.Width = sdxlDefaultWidth
	}
	if body.Height <= 0 {
		body.Height = sdxlDefaultHeight
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("encode txt2img request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), &buf)
	if err != nil {
		return nil, fmt.Errorf("build txt2img request: %w", err)
	}
	httpReq.Header.Set("content-type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, &ConnectError{URL: c.baseURL, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		errBody, _ := io.ReadAll(resp.Body)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(errBody)),
		}
	}

	var result sdxlTxt2ImgResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode txt2img response: %w", err)
	}
	if len(result.Images) == 0 {
		return nil, errors.New("no image in txt2img response")
	}
	data, err := base64.StdEncoding.DecodeString(result.Images[0])
	if err != nil {
		return nil, fmt.Errorf("decode image payload: %w", err)
	}
	return data, nil
}
