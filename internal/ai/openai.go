package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
)

// OpenAIImageClient generates images through the OpenAI Images API.
type OpenAIImageClient struct {
	apiKey string
	model  string
	sdk    openai.Client
}

// NewOpenAIImage constructs an OpenAI image client. The apiKey is required;
// an empty model uses dall-e-3.
func NewOpenAIImage(apiKey, model string) (*OpenAIImageClient, error) {
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY is required")
	}
	if model == "" {
		model = string(openai.ImageModelDallE3)
	}
	sdk := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIImageClient{apiKey: apiKey, model: model, sdk: sdk}, nil
}

func (c *OpenAIImageClient) Model() string { return c.model }

// Generate renders one image and returns the decoded bytes. The API has no
// negative prompt or step controls, so those fields only pick the closest
// supported output size.
func (c *OpenAIImageClient) Generate(ctx context.Context, req ImageRequest) ([]byte, error) {
	res, err := c.sdk.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         req.Prompt,
		Model:          openai.ImageModel(c.model),
		N:              param.NewOpt(int64(1)),
		ResponseFormat: openai.ImageGenerateParamsResponseFormatB64JSON,
		Size:           imageSizeFor(req.Width, req.Height),
	})
	if err != nil {
		return nil, err
	}
	if len(res.Data) == 0 {
		return nil, errors.New("no image in response")
	}
	data, err := base64.StdEncoding.DecodeString(res.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("decode image payload: %w", err)
	}
	return data, nil
}

func imageSizeFor(width, height int) openai.ImageGenerateParamsSize {
	switch {
	case width > height:
		return openai.ImageGenerateParamsSize1792x1024
	case height > width:
		return openai.ImageGenerateParamsSize1024x1792
	default:
		return openai.ImageGenerateParamsSize1024x1024
	}
}
