package ai

import "context"

// TextGenerator streams and completes text from a generation backend.
type TextGenerator interface {
	Stream(ctx context.Context, req GenerateRequest) <-chan Chunk
	Complete(ctx context.Context, req GenerateRequest) (string, error)
	Ping(ctx context.Context) error
}

// ImageGenerator produces one image per request.
type ImageGenerator interface {
	Generate(ctx context.Context, req ImageRequest) ([]byte, error)
}

// GenerateRequest carries one prompt plus optional conversational context.
type GenerateRequest struct {
	Prompt  string
	Context string
}

// FullPrompt joins context and prompt with a separating blank line.
// An empty context leaves the prompt unmodified.
func (r GenerateRequest) FullPrompt() string {
	if r.Context == "" {
		return r.Prompt
	}
	return r.Context + "\n\n" + r.Prompt
}

// Chunk is one streamed fragment of generated text. Err is set on at most
// the final chunk of a stream; the channel is closed afterwards.
type Chunk struct {
	Text string
	Err  error
}

// ImageRequest describes a single image generation.
type ImageRequest struct {
	Prompt         string
	NegativePrompt string
	Width          int
	Height         int
	Steps          int
}
