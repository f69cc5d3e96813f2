package hatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"google.golang.org/genai"
)

// ErrEmptyPrompt is returned when a generation is requested with no prompt.
var ErrEmptyPrompt = errors.New("prompt is empty")

// GenerationResult is what a Generator hands back: the image bytes plus the
// id used to fetch the actual cost afterwards.
type GenerationResult struct {
	ID       string // generation id, keys the cost-stats lookup
	Data     []byte
	MimeType string
}

// Generator abstraction allows mocking, retrying, and swapping providers.
type Generator interface {
	Generate(ctx context.Context, model string, prompt string, refs []*ReferenceImage) (*GenerationResult, error)
}

// genaiGenerator produces images through the Gemini API.
type genaiGenerator struct {
	client *genai.Client
	log    *slog.Logger
}

// NewGenaiGenerator wraps a genai client as a Generator. A nil logger falls
// back to slog.Default().
func NewGenaiGenerator(client *genai.Client, log *slog.Logger) Generator {
	if log == nil {
		log = slog.Default()
	}
	return &genaiGenerator{client: client, log: log}
}

func (g *genaiGenerator) Generate(ctx context.Context, model string, prompt string, refs []*ReferenceImage) (*GenerationResult, error) {
	if g.client == nil {
		return nil, fmt.Errorf("client not initialized")
	}
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	for _, ref := range refs {
		parts = append(parts, genai.NewPartFromBytes(ref.Data, ref.MimeType))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	}

	g.log.Debug("generating image", "model", model, "prompt_length", len(prompt), "ref_count", len(refs))
	resp, err := g.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, fmt.Errorf("no parts in candidate content")
	}

	for _, part := range candidate.Content.Parts {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			g.log.Debug("generated image", "model", model, "bytes", len(part.InlineData.Data), "mime_type", part.InlineData.MIMEType)
			return &GenerationResult{
				ID:       uuid.NewString(),
				Data:     part.InlineData.Data,
				MimeType: part.InlineData.MIMEType,
			}, nil
		}
	}
	return nil, fmt.Errorf("no image data in response")
}
