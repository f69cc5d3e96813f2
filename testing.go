package hatch

import (
	"context"
	"fmt"
	"sync/atomic"
)

// stubGenerator is a deterministic in-memory generator for tests and
// offline dry runs.
type stubGenerator struct {
	calls atomic.Int64
}

func (g *stubGenerator) Generate(ctx context.Context, model string, prompt string, refs []*ReferenceImage) (*GenerationResult, error) {
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}
	n := g.calls.Add(1)
	return &GenerationResult{
		ID:       fmt.Sprintf("gen-%04d", n),
		Data:     []byte(fmt.Sprintf("stub-image:%s", model)),
		MimeType: "image/png",
	}, nil
}

// NewStudioForTesting creates a Studio backed by a stub generator that
// needs no API client and produces deterministic generation ids.
func NewStudioForTesting(opts ...StudioOption) *Studio {
	s, err := NewStudio(&stubGenerator{}, opts...)
	if err != nil {
		panic(err) // stub construction cannot fail with a non-nil generator
	}
	return s
}
