package insight

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

// Gemini is a Model backed by the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

var _ Model = (*Gemini)(nil)

// NewGemini authenticates with an API key.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("missing API key")
	}
	return newGemini(ctx, model, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
}

func newGemini(ctx context.Context, model string, cfg *genai.ClientConfig) (*Gemini, error) {
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// Generate returns the concatenated text of the first candidate, or "" when
// the model produced none.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return resp.Text(), nil
}

// FromConfig builds the generator for the configured key. With no key, or
// when the client cannot be built, it still returns a usable generator.
func FromConfig(ctx context.Context, apiKey, model string, log zerolog.Logger) *Generator {
	if strings.TrimSpace(apiKey) == "" {
		log.Info().Msg("no API key configured, insights disabled")
		return New(nil, log)
	}
	g, err := NewGemini(ctx, apiKey, model)
	if err != nil {
		log.Error().Err(err).Msg("init insight model failed")
		return New(brokenModel{err: err}, log)
	}
	return New(g, log)
}

// brokenModel reports its construction error on every call.
type brokenModel struct{ err error }

func (b brokenModel) Generate(context.Context, string) (string, error) { return "", b.err }
