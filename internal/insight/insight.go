// Package insight produces a short motivational line for the day's stats.
// Callers always get text back: every failure maps to a fixed fallback.
package insight

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sadopc/mediorg/internal/health"
)

const (
	FallbackUnavailable = "AI insights are unavailable (Missing API Key)."
	FallbackError       = "Great job tracking your health today! Keep it up!"
	FallbackEmpty       = "Keep moving forward!"
)

// Model turns a prompt into text.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Generator wraps a Model with the fallback rules.
type Generator struct {
	model Model
	log   zerolog.Logger
}

// New returns a generator. A nil model means no credential is configured.
func New(model Model, log zerolog.Logger) *Generator {
	return &Generator{model: model, log: log}
}

// Available reports whether a model is configured.
func (g *Generator) Available() bool {
	return g.model != nil
}

// Insight never fails; see the Fallback constants.
func (g *Generator) Insight(ctx context.Context, stats health.DailyStats) (text string) {
	if g.model == nil {
		return FallbackUnavailable
	}
	defer func() {
		if r := recover(); r != nil {
			g.log.Error().Interface("panic", r).Msg("insight model panicked")
			text = FallbackError
		}
	}()

	out, err := g.model.Generate(ctx, Prompt(stats))
	if err != nil {
		g.log.Error().Err(err).Msg("fetch insight failed")
		return FallbackError
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return FallbackEmpty
	}
	return out
}

// Prompt renders the request sent to the model.
func Prompt(stats health.DailyStats) string {
	var b strings.Builder
	b.WriteString("I am tracking my health. Today I have achieved:\n")
	for _, t := range health.Types {
		fmt.Fprintf(&b, "- %s: %s %s\n", t.Label(), formatAmount(stats[t]), t.Unit())
	}
	b.WriteString("\nProvide a single, short (max 20 words), encouraging, and specific health tip or observation based on these numbers.\n")
	b.WriteString("Use a friendly, motivational tone.")
	return b.String()
}

func formatAmount(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
