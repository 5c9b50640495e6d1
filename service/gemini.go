package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/g3lasio/owlfenc/config"
	"github.com/g3lasio/owlfenc/pkg/logger"
	genai "google.golang.org/genai"
)

// contentGenerator is the slice of the genai client the enhancer uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiEnhancer asks a Gemini model to rewrite contract prose.
type GeminiEnhancer struct {
	models     contentGenerator
	model      string
	maxRetries int
	backoff    time.Duration
}

var errEmptyCompletion = errors.New("gemini returned no text")

func NewGeminiEnhancer(ctx context.Context, cfg *config.EnhancerConfig) (*GeminiEnhancer, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiEnhancer{
		models:     cli.Models,
		model:      cfg.Model,
		maxRetries: cfg.MaxRetries,
		backoff:    500 * time.Millisecond,
	}, nil
}

func enhancePrompt(text, category string) string {
	if category == "" {
		category = "general construction"
	}
	return "You edit contract language for a licensed " + category + " contractor. " +
		"Rewrite the following description so it is clear, specific and professional. " +
		"Keep every quantity, material and date. Do not add obligations or legal terms. " +
		"Reply with the rewritten text only.\n\n" + text
}

func (g *GeminiEnhancer) Enhance(ctx context.Context, text, category string) (string, error) {
	contents := []*genai.Content{{Parts: []*genai.Part{{Text: enhancePrompt(text, category)}}}}

	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(g.backoff * time.Duration(attempt)):
			}
			logger.Debug(ctx, "retrying gemini enhancement", "attempt", attempt, "error", lastErr)
		}

		resp, err := g.models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{ResponseMIMEType: "text/plain"})
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			continue
		}
		out, err := completionText(resp)
		if err != nil {
			lastErr = err
			continue
		}
		return out, nil
	}
	return "", fmt.Errorf("gemini enhancement failed after %d attempt(s): %w", g.maxRetries+1, lastErr)
}

func completionText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errEmptyCompletion
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil {
			b.WriteString(p.Text)
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", errEmptyCompletion
	}
	return b.String(), nil
}
