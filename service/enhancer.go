package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/g3lasio/owlfenc/config"
	"github.com/g3lasio/owlfenc/pkg/logger"
)

// Enhancer rewrites contract prose, e.g. a scope-of-work description, into
// clearer text for a project category.
type Enhancer interface {
	Enhance(ctx context.Context, text, category string) (string, error)
}

var ErrEnhancerDisabled = errors.New("text enhancement is disabled")

// NewEnhancer builds the enhancer selected by cfg.
func NewEnhancer(ctx context.Context, cfg *config.EnhancerConfig) (Enhancer, error) {
	switch cfg.Provider {
	case config.EnhancerHTTP:
		return NewHTTPEnhancer(cfg), nil
	case config.EnhancerGemini:
		return NewGeminiEnhancer(ctx, cfg)
	default:
		return NoopEnhancer{}, nil
	}
}

// EnhanceBestEffort returns the enhanced text, or the raw text when the
// enhancer fails, times out or returns nothing. The bool reports whether the
// text was enhanced.
func EnhanceBestEffort(ctx context.Context, e Enhancer, timeout time.Duration, text, category string) (string, bool) {
	if e == nil || strings.TrimSpace(text) == "" {
		return text, false
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := e.Enhance(ctx, text, category)
	if err != nil {
		if !errors.Is(err, ErrEnhancerDisabled) {
			logger.Warn(ctx, "text enhancement failed, keeping original", "category", category, "error", err)
		}
		return text, false
	}
	if strings.TrimSpace(out) == "" {
		return text, false
	}
	return strings.TrimSpace(out), true
}

// NoopEnhancer is used when no provider is configured.
type NoopEnhancer struct{}

func (NoopEnhancer) Enhance(context.Context, string, string) (string, error) {
	return "", ErrEnhancerDisabled
}

// HTTPEnhancer calls a JSON text-enhancement endpoint.
type HTTPEnhancer struct {
	config     *config.EnhancerConfig
	httpClient *http.Client
}

// EnhanceRequest is the body posted to {api_url}/enhance.
type EnhanceRequest struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

// EnhanceResponse is the envelope returned by the endpoint. Code 0 is success.
type EnhanceResponse struct {
	Code    int    `json:"code"`
	Message string `json:"msg"`
	Data    struct {
		Text string `json:"text"`
	} `json:"data"`
}

func NewHTTPEnhancer(cfg *config.EnhancerConfig) *HTTPEnhancer {
	return &HTTPEnhancer{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

func (s *HTTPEnhancer) Enhance(ctx context.Context, text, category string) (string, error) {
	jsonData, err := json.Marshal(EnhanceRequest{Text: text, Category: category})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(s.config.APIURL, "/")+"/enhance", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	if s.config.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.config.APIToken)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("enhancer returned status %d", resp.StatusCode)
	}

	var result EnhanceResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if result.Code != 0 {
		return "", fmt.Errorf("enhancer API error: %s", result.Message)
	}
	return result.Data.Text, nil
}
