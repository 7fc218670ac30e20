// Package gemini implements the external analysis client on Google's
// generative model API.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/fairyhunter13/ai-career-coach/internal/adapter/observability"
	"github.com/fairyhunter13/ai-career-coach/internal/config"
	"github.com/fairyhunter13/ai-career-coach/internal/domain"
)

// Generation parameters for the analysis call.
const (
	temperature     = 0.7
	topP            = 0.95
	topK            = 40
	maxOutputTokens = 4096
)

// Client calls the Gemini API and decodes its JSON analysis. It implements
// domain.AnalysisClient; every failure mode is wrapped in
// domain.ErrExternalService so callers can fall back uniformly.
type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration

	backoffMaxElapsed time.Duration
	backoffInitial    time.Duration
	backoffMax        time.Duration
	backoffMultiplier float64
}

// NewClient builds a Gemini-backed analysis client from configuration.
func NewClient(ctx context.Context, cfg config.Config) (*Client, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("op=gemini.NewClient: %w: missing API key", domain.ErrExternalService)
	}
	gc, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("op=gemini.NewClient: %w", err)
	}
	return &Client{
		client:            gc,
		model:             cfg.GeminiModel,
		timeout:           cfg.GeminiTimeout,
		backoffMaxElapsed: cfg.AIBackoffMaxElapsedTime,
		backoffInitial:    cfg.AIBackoffInitialInterval,
		backoffMax:        cfg.AIBackoffMaxInterval,
		backoffMultiplier: cfg.AIBackoffMultiplier,
	}, nil
}

// Close releases the underlying API client.
func (c *Client) Close() error { return c.client.Close() }

// Analyze sends the resume text to the model and returns the normalized
// analysis result.
func (c *Client) Analyze(ctx domain.Context, resumeText string) (domain.AnalysisResult, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	text, err := c.generate(callCtx, buildAnalysisPrompt(resumeText))
	observability.ObserveAIRequest("gemini", "analyze", time.Since(start))
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("op=gemini.Analyze: %w: %v", domain.ErrExternalService, err)
	}

	res, err := domain.DecodeAnalysis([]byte(cleanJSONResponse(text)))
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("op=gemini.Analyze: %w: %v", domain.ErrExternalService, err)
	}
	return domain.NormalizeAnalysis(res), nil
}

// generate performs the model call with exponential backoff. Context
// cancellation stops the retry loop.
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetTopK(topK)
	model.SetMaxOutputTokens(maxOutputTokens)

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = c.backoffMaxElapsed
	bo.InitialInterval = c.backoffInitial
	bo.MaxInterval = c.backoffMax
	bo.Multiplier = c.backoffMultiplier

	var out string
	op := func() error {
		resp, err := model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return err
		}
		out, err = extractText(resp)
		return err
	}
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return "", err
	}
	return out, nil
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return sb.String(), nil
}
