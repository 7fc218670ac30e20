// Package usecase contains application business logic services.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fairyhunter13/ai-career-coach/internal/adapter/observability"
	"github.com/fairyhunter13/ai-career-coach/internal/domain"
)

// Minimum usable lengths in the text resolution cascade.
const (
	minResolvedLen  = 50 // below this, the synthetic profile fallback kicks in
	minSyntheticLen = 20 // synthetic text shorter than this is discarded
)

// AnalyzeService orchestrates the resume analysis pipeline: text resolution,
// external model invocation, and the deterministic local fallback.
type AnalyzeService struct {
	Profiles  domain.ProfileRepository
	Extractor domain.TextExtractor
	AI        domain.AnalysisClient
	Fallback  domain.FallbackAnalyzer
	Cache     domain.AnalysisCache

	// ExtractTimeout bounds the stored-document extraction source; on
	// expiry that source is skipped, not failed.
	ExtractTimeout time.Duration
}

// NewAnalyzeService constructs an AnalyzeService. AI and Cache may be nil;
// a nil AI routes every request through the fallback analyzer.
func NewAnalyzeService(p domain.ProfileRepository, x domain.TextExtractor, ai domain.AnalysisClient, fb domain.FallbackAnalyzer, cache domain.AnalysisCache, extractTimeout time.Duration) AnalyzeService {
	return AnalyzeService{Profiles: p, Extractor: x, AI: ai, Fallback: fb, Cache: cache, ExtractTimeout: extractTimeout}
}

// Analyze resolves the best available resume text for the user and returns
// a normalized analysis. External failures are absorbed by the fallback
// analyzer and never surface to the caller.
func (s AnalyzeService) Analyze(ctx domain.Context, userID, providedText string) (domain.AnalysisResult, error) {
	profile, err := s.Profiles.GetByUser(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		// A broken profile store only costs us the fallback tiers.
		slog.Warn("profile load failed; continuing without stored profile",
			slog.String("user_id", userID), slog.Any("error", err))
		profile = domain.Profile{}
	}

	text := s.resolveText(ctx, providedText, profile)
	if text == "" {
		// Preserved behavior: analysis proceeds and yields a
		// low-confidence result rather than a hard error.
		slog.Warn("insufficient resume content; analyzing empty text",
			slog.String("user_id", userID))
	}

	if s.Cache != nil && text != "" {
		if res, ok := s.Cache.Get(ctx, text); ok {
			observability.AnalysesTotal.WithLabelValues("cache").Inc()
			return res, nil
		}
	}

	res, err := s.analyzeExternal(ctx, text)
	source := "gemini"
	if err != nil {
		slog.Warn("external analysis failed; using heuristic fallback",
			slog.Any("error", err))
		res = s.Fallback.Analyze(text)
		source = "heuristic"
	}

	if s.Cache != nil && text != "" {
		s.Cache.Set(ctx, text, res)
	}
	observability.AnalysesTotal.WithLabelValues(source).Inc()
	return res, nil
}

func (s AnalyzeService) analyzeExternal(ctx domain.Context, text string) (domain.AnalysisResult, error) {
	if s.AI == nil {
		return domain.AnalysisResult{}, fmt.Errorf("%w: no analysis credential configured", domain.ErrExternalService)
	}
	return s.AI.Analyze(ctx, text)
}

// resolveText walks the fixed source cascade: provided text, stored parsed
// text, stored document extraction, then a synthetic profile summary when
// everything else is empty or too short to analyze.
func (s AnalyzeService) resolveText(ctx domain.Context, provided string, p domain.Profile) string {
	text := strings.TrimSpace(provided)

	if text == "" {
		text = strings.TrimSpace(p.ParsedResumeText)
	}

	if text == "" && p.ResumePath != "" && s.Extractor != nil {
		text = s.extractStored(ctx, p.ResumePath)
	}

	if len(text) < minResolvedLen {
		if synthetic := syntheticProfileText(p); len(synthetic) >= minSyntheticLen {
			text = synthetic
		}
	}
	return text
}

// extractStored pulls text from the stored resume document, bounded by
// ExtractTimeout. Timeouts and extraction errors skip this source.
func (s AnalyzeService) extractStored(ctx domain.Context, path string) string {
	extractCtx, cancel := context.WithTimeout(ctx, s.ExtractTimeout)
	defer cancel()

	text, err := s.Extractor.ExtractPath(extractCtx, path)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %v", domain.ErrExtractionTimeout, err)
		}
		slog.Warn("stored document extraction skipped",
			slog.String("path", path), slog.Any("error", err))
		return ""
	}
	return strings.TrimSpace(text)
}

// syntheticProfileText concatenates headline, bio, and comma-joined skills,
// newline-separated, skipping empty fields.
func syntheticProfileText(p domain.Profile) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{
		strings.TrimSpace(p.Headline),
		strings.TrimSpace(p.Bio),
		strings.Join(p.Skills, ", "),
	} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, "\n")
}
