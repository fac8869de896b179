// Package advisor sequences the generative-model pipeline: build prompt,
// invoke the model, extract and decode the JSON payload.
package advisor

import (
	"context"
	"time"

	"github.com/arthsathi/arthsathi/internal/domain"
	"github.com/arthsathi/arthsathi/internal/prompt"
)

// Generator is the external model boundary: one text prompt in, generated
// text out. Implemented by the Gemini client; stubbed in tests.
type Generator interface {
	Generate(ctx context.Context, promptText string) (string, error)
}

// Advisor runs the three advisory operations. Each is a single blocking
// round trip: no retries, no caching, no partial-failure recovery. A failed
// call aborts the whole user-facing request.
type Advisor struct {
	gen     Generator
	timeout time.Duration
}

// New creates an Advisor. timeout bounds each model call; without a bound a
// hung model call becomes a hung request, so a zero timeout falls back to
// 60s rather than meaning infinite.
func New(gen Generator, timeout time.Duration) *Advisor {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Advisor{gen: gen, timeout: timeout}
}

// AnalyzeProfile asks the model for a structured analysis of the profile.
func (a *Advisor) AnalyzeProfile(ctx context.Context, profile domain.Profile) (*domain.Analysis, error) {
	raw, err := a.generate(ctx, "analyze profile", prompt.ProfileAnalysis(profile))
	if err != nil {
		return nil, err
	}

	var analysis domain.Analysis
	if err := decodeJSON(raw, &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

// Recommend asks the model to evaluate the filtered schemes and loan
// suitability against the prior analysis.
func (a *Advisor) Recommend(ctx context.Context, profile domain.Profile, analysis domain.Analysis, schemes []domain.Scheme) (*domain.RecommendationBundle, error) {
	raw, err := a.generate(ctx, "generate recommendations", prompt.Recommendations(profile, analysis, schemes))
	if err != nil {
		return nil, err
	}

	var bundle domain.RecommendationBundle
	if err := decodeJSON(raw, &bundle); err != nil {
		return nil, err
	}
	return &bundle, nil
}

// Explain asks the model for a plain-language rendering of the analysis and
// recommendations. language is "hi" for Hindi, anything else is English.
func (a *Advisor) Explain(ctx context.Context, analysis domain.Analysis, recommendations domain.RecommendationBundle, language string) (*domain.Explanation, error) {
	p, err := prompt.SimpleExplanation(analysis, recommendations, language)
	if err != nil {
		return nil, &domain.ExternalServiceError{Op: "build explanation prompt", Err: err}
	}

	raw, err := a.generate(ctx, "explain in simple language", p)
	if err != nil {
		return nil, err
	}

	var explanation domain.Explanation
	if err := decodeJSON(raw, &explanation); err != nil {
		return nil, err
	}
	return &explanation, nil
}

func (a *Advisor) generate(ctx context.Context, op, promptText string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	raw, err := a.gen.Generate(callCtx, promptText)
	if err != nil {
		return "", &domain.ExternalServiceError{Op: op, Err: err}
	}
	return raw, nil
}
