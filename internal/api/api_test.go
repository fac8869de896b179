package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/arthsathi/arthsathi/internal/advisor"
	"github.com/arthsathi/arthsathi/internal/catalog"
	"github.com/arthsathi/arthsathi/internal/domain"
	"github.com/arthsathi/arthsathi/internal/ratelimit"
)

// scriptedGenerator returns canned responses in order, or a fixed error.
type scriptedGenerator struct {
	responses []string
	err       error
	calls     int
}

func (g *scriptedGenerator) Generate(ctx context.Context, promptText string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	if g.calls >= len(g.responses) {
		return "", errors.New("no more scripted responses")
	}
	resp := g.responses[g.calls]
	g.calls++
	return resp, nil
}

const analysisJSON = `{
	"incomePattern": {"type": "daily", "volatility": "medium", "description": "daily wages"},
	"riskAssessment": {"level": "moderate", "factors": ["market"], "description": "market dependent"},
	"repaymentCapacity": {"score": 6, "monthlyCapacity": 3000, "description": "modest surplus"},
	"recommendations": {"suitableForLoan": true, "suitableForScheme": true, "priority": "loan", "reasoning": "working capital need"},
	"warningFlags": [],
	"confidenceScore": 0.85
}`

const bundleJSON = `{
	"schemeRecommendations": [
		{"schemeId": "mudra_shishu", "suitability": "suitable", "reasoning": "fits micro-enterprise", "eligibilityMatch": 90, "actionSteps": ["visit bank"]},
		{"schemeId": "fake_scheme", "suitability": "suitable", "reasoning": "does not exist", "eligibilityMatch": 80, "actionSteps": []}
	],
	"loanEvaluation": {"suitability": "suitable", "recommendedAmount": 30000, "recommendedTenure": 12, "repaymentFrequency": "monthly", "reasoning": "stable surplus", "mitigationSteps": [], "alternatives": []},
	"comparison": {"bestOption": "mudra_shishu", "reasoning": "cheapest credit", "timeline": "15-30 days"}
}`

const explanationJSON = `{
	"summary": "A small MUDRA loan fits your daily income.",
	"keyPoints": ["collateral-free"],
	"nextSteps": ["gather documents"],
	"warnings": []
}`

func newTestFilter(t *testing.T) *catalog.Filter {
	t.Helper()
	f, err := catalog.NewFilter()
	if err != nil {
		t.Fatalf("NewFilter failed: %v", err)
	}
	return f
}

func newTestServer(t *testing.T, gen advisor.Generator, limiter ratelimit.Limiter) *Server {
	t.Helper()

	var adv *advisor.Advisor
	if gen != nil {
		adv = advisor.New(gen, time.Second)
	}
	return NewServer(domain.ServerConfig{}, adv, newTestFilter(t), nil, nil, limiter, "test")
}

func doRequest(t *testing.T, srv *Server, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) apiResponse {
	t.Helper()

	var resp apiResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return resp
}

const validProfileJSON = `{
	"incomeType": "daily",
	"monthlyIncome": 15000,
	"incomeStability": "somewhat_stable",
	"householdExpenses": 9000,
	"purpose": "working_capital",
	"riskExposure": ["market"]
}`

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil, nil)

	rec := doRequest(t, srv, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %q", body["status"])
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("expected X-Request-ID response header")
	}
}

func TestListSchemes(t *testing.T) {
	srv := newTestServer(t, nil, nil)

	rec := doRequest(t, srv, http.MethodGet, "/api/schemes", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Success bool            `json:"success"`
		Data    []domain.Scheme `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !resp.Success {
		t.Error("expected success")
	}
	if len(resp.Data) != catalog.Count() {
		t.Errorf("expected %d schemes, got %d", catalog.Count(), len(resp.Data))
	}
}

func TestGetScheme(t *testing.T) {
	srv := newTestServer(t, nil, nil)

	t.Run("Found", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/schemes/pm_kisan", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "PM-KISAN") {
			t.Error("expected scheme payload")
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/schemes/nonexistent", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		resp := decodeResponse(t, rec)
		if resp.Success {
			t.Error("expected success false")
		}
	})
}

func TestAnalyzeProfileValidation(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{analysisJSON}}
	srv := newTestServer(t, gen, nil)

	t.Run("MissingPurpose", func(t *testing.T) {
		body := `{
			"incomeType": "daily",
			"monthlyIncome": 15000,
			"incomeStability": "somewhat_stable",
			"householdExpenses": 9000
		}`

		rec := doRequest(t, srv, http.MethodPost, "/api/analyze-profile", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		resp := decodeResponse(t, rec)
		if resp.Error != "Missing required fields: purpose" {
			t.Errorf("unexpected error message: %q", resp.Error)
		}
	})

	t.Run("ZeroIncomeCountsAsMissing", func(t *testing.T) {
		body := `{
			"incomeType": "daily",
			"monthlyIncome": 0,
			"incomeStability": "somewhat_stable",
			"householdExpenses": 9000,
			"purpose": "working_capital"
		}`

		rec := doRequest(t, srv, http.MethodPost, "/api/analyze-profile", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		resp := decodeResponse(t, rec)
		if resp.Error != "Missing required fields: monthlyIncome" {
			t.Errorf("unexpected error message: %q", resp.Error)
		}
	})

	t.Run("MalformedRiskExposureTolerated", func(t *testing.T) {
		body := `{
			"incomeType": "daily",
			"monthlyIncome": 15000,
			"incomeStability": "somewhat_stable",
			"householdExpenses": 9000,
			"purpose": "working_capital",
			"riskExposure": "not-an-array"
		}`

		rec := doRequest(t, srv, http.MethodPost, "/api/analyze-profile", body)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/analyze-profile", "{not json")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestAnalyzeProfileNoKey(t *testing.T) {
	srv := newTestServer(t, nil, nil)

	rec := doRequest(t, srv, http.MethodPost, "/api/analyze-profile", validProfileJSON)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Error != keyNotSetMessage {
		t.Errorf("unexpected error message: %q", resp.Error)
	}
}

func TestAnalyzeProfileSuccess(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"```json\n" + analysisJSON + "\n```"}}
	srv := newTestServer(t, gen, nil)

	rec := doRequest(t, srv, http.MethodPost, "/api/analyze-profile", validProfileJSON)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool                   `json:"success"`
		Data    AnalyzeProfileResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !resp.Success {
		t.Error("expected success")
	}
	if resp.Data.Analysis == nil {
		t.Fatal("expected analysis in response")
	}
	if resp.Data.Analysis.ConfidenceScore != 0.85 {
		t.Errorf("expected confidence 0.85, got %v", resp.Data.Analysis.ConfidenceScore)
	}
	if resp.Data.Profile.MonthlyIncome != 15000 {
		t.Errorf("expected profile echoed back, got income %v", resp.Data.Profile.MonthlyIncome)
	}
}

func TestAnalyzeProfileErrorSanitization(t *testing.T) {
	t.Run("CredentialErrorGetsKeyHint", func(t *testing.T) {
		gen := &scriptedGenerator{err: errors.New("API key not valid. Please pass a valid API key.")}
		srv := newTestServer(t, gen, nil)

		rec := doRequest(t, srv, http.MethodPost, "/api/analyze-profile", validProfileJSON)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		resp := decodeResponse(t, rec)
		if resp.Error != keyHintMessage {
			t.Errorf("expected key hint, got %q", resp.Error)
		}
	})

	t.Run("ShortMessagePassesThrough", func(t *testing.T) {
		gen := &scriptedGenerator{err: errors.New("model unreachable")}
		srv := newTestServer(t, gen, nil)

		rec := doRequest(t, srv, http.MethodPost, "/api/analyze-profile", validProfileJSON)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		resp := decodeResponse(t, rec)
		if !strings.Contains(resp.Error, "model unreachable") {
			t.Errorf("expected passthrough message, got %q", resp.Error)
		}
	})

	t.Run("LongMessageGoesGeneric", func(t *testing.T) {
		gen := &scriptedGenerator{err: errors.New(strings.Repeat("x", 300))}
		srv := newTestServer(t, gen, nil)

		rec := doRequest(t, srv, http.MethodPost, "/api/analyze-profile", validProfileJSON)
		resp := decodeResponse(t, rec)
		if resp.Error != "Failed to analyze profile. Please try again." {
			t.Errorf("expected generic message, got %q", resp.Error)
		}
	})

	t.Run("MalformedResponseGoesThrough", func(t *testing.T) {
		gen := &scriptedGenerator{responses: []string{"sorry, I cannot help with that"}}
		srv := newTestServer(t, gen, nil)

		rec := doRequest(t, srv, http.MethodPost, "/api/analyze-profile", validProfileJSON)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		resp := decodeResponse(t, rec)
		if resp.Error == "" {
			t.Error("expected an error message")
		}
	})
}

func TestGetRecommendationsValidation(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{bundleJSON, explanationJSON}}
	srv := newTestServer(t, gen, nil)

	t.Run("MissingAnalysis", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/get-recommendations",
			`{"profileData": `+validProfileJSON+`}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		resp := decodeResponse(t, rec)
		if resp.Error != "Profile data and analysis are required" {
			t.Errorf("unexpected error message: %q", resp.Error)
		}
	})

	t.Run("MissingProfile", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/get-recommendations",
			`{"analysis": `+analysisJSON+`}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestGetRecommendationsSuccess(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{bundleJSON, explanationJSON}}
	srv := newTestServer(t, gen, nil)

	body := `{"profileData": ` + validProfileJSON + `, "analysis": ` + analysisJSON + `}`
	rec := doRequest(t, srv, http.MethodPost, "/api/get-recommendations", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool                    `json:"success"`
		Data    RecommendationsResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !resp.Success {
		t.Error("expected success")
	}

	// The fake_scheme recommendation must have been dropped.
	recs := resp.Data.Recommendations.SchemeRecommendations
	if len(recs) != 1 {
		t.Fatalf("expected 1 recommendation after dropping unknown ids, got %d", len(recs))
	}
	if recs[0].SchemeID != "mudra_shishu" {
		t.Errorf("unexpected schemeId %q", recs[0].SchemeID)
	}

	// daily + working_capital filters down to loan schemes only.
	wantSchemes := []string{"mudra_shishu", "stand_up_india", "pm_svanidhhi"}
	if len(resp.Data.Schemes) != len(wantSchemes) {
		t.Fatalf("expected %d filtered schemes, got %d", len(wantSchemes), len(resp.Data.Schemes))
	}
	for i, want := range wantSchemes {
		if resp.Data.Schemes[i].ID != want {
			t.Errorf("scheme %d: expected %s, got %s", i, want, resp.Data.Schemes[i].ID)
		}
	}

	if resp.Data.Explanation == nil || resp.Data.Explanation.Summary == "" {
		t.Error("expected explanation in response")
	}
}

func TestGetRecommendationsModelFailure(t *testing.T) {
	gen := &scriptedGenerator{err: errors.New("API key not valid")}
	srv := newTestServer(t, gen, nil)

	body := `{"profileData": ` + validProfileJSON + `, "analysis": ` + analysisJSON + `}`
	rec := doRequest(t, srv, http.MethodPost, "/api/get-recommendations", body)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Error != "Failed to generate recommendations. Please try again." {
		t.Errorf("unexpected error message: %q", resp.Error)
	}
}

func TestGetRecommendationsNoKey(t *testing.T) {
	srv := newTestServer(t, nil, nil)

	body := `{"profileData": ` + validProfileJSON + `, "analysis": ` + analysisJSON + `}`
	rec := doRequest(t, srv, http.MethodPost, "/api/get-recommendations", body)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestRateLimiting(t *testing.T) {
	limiter := ratelimit.NewMemoryLimiter(1, time.Minute)
	defer limiter.Close()

	gen := &scriptedGenerator{responses: []string{analysisJSON, analysisJSON}}
	srv := newTestServer(t, gen, limiter)

	first := doRequest(t, srv, http.MethodPost, "/api/analyze-profile", validProfileJSON)
	if first.Code != http.StatusOK {
		t.Fatalf("first request should pass, got %d", first.Code)
	}

	second := doRequest(t, srv, http.MethodPost, "/api/analyze-profile", validProfileJSON)
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second request should be limited, got %d", second.Code)
	}

	// Catalog endpoints are never rate limited.
	schemes := doRequest(t, srv, http.MethodGet, "/api/schemes", "")
	if schemes.Code != http.StatusOK {
		t.Errorf("schemes endpoint should not be limited, got %d", schemes.Code)
	}
}
