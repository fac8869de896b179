package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/arthsathi/arthsathi/internal/advisor"
	"github.com/arthsathi/arthsathi/internal/catalog"
	"github.com/arthsathi/arthsathi/internal/domain"
	"github.com/arthsathi/arthsathi/internal/repository"
)

// keyNotSetMessage is returned with 503 when the advisory endpoints are hit
// without a usable Gemini API key. Checked before any external call.
const keyNotSetMessage = "Gemini API key not set. Add your GEMINI_API_KEY to .env (get one at https://makersuite.google.com/app/apikey)"

// keyHintMessage replaces model error text that looks like a credential or
// quota problem, so raw provider errors never leak to clients.
const keyHintMessage = "Gemini API error: check your GEMINI_API_KEY in .env (valid key at https://makersuite.google.com/app/apikey)."

var credentialErrPattern = regexp.MustCompile(`(?i)API key|invalid|401|403|429|quota|exhausted`)

// Handler holds dependencies for API handlers. advisor is nil when no API
// key is configured; the scheme catalog endpoints keep working regardless.
type Handler struct {
	advisor *advisor.Advisor
	filter  *catalog.Filter
	repo    domain.Repository
	bus     domain.EventBus
	version string
}

// NewHandler creates a new API handler.
func NewHandler(adv *advisor.Advisor, filter *catalog.Filter, repo domain.Repository, bus domain.EventBus, version string) *Handler {
	return &Handler{
		advisor: adv,
		filter:  filter,
		repo:    repo,
		bus:     bus,
		version: version,
	}
}

// apiResponse is the envelope every endpoint answers with.
type apiResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func successResponse(data any) apiResponse {
	return apiResponse{Success: true, Data: data}
}

func errorResponse(msg string) apiResponse {
	return apiResponse{Success: false, Error: msg}
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Financial Suitability Platform API",
		"version": h.version,
	})
}

// Ready handles GET /ready: checks the optional backing services.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	checks := map[string]string{}
	healthy := true

	if h.repo != nil {
		if err := h.repo.Ping(ctx); err != nil {
			checks["repository"] = err.Error()
			healthy = false
		} else {
			checks["repository"] = "ok"
		}
	}
	if h.bus != nil {
		if err := h.bus.Ping(ctx); err != nil {
			checks["bus"] = err.Error()
			healthy = false
		} else {
			checks["bus"] = "ok"
		}
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"ready":  healthy,
		"checks": checks,
	})
}

// ListSchemes handles GET /api/schemes.
func (h *Handler) ListSchemes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, successResponse(catalog.All()))
}

// GetScheme handles GET /api/schemes/{id}.
func (h *Handler) GetScheme(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	scheme, ok := catalog.ByID(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse("Scheme not found"))
		return
	}
	writeJSON(w, http.StatusOK, successResponse(scheme))
}

// AnalyzeProfileResponse is the data payload for POST /api/analyze-profile.
type AnalyzeProfileResponse struct {
	Profile  domain.Profile   `json:"profile"`
	Analysis *domain.Analysis `json:"analysis"`
}

// AnalyzeProfile handles POST /api/analyze-profile.
func (h *Handler) AnalyzeProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.advisor == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse(keyNotSetMessage))
		return
	}

	var profile domain.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("Invalid JSON request body"))
		return
	}
	profile.Normalize()

	if missing := profile.MissingFields(); len(missing) > 0 {
		verr := &domain.ValidationError{Fields: missing}
		writeJSON(w, http.StatusBadRequest, errorResponse(verr.Error()))
		return
	}

	analysis, err := h.advisor.AnalyzeProfile(ctx, profile)
	if err != nil {
		slog.Error("profile analysis failed",
			"error", err,
			"request_id", GetRequestID(ctx),
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse(analyzeErrorMessage(err)))
		return
	}

	record := &domain.AnalysisRecord{
		ID:        GetRequestID(ctx),
		CreatedAt: time.Now().UTC(),
		Profile:   &profile,
		Analysis:  analysis,
	}
	h.persistAnalysis(r, record)
	h.publish(r, domain.TopicProfileAnalyzed, record)

	writeJSON(w, http.StatusOK, successResponse(AnalyzeProfileResponse{
		Profile:  profile,
		Analysis: analysis,
	}))
}

// RecommendationsRequest is the request body for POST /api/get-recommendations.
type RecommendationsRequest struct {
	ProfileData *domain.Profile  `json:"profileData"`
	Analysis    *domain.Analysis `json:"analysis"`
	Language    string           `json:"language,omitempty"`
}

// RecommendationsResponse is the data payload for POST /api/get-recommendations.
type RecommendationsResponse struct {
	Recommendations *domain.RecommendationBundle `json:"recommendations"`
	Explanation     *domain.Explanation          `json:"explanation"`
	Schemes         []domain.Scheme              `json:"schemes"`
}

// GetRecommendations handles POST /api/get-recommendations.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.advisor == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse(keyNotSetMessage))
		return
	}

	var req RecommendationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("Invalid JSON request body"))
		return
	}

	if req.ProfileData == nil || req.Analysis == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("Profile data and analysis are required"))
		return
	}
	req.ProfileData.Normalize()

	schemes, err := h.filter.ByProfile(*req.ProfileData)
	if err != nil {
		slog.Error("scheme filtering failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("Failed to generate recommendations. Please try again."))
		return
	}

	bundle, err := h.advisor.Recommend(ctx, *req.ProfileData, *req.Analysis, schemes)
	if err != nil {
		slog.Error("recommendation generation failed",
			"error", err,
			"request_id", GetRequestID(ctx),
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse("Failed to generate recommendations. Please try again."))
		return
	}
	dropUnknownSchemes(bundle)

	explanation, err := h.advisor.Explain(ctx, *req.Analysis, *bundle, req.Language)
	if err != nil {
		slog.Error("explanation generation failed",
			"error", err,
			"request_id", GetRequestID(ctx),
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse("Failed to generate recommendations. Please try again."))
		return
	}

	record := &domain.RecommendationRecord{
		ID:              GetRequestID(ctx),
		CreatedAt:       time.Now().UTC(),
		Profile:         req.ProfileData,
		Recommendations: bundle,
		Explanation:     explanation,
	}
	h.persistRecommendation(r, record)
	h.publish(r, domain.TopicRecommendationsGenerated, record)

	writeJSON(w, http.StatusOK, successResponse(RecommendationsResponse{
		Recommendations: bundle,
		Explanation:     explanation,
		Schemes:         schemes,
	}))
}

// GetAnalysis handles GET /api/analyses/{id}. Registered only when a
// repository is configured.
func (h *Handler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, err := h.repo.GetAnalysis(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse("Analysis not found"))
		return
	}
	if err != nil {
		slog.Error("failed to load analysis record", "error", err, "id", id)
		writeJSON(w, http.StatusInternalServerError, errorResponse("Internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, successResponse(record))
}

// GetRecommendation handles GET /api/recommendations/{id}. Registered only
// when a repository is configured.
func (h *Handler) GetRecommendation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, err := h.repo.GetRecommendation(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse("Recommendation not found"))
		return
	}
	if err != nil {
		slog.Error("failed to load recommendation record", "error", err, "id", id)
		writeJSON(w, http.StatusInternalServerError, errorResponse("Internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, successResponse(record))
}

// dropUnknownSchemes removes recommendations pointing at scheme ids the
// catalog does not contain. The model occasionally invents ids; a dangling
// reference is dropped rather than failing the whole response.
func dropUnknownSchemes(bundle *domain.RecommendationBundle) {
	kept := bundle.SchemeRecommendations[:0]
	for _, rec := range bundle.SchemeRecommendations {
		if catalog.Has(rec.SchemeID) {
			kept = append(kept, rec)
			continue
		}
		slog.Warn("dropping recommendation for unknown scheme", "scheme_id", rec.SchemeID)
	}
	bundle.SchemeRecommendations = kept
}

// analyzeErrorMessage maps a failed analysis to a client-safe message.
// Credential-shaped errors get the key hint; short plain messages pass
// through; anything long or stack-like collapses to a generic retry message.
func analyzeErrorMessage(err error) string {
	msg := err.Error()
	if credentialErrPattern.MatchString(msg) {
		return keyHintMessage
	}
	if len(msg) < 200 && !strings.Contains(msg, " at ") {
		return msg
	}
	return "Failed to analyze profile. Please try again."
}

func (h *Handler) persistAnalysis(r *http.Request, record *domain.AnalysisRecord) {
	if h.repo == nil {
		return
	}
	if err := h.repo.SaveAnalysis(r.Context(), record); err != nil {
		// Persistence is an audit trail; never fail the request over it.
		slog.Error("failed to save analysis record", "error", err, "id", record.ID)
	}
}

func (h *Handler) persistRecommendation(r *http.Request, record *domain.RecommendationRecord) {
	if h.repo == nil {
		return
	}
	if err := h.repo.SaveRecommendation(r.Context(), record); err != nil {
		slog.Error("failed to save recommendation record", "error", err, "id", record.ID)
	}
}

func (h *Handler) publish(r *http.Request, topic string, payload any) {
	if h.bus == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("failed to marshal event payload", "topic", topic, "error", err)
		return
	}
	if err := h.bus.Publish(r.Context(), topic, data); err != nil {
		slog.Error("failed to publish event", "topic", topic, "error", err)
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
