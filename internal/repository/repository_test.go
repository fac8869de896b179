package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/arthsathi/arthsathi/internal/domain"
)

func TestSQLiteRepository(t *testing.T) {
	// Create temp database file
	tmpFile, err := os.CreateTemp("", "arthsathi-test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()
	defer os.Remove(tmpPath)

	cfg := domain.RepositoryConfig{
		Driver:     "sqlite",
		SQLitePath: tmpPath,
	}

	repo, err := New(cfg)
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()

	profile := &domain.Profile{
		IncomeType:        domain.IncomeSeasonal,
		MonthlyIncome:     12000,
		IncomeStability:   domain.StabilityVeryStable,
		HouseholdExpenses: 8000,
		Purpose:           domain.PurposeCropCultivation,
		RiskExposure:      domain.RiskExposure{"crop_failure"},
	}

	t.Run("Ping", func(t *testing.T) {
		if err := repo.Ping(ctx); err != nil {
			t.Errorf("Ping failed: %v", err)
		}
	})

	t.Run("SaveAndGetAnalysis", func(t *testing.T) {
		rec := &domain.AnalysisRecord{
			ID:        "req-001",
			CreatedAt: time.Now().UTC(),
			Profile:   profile,
			Analysis: &domain.Analysis{
				IncomePattern: domain.IncomePattern{
					Type:        "seasonal",
					Volatility:  "medium",
					Description: "harvest-driven income",
				},
				RiskAssessment: domain.RiskAssessment{
					Level:   "moderate",
					Factors: []string{"crop_failure"},
				},
				RepaymentCapacity: domain.RepaymentCapacity{
					Score:           6,
					MonthlyCapacity: 2000,
				},
				Recommendations: domain.AnalysisVerdict{
					SuitableForLoan:   true,
					SuitableForScheme: true,
					Priority:          "scheme",
				},
				WarningFlags:    []string{"seasonal dependency"},
				ConfidenceScore: 0.8,
			},
		}

		if err := repo.SaveAnalysis(ctx, rec); err != nil {
			t.Fatalf("SaveAnalysis failed: %v", err)
		}

		retrieved, err := repo.GetAnalysis(ctx, rec.ID)
		if err != nil {
			t.Fatalf("GetAnalysis failed: %v", err)
		}

		if retrieved.ID != rec.ID {
			t.Errorf("expected ID %s, got %s", rec.ID, retrieved.ID)
		}
		if retrieved.Analysis.RiskAssessment.Level != "moderate" {
			t.Errorf("expected risk 'moderate', got %q", retrieved.Analysis.RiskAssessment.Level)
		}
		if retrieved.Profile.MonthlyIncome != profile.MonthlyIncome {
			t.Errorf("expected income %.0f, got %.0f", profile.MonthlyIncome, retrieved.Profile.MonthlyIncome)
		}
		if retrieved.Analysis.ConfidenceScore != 0.8 {
			t.Errorf("expected confidence 0.8, got %v", retrieved.Analysis.ConfidenceScore)
		}
	})

	t.Run("SaveAndGetRecommendation", func(t *testing.T) {
		rec := &domain.RecommendationRecord{
			ID:        "req-002",
			CreatedAt: time.Now().UTC(),
			Profile:   profile,
			Recommendations: &domain.RecommendationBundle{
				SchemeRecommendations: []domain.SchemeRecommendation{
					{SchemeID: "pm_kisan", Suitability: domain.SuitabilitySuitable, Reasoning: "direct income support"},
				},
				Comparison: domain.Comparison{BestOption: "pm_kisan"},
			},
			Explanation: &domain.Explanation{
				Summary:   "PM-KISAN fits your seasonal farm income.",
				KeyPoints: []string{"no repayment needed"},
			},
		}

		if err := repo.SaveRecommendation(ctx, rec); err != nil {
			t.Fatalf("SaveRecommendation failed: %v", err)
		}

		retrieved, err := repo.GetRecommendation(ctx, rec.ID)
		if err != nil {
			t.Fatalf("GetRecommendation failed: %v", err)
		}

		if retrieved.ID != rec.ID {
			t.Errorf("expected ID %s, got %s", rec.ID, retrieved.ID)
		}
		if len(retrieved.Recommendations.SchemeRecommendations) != 1 {
			t.Fatalf("expected 1 recommendation, got %d", len(retrieved.Recommendations.SchemeRecommendations))
		}
		if retrieved.Recommendations.SchemeRecommendations[0].SchemeID != "pm_kisan" {
			t.Errorf("unexpected schemeId %q", retrieved.Recommendations.SchemeRecommendations[0].SchemeID)
		}
		if retrieved.Explanation == nil || retrieved.Explanation.Summary == "" {
			t.Error("explanation should round-trip")
		}
	})

	t.Run("NilExplanation", func(t *testing.T) {
		rec := &domain.RecommendationRecord{
			ID:        "req-003",
			CreatedAt: time.Now().UTC(),
			Profile:   profile,
			Recommendations: &domain.RecommendationBundle{
				Comparison: domain.Comparison{BestOption: "savings"},
			},
		}

		if err := repo.SaveRecommendation(ctx, rec); err != nil {
			t.Fatalf("SaveRecommendation failed: %v", err)
		}

		retrieved, err := repo.GetRecommendation(ctx, rec.ID)
		if err != nil {
			t.Fatalf("GetRecommendation failed: %v", err)
		}
		if retrieved.Explanation != nil {
			t.Errorf("expected nil explanation, got %+v", retrieved.Explanation)
		}
	})

	t.Run("RequiresID", func(t *testing.T) {
		if err := repo.SaveAnalysis(ctx, &domain.AnalysisRecord{}); err == nil {
			t.Error("expected error for empty record id")
		}
		if _, err := repo.GetAnalysis(ctx, ""); err == nil {
			t.Error("expected error for empty record id")
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := repo.GetAnalysis(ctx, "nonexistent")
		if err != ErrNotFound {
			t.Errorf("expected ErrNotFound, got: %v", err)
		}

		_, err = repo.GetRecommendation(ctx, "nonexistent")
		if err != ErrNotFound {
			t.Errorf("expected ErrNotFound, got: %v", err)
		}
	})
}

func TestUnsupportedDriver(t *testing.T) {
	cfg := domain.RepositoryConfig{
		Driver: "mysql",
	}

	_, err := New(cfg)
	if err == nil {
		t.Error("expected error for unsupported driver")
	}
}

func TestRebind(t *testing.T) {
	repo := &SQLRepository{driver: "postgres"}

	tests := []struct {
		input    string
		expected string
	}{
		{"SELECT * FROM t WHERE id = ?", "SELECT * FROM t WHERE id = $1"},
		{"INSERT INTO t (a, b) VALUES (?, ?)", "INSERT INTO t (a, b) VALUES ($1, $2)"},
		{"SELECT * FROM t", "SELECT * FROM t"},
	}

	for _, tt := range tests {
		result := repo.rebind(tt.input)
		if result != tt.expected {
			t.Errorf("rebind(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}
