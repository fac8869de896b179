// Package prompt builds the text prompts sent to the generative model.
// All builders are pure: identical inputs yield identical prompts, and
// nested structures are embedded with encoding/json so model output that
// quotes them back survives JSON-in-JSON round-tripping.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/arthsathi/arthsathi/internal/domain"
)

// ProfileAnalysis builds the profile-analysis prompt. The model is told to
// return only a JSON object matching the domain.Analysis schema.
func ProfileAnalysis(p domain.Profile) string {
	risk := strings.Join(p.RiskExposure, ", ")
	if risk == "" {
		risk = "None"
	}

	return fmt.Sprintf(`You are a financial suitability analyst for underserved communities in India. Analyze this financial profile and provide structured insights.

User Profile:
- Income Type: %s
- Monthly Income: ₹%g
- Income Stability: %s
- Household Expenses: ₹%g
- Business Expenses: ₹%g
- Existing Debts: ₹%g
- Risk Exposure: %s
- Purpose: %s

Provide a JSON response with this exact structure (no markdown, just JSON):
{
  "incomePattern": {
    "type": "seasonal|irregular|stable",
    "volatility": "high|medium|low",
    "description": "Brief description of income pattern"
  },
  "riskAssessment": {
    "level": "high|medium|low",
    "factors": ["factor1", "factor2"],
    "description": "Risk analysis"
  },
  "repaymentCapacity": {
    "score": 0-100,
    "monthlyCapacity": number,
    "description": "Explanation"
  },
  "recommendations": {
    "suitableForLoan": boolean,
    "suitableForScheme": boolean,
    "priority": "loan|scheme|both|neither",
    "reasoning": "Clear explanation"
  },
  "warningFlags": ["flag1", "flag2"],
  "confidenceScore": 0-100
}`,
		p.IncomeType, p.MonthlyIncome, p.IncomeStability,
		p.HouseholdExpenses, p.BusinessExpenses, p.ExistingDebts,
		risk, p.Purpose)
}

// Recommendations builds the recommendation-generation prompt from the
// profile, the prior analysis, and the filtered scheme list.
func Recommendations(p domain.Profile, analysis domain.Analysis, schemes []domain.Scheme) string {
	var schemeLines strings.Builder
	for _, s := range schemes {
		fmt.Fprintf(&schemeLines, "- %s: %s\n", s.Name, s.Description)
	}

	return fmt.Sprintf(`Based on this financial analysis, recommend suitable schemes and evaluate loan suitability.

Profile Summary:
- Income Type: %s
- Monthly Income: ₹%g
- Purpose: %s

Analysis Results:
- Income Pattern: %s (%s volatility)
- Risk Level: %s
- Repayment Capacity: ₹%g/month

Available Schemes:
%s
Provide recommendations in JSON format (no markdown):
{
  "schemeRecommendations": [
    {
      "schemeId": "scheme_id",
      "suitability": "suitable|caution|not_recommended",
      "reasoning": "Why this matches/doesn't match",
      "eligibilityMatch": 0-100,
      "actionSteps": ["step1", "step2"]
    }
  ],
  "loanEvaluation": {
    "suitability": "suitable|risky|not_recommended",
    "recommendedAmount": number,
    "recommendedTenure": number,
    "repaymentFrequency": "monthly|quarterly|seasonal",
    "reasoning": "Detailed explanation",
    "mitigationSteps": ["step1", "step2"],
    "alternatives": ["alternative1", "alternative2"]
  },
  "comparison": {
    "bestOption": "scheme|loan|both|neither",
    "reasoning": "Comparative analysis",
    "timeline": "Suggested sequence of actions"
  }
}`,
		p.IncomeType, p.MonthlyIncome, p.Purpose,
		analysis.IncomePattern.Type, analysis.IncomePattern.Volatility,
		analysis.RiskAssessment.Level,
		analysis.RepaymentCapacity.MonthlyCapacity,
		schemeLines.String())
}

// SimpleExplanation builds the plain-language explanation prompt. The
// technical content (analysis + recommendations) is serialized as JSON, not
// concatenated by hand. Language is "hi" for Hindi, anything else is English.
func SimpleExplanation(analysis domain.Analysis, recommendations domain.RecommendationBundle, language string) (string, error) {
	content, err := json.MarshalIndent(struct {
		Analysis        domain.Analysis             `json:"analysis"`
		Recommendations domain.RecommendationBundle `json:"recommendations"`
	}{analysis, recommendations}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize technical content: %w", err)
	}

	langName := "English"
	if language == "hi" {
		langName = "Hindi"
	}

	return fmt.Sprintf(`Translate this financial analysis into simple, culturally appropriate language for Indian farmers/micro-entrepreneurs.

Technical Content:
%s

Provide a simple explanation in %s that:
- Uses everyday language
- Includes relevant examples
- Shows empathy
- Avoids jargon
- Is actionable

Format as JSON:
{
  "summary": "2-3 sentence summary",
  "keyPoints": ["point1", "point2", "point3"],
  "nextSteps": ["step1", "step2"],
  "warnings": ["warning1", "warning2"]
}`, content, langName), nil
}
