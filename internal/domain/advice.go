package domain

// Model output payloads. The generative model is instructed to return JSON
// matching these shapes; after extraction the payload is decoded strictly
// into them, but optional fields must still be read defensively because the
// model may omit anything.

// IncomePattern is the model's read of how the user earns.
type IncomePattern struct {
	Type        string `json:"type"`
	Volatility  string `json:"volatility"`
	Description string `json:"description"`
}

// RiskAssessment is the model's risk summary.
type RiskAssessment struct {
	Level       string   `json:"level"`
	Factors     []string `json:"factors"`
	Description string   `json:"description"`
}

// RepaymentCapacity scores how much the user can repay monthly.
type RepaymentCapacity struct {
	Score           float64 `json:"score"`
	MonthlyCapacity float64 `json:"monthlyCapacity"`
	Description     string  `json:"description"`
}

// AnalysisVerdict is the model's top-level loan/scheme suitability call.
type AnalysisVerdict struct {
	SuitableForLoan   bool   `json:"suitableForLoan"`
	SuitableForScheme bool   `json:"suitableForScheme"`
	Priority          string `json:"priority"`
	Reasoning         string `json:"reasoning"`
}

// Analysis is the structured profile analysis produced by the model.
type Analysis struct {
	IncomePattern     IncomePattern     `json:"incomePattern"`
	RiskAssessment    RiskAssessment    `json:"riskAssessment"`
	RepaymentCapacity RepaymentCapacity `json:"repaymentCapacity"`
	Recommendations   AnalysisVerdict   `json:"recommendations"`
	WarningFlags      []string          `json:"warningFlags"`
	ConfidenceScore   float64           `json:"confidenceScore"`
}

// Suitability verdicts attached to schemes and loans by the model.
const (
	SuitabilitySuitable       = "suitable"
	SuitabilityCaution        = "caution"
	SuitabilityRisky          = "risky"
	SuitabilityNotRecommended = "not_recommended"
)

// SchemeRecommendation is the model's verdict on one catalog scheme.
// SchemeID must reference a catalog entry; recommendations pointing at
// unknown ids are dropped by the consumer rather than treated as fatal.
type SchemeRecommendation struct {
	SchemeID         string   `json:"schemeId"`
	Suitability      string   `json:"suitability"`
	Reasoning        string   `json:"reasoning"`
	EligibilityMatch float64  `json:"eligibilityMatch"`
	ActionSteps      []string `json:"actionSteps"`
}

// LoanEvaluation is the model's verdict on taking a formal loan.
type LoanEvaluation struct {
	Suitability        string   `json:"suitability"`
	RecommendedAmount  float64  `json:"recommendedAmount"`
	RecommendedTenure  float64  `json:"recommendedTenure"`
	RepaymentFrequency string   `json:"repaymentFrequency"`
	Reasoning          string   `json:"reasoning"`
	MitigationSteps    []string `json:"mitigationSteps"`
	Alternatives       []string `json:"alternatives"`
}

// Comparison weighs schemes against loans.
type Comparison struct {
	BestOption string `json:"bestOption"`
	Reasoning  string `json:"reasoning"`
	Timeline   string `json:"timeline"`
}

// RecommendationBundle is the full recommendation payload for a session.
type RecommendationBundle struct {
	SchemeRecommendations []SchemeRecommendation `json:"schemeRecommendations"`
	LoanEvaluation        LoanEvaluation         `json:"loanEvaluation"`
	Comparison            Comparison             `json:"comparison"`
}

// Explanation is the plain-language rendering of analysis + recommendations.
type Explanation struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"keyPoints"`
	NextSteps []string `json:"nextSteps"`
	Warnings  []string `json:"warnings"`
}
