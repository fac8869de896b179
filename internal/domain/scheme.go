package domain

// SchemeCategory groups schemes for filtering and display.
type SchemeCategory string

const (
	CategoryLoan      SchemeCategory = "loan"
	CategorySubsidy   SchemeCategory = "subsidy"
	CategoryInsurance SchemeCategory = "insurance"
)

// Effort is the rough application effort for a scheme.
type Effort string

const (
	EffortLow    Effort = "low"
	EffortMedium Effort = "medium"
	EffortHigh   Effort = "high"
)

// Eligibility holds the attributes a scheme matches profiles against.
type Eligibility struct {
	IncomeTypes []IncomeType      `json:"incomeTypes"`
	TargetGroup string            `json:"targetGroup"`
	Criteria    map[string]string `json:"criteria,omitempty"`
}

// Benefits describes what a scheme pays out. Fields vary per scheme, so
// everything is a free-form string and absent fields are omitted.
type Benefits struct {
	Amount           string `json:"amount,omitempty"`
	Frequency        string `json:"frequency,omitempty"`
	Installments     int    `json:"installments,omitempty"`
	InterestRate     string `json:"interestRate,omitempty"`
	Tenure           string `json:"tenure,omitempty"`
	Coverage         string `json:"coverage,omitempty"`
	Premium          string `json:"premium,omitempty"`
	Subsidized       bool   `json:"subsidized,omitempty"`
	DigitalIncentive string `json:"digitalIncentive,omitempty"`
}

// Scheme is a government assistance program record. The catalog of schemes
// is fixed at process start and never mutated.
type Scheme struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	Category       SchemeCategory `json:"category"`
	Eligibility    Eligibility    `json:"eligibility"`
	Benefits       Benefits       `json:"benefits"`
	Effort         Effort         `json:"effort"`
	Documents      []string       `json:"documents"`
	ApplicationURL string         `json:"applicationUrl"`
	ProcessingTime string         `json:"processingTime"`
}
