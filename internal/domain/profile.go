// Package domain defines the core interfaces and types for ArthSathi.
package domain

import "encoding/json"

// IncomeType classifies how a user earns.
type IncomeType string

const (
	IncomeSeasonal  IncomeType = "seasonal"
	IncomeDaily     IncomeType = "daily"
	IncomeIrregular IncomeType = "irregular"
	IncomeStable    IncomeType = "stable"
	IncomeMixed     IncomeType = "mixed"
)

// Stability is the self-reported income stability.
type Stability string

const (
	StabilityVeryStable     Stability = "very_stable"
	StabilitySomewhatStable Stability = "somewhat_stable"
	StabilityVariable       Stability = "variable"
	StabilityHighlyVariable Stability = "highly_variable"
)

// Purpose is what the user needs money for.
type Purpose string

const (
	PurposeWorkingCapital    Purpose = "working_capital"
	PurposeBusinessExpansion Purpose = "business_expansion"
	PurposeCropCultivation   Purpose = "crop_cultivation"
	PurposeEquipmentPurchase Purpose = "equipment_purchase"
	PurposeEmergency         Purpose = "emergency"
	PurposeEducation         Purpose = "education"
	PurposeHomeImprovement   Purpose = "home_improvement"
)

// RiskExposure is a set of risk tags (weather, health, market, competition,
// seasonal). It decodes leniently: an absent or malformed value becomes the
// empty set instead of failing the whole request body.
type RiskExposure []string

// UnmarshalJSON implements tolerant decoding for RiskExposure.
func (r *RiskExposure) UnmarshalJSON(data []byte) error {
	var tags []string
	if err := json.Unmarshal(data, &tags); err != nil {
		*r = RiskExposure{}
		return nil
	}
	*r = tags
	return nil
}

// Profile is the user-submitted financial self-description. It is created
// once per wizard session and never mutated afterwards.
type Profile struct {
	IncomeType        IncomeType   `json:"incomeType"`
	MonthlyIncome     float64      `json:"monthlyIncome"`
	IncomeStability   Stability    `json:"incomeStability"`
	HouseholdExpenses float64      `json:"householdExpenses"`
	BusinessExpenses  float64      `json:"businessExpenses"`
	ExistingDebts     float64      `json:"existingDebts"`
	RiskExposure      RiskExposure `json:"riskExposure"`
	Purpose           Purpose      `json:"purpose"`
}

// MissingFields returns the names of required fields that are absent, in
// declaration order. A zero monthlyIncome or householdExpenses counts as
// missing.
func (p *Profile) MissingFields() []string {
	var missing []string
	if p.IncomeType == "" {
		missing = append(missing, "incomeType")
	}
	if p.MonthlyIncome == 0 {
		missing = append(missing, "monthlyIncome")
	}
	if p.IncomeStability == "" {
		missing = append(missing, "incomeStability")
	}
	if p.HouseholdExpenses == 0 {
		missing = append(missing, "householdExpenses")
	}
	if p.Purpose == "" {
		missing = append(missing, "purpose")
	}
	return missing
}

// Normalize fills defaults for the optional fields.
func (p *Profile) Normalize() {
	if p.RiskExposure == nil {
		p.RiskExposure = RiskExposure{}
	}
}
