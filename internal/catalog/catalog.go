// Package catalog holds the static government scheme catalog and the
// profile eligibility filter.
package catalog

import "github.com/arthsathi/arthsathi/internal/domain"

// schemes is the full catalog, loaded once and never mutated. Order matters:
// filtered results preserve it.
var schemes = []domain.Scheme{
	{
		ID:          "pm_kisan",
		Name:        "PM-KISAN (Pradhan Mantri Kisan Samman Nidhi)",
		Description: "Direct income support of ₹6,000 per year to farmer families in three installments",
		Category:    domain.CategorySubsidy,
		Eligibility: domain.Eligibility{
			IncomeTypes: []domain.IncomeType{domain.IncomeSeasonal, domain.IncomeMixed},
			TargetGroup: "Small and marginal farmers",
			Criteria:    map[string]string{"maxLandholding": "No limit"},
		},
		Benefits: domain.Benefits{
			Amount:       "₹6,000",
			Frequency:    "yearly",
			Installments: 3,
		},
		Effort:         domain.EffortLow,
		Documents:      []string{"Land records", "Aadhaar", "Bank account"},
		ApplicationURL: "https://pmkisan.gov.in/",
		ProcessingTime: "30-60 days",
	},
	{
		ID:          "mudra_shishu",
		Name:        "MUDRA Shishu Loan",
		Description: "Collateral-free loans up to ₹50,000 for micro-enterprises",
		Category:    domain.CategoryLoan,
		Eligibility: domain.Eligibility{
			IncomeTypes: []domain.IncomeType{domain.IncomeDaily, domain.IncomeIrregular, domain.IncomeMixed},
			TargetGroup: "Micro-entrepreneurs, street vendors",
			Criteria:    map[string]string{"businessAge": "Any"},
		},
		Benefits: domain.Benefits{
			Amount:       "₹50,000",
			InterestRate: "8-12%",
			Tenure:       "12-36 months",
		},
		Effort:         domain.EffortMedium,
		Documents:      []string{"Business proof", "Aadhaar", "Bank statements", "Residence proof"},
		ApplicationURL: "https://www.mudra.org.in/",
		ProcessingTime: "15-30 days",
	},
	{
		ID:          "pm_fasal_bima",
		Name:        "PM Fasal Bima Yojana",
		Description: "Crop insurance scheme covering yield losses due to natural calamities",
		Category:    domain.CategoryInsurance,
		Eligibility: domain.Eligibility{
			IncomeTypes: []domain.IncomeType{domain.IncomeSeasonal},
			TargetGroup: "Farmers",
			Criteria:    map[string]string{"cropType": "All notified crops"},
		},
		Benefits: domain.Benefits{
			Coverage:   "Up to sum insured",
			Premium:    "1.5-5% of sum insured",
			Subsidized: true,
		},
		Effort:         domain.EffortMedium,
		Documents:      []string{"Land records", "Sowing certificate", "Bank account"},
		ApplicationURL: "https://pmfby.gov.in/",
		ProcessingTime: "Before sowing season",
	},
	{
		ID:          "kisan_credit_card",
		Name:        "Kisan Credit Card (KCC)",
		Description: "Revolving credit facility for agricultural expenses",
		Category:    domain.CategoryLoan,
		Eligibility: domain.Eligibility{
			IncomeTypes: []domain.IncomeType{domain.IncomeSeasonal, domain.IncomeMixed},
			TargetGroup: "Farmers with land ownership/tenancy",
			Criteria:    map[string]string{"creditHistory": "Not required"},
		},
		Benefits: domain.Benefits{
			Amount:       "Based on land holding and cropping pattern",
			InterestRate: "4% (with subsidy)",
			Tenure:       "Revolving, annual renewal",
		},
		Effort:         domain.EffortMedium,
		Documents:      []string{"Land documents", "Identity proof", "Address proof"},
		ApplicationURL: "Visit nearest bank branch",
		ProcessingTime: "7-15 days",
	},
	{
		ID:          "stand_up_india",
		Name:        "Stand-Up India",
		Description: "Loans for SC/ST and women entrepreneurs (₹10 lakh to ₹1 crore)",
		Category:    domain.CategoryLoan,
		Eligibility: domain.Eligibility{
			IncomeTypes: []domain.IncomeType{domain.IncomeDaily, domain.IncomeIrregular, domain.IncomeStable, domain.IncomeMixed},
			TargetGroup: "SC/ST/Women entrepreneurs",
			Criteria:    map[string]string{"businessType": "Manufacturing, services, trading"},
		},
		Benefits: domain.Benefits{
			Amount:       "₹10 lakh - ₹1 crore",
			InterestRate: "Base rate + 3%",
			Tenure:       "Up to 7 years",
		},
		Effort:         domain.EffortHigh,
		Documents:      []string{"Business plan", "Identity/category proof", "Project report", "Bank statements"},
		ApplicationURL: "https://www.standupmitra.in/",
		ProcessingTime: "30-60 days",
	},
	{
		ID:          "pm_svanidhhi",
		Name:        "PM SVANidhi (Street Vendor Loan)",
		Description: "Working capital loan for street vendors up to ₹50,000",
		Category:    domain.CategoryLoan,
		Eligibility: domain.Eligibility{
			IncomeTypes: []domain.IncomeType{domain.IncomeDaily, domain.IncomeIrregular},
			TargetGroup: "Street vendors",
			Criteria:    map[string]string{"vendorCard": "Preferred but not mandatory"},
		},
		Benefits: domain.Benefits{
			Amount:           "₹50,000",
			InterestRate:     "7% subsidy on timely repayment",
			Tenure:           "12 months",
			DigitalIncentive: "₹100/month for digital transactions",
		},
		Effort:         domain.EffortLow,
		Documents:      []string{"Identity proof", "Vendor certificate/recommendation", "Bank account"},
		ApplicationURL: "https://pmsvanidhi.mohua.gov.in/",
		ProcessingTime: "7-15 days",
	},
}

// All returns a copy of the catalog in its canonical order.
func All() []domain.Scheme {
	out := make([]domain.Scheme, len(schemes))
	copy(out, schemes)
	return out
}

// ByID looks up a single scheme.
func ByID(id string) (domain.Scheme, bool) {
	for _, s := range schemes {
		if s.ID == id {
			return s, true
		}
	}
	return domain.Scheme{}, false
}

// Has reports whether id names a catalog entry.
func Has(id string) bool {
	_, ok := ByID(id)
	return ok
}

// Count returns the catalog size.
func Count() int {
	return len(schemes)
}

// Categorized groups schemes by category for display.
type Categorized struct {
	Loans     []domain.Scheme `json:"loans"`
	Subsidies []domain.Scheme `json:"subsidies"`
	Insurance []domain.Scheme `json:"insurance"`
}

// Categorize partitions a scheme sequence by category. Each scheme lands in
// at most one partition.
func Categorize(in []domain.Scheme) Categorized {
	var out Categorized
	for _, s := range in {
		switch s.Category {
		case domain.CategoryLoan:
			out.Loans = append(out.Loans, s)
		case domain.CategorySubsidy:
			out.Subsidies = append(out.Subsidies, s)
		case domain.CategoryInsurance:
			out.Insurance = append(out.Insurance, s)
		}
	}
	return out
}
