package catalog

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"

	"github.com/arthsathi/arthsathi/internal/domain"
)

// eligibilityExpr is the scheme eligibility predicate, compiled once at
// startup. A scheme passes when the profile's income type is listed in the
// scheme's eligible income types AND the purpose gate holds:
//   - working_capital / business_expansion restrict to loan schemes;
//   - crop_cultivation allows loans, insurance, and pm_kisan;
//   - every other purpose passes unconditionally, leaving income-type
//     membership as the only restriction.
const eligibilityExpr = `
income_type in eligible_income_types &&
(
  (purpose == 'working_capital' || purpose == 'business_expansion')
    ? category == 'loan'
    : (purpose == 'crop_cultivation'
        ? (category == 'loan' || category == 'insurance' || scheme_id == 'pm_kisan')
        : true)
)
`

// Filter evaluates the compiled eligibility predicate against profile and
// scheme attributes. Evaluation is deterministic, side-effect free, and
// safe for concurrent use.
type Filter struct {
	env     *cel.Env
	program cel.Program
}

// NewFilter compiles the eligibility predicate.
func NewFilter() (*Filter, error) {
	env, err := cel.NewEnv(
		cel.Variable("income_type", cel.StringType),
		cel.Variable("purpose", cel.StringType),
		cel.Variable("category", cel.StringType),
		cel.Variable("scheme_id", cel.StringType),
		cel.Variable("eligible_income_types", cel.ListType(cel.StringType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	ast, issues := env.Compile(eligibilityExpr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("failed to compile eligibility expression: %w", issues.Err())
	}
	if ast.OutputType() != cel.BoolType {
		return nil, fmt.Errorf("eligibility expression must return bool, got %s", ast.OutputType())
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create eligibility program: %w", err)
	}

	return &Filter{env: env, program: program}, nil
}

// Eligible reports whether the profile may qualify for the scheme.
func (f *Filter) Eligible(profile domain.Profile, scheme domain.Scheme) (bool, error) {
	eligible := make([]string, len(scheme.Eligibility.IncomeTypes))
	for i, t := range scheme.Eligibility.IncomeTypes {
		eligible[i] = string(t)
	}

	out, _, err := f.program.Eval(map[string]any{
		"income_type":           string(profile.IncomeType),
		"purpose":               string(profile.Purpose),
		"category":              string(scheme.Category),
		"scheme_id":             scheme.ID,
		"eligible_income_types": eligible,
	})
	if err != nil {
		return false, fmt.Errorf("eligibility evaluation failed for %s: %w", scheme.ID, err)
	}

	pass, ok := out.(types.Bool)
	if !ok {
		return false, fmt.Errorf("eligibility evaluation for %s returned non-bool", scheme.ID)
	}
	return bool(pass), nil
}

// ByProfile returns the catalog subset the profile may qualify for,
// preserving catalog order. An empty result is valid: it means no scheme
// matches, not that filtering failed.
func (f *Filter) ByProfile(profile domain.Profile) ([]domain.Scheme, error) {
	return f.filter(profile, schemes)
}

// FilterSchemes applies the predicate to an arbitrary scheme sequence.
// Filtering is idempotent: re-filtering a filtered result with the same
// profile returns the same set.
func (f *Filter) FilterSchemes(profile domain.Profile, in []domain.Scheme) ([]domain.Scheme, error) {
	return f.filter(profile, in)
}

func (f *Filter) filter(profile domain.Profile, in []domain.Scheme) ([]domain.Scheme, error) {
	out := make([]domain.Scheme, 0, len(in))
	for _, s := range in {
		pass, err := f.Eligible(profile, s)
		if err != nil {
			return nil, err
		}
		if pass {
			out = append(out, s)
		}
	}
	return out, nil
}
