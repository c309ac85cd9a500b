// Package scenario loads analyst-authored calculation requests. Files
// are Hjson (comments, unquoted keys, optional commas), which plain
// JSON is a subset of, so machine-generated requests parse too.
//
// Ingestion is where the ratio contract is enforced: every ratio field
// must already be a fraction in [0,1]. Percent-scaled values are
// rejected with a specific reason instead of being silently divided by
// 100 at a point of use.
package scenario

import (
	"fmt"
	"os"

	hjson "github.com/hjson/hjson-go/v4"

	"biofuel_tea/pkg/core/engine"
	"biofuel_tea/pkg/models"
)

// Load reads and validates one scenario file.
func Load(path string) (*models.CalculationRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a scenario document.
func Parse(data []byte) (*models.CalculationRequest, error) {
	var req models.CalculationRequest
	if err := hjson.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := Validate(&req.Inputs); err != nil {
		return nil, err
	}
	return &req, nil
}

// ratioField pairs a field name with its value for the range check.
type ratioField struct {
	name  string
	value float64
}

// Validate enforces the ingestion invariants: ratios are fractions in
// [0,1], physical quantities are non-negative, the process key is set.
func Validate(in *models.UserInputs) error {
	if in.Process == "" {
		return engine.Validationf("process type is required")
	}
	if in.Capacity.Value < 0 {
		return engine.Validationf("plant capacity must be non-negative, got %g", in.Capacity.Value)
	}
	if in.LoadHours < 0 || in.LoadHours > 8784 {
		return engine.Validationf("load hours must be within one year, got %g", in.LoadHours)
	}

	ratios := []ratioField{
		{"economics.working_capital_ratio", in.Economics.WorkingCapitalRatio},
		{"economics.indirect_opex_ratio", in.Economics.IndirectOpexRatio},
		{"economics.discount_rate", in.Economics.DiscountRate},
	}
	// Finance parameters are optional; only supplied values are checked.
	if v := in.Finance.EquityRatio; v != nil {
		ratios = append(ratios, ratioField{"finance.equity_ratio", *v})
	}
	if v := in.Finance.TaxRate; v != nil {
		ratios = append(ratios, ratioField{"finance.tax_rate", *v})
	}
	if v := in.Finance.DepreciationRate; v != nil {
		ratios = append(ratios, ratioField{"finance.depreciation_rate", *v})
	}
	if v := in.Finance.LandCostRatio; v != nil {
		ratios = append(ratios, ratioField{"finance.land_cost_ratio", *v})
	}
	for _, f := range in.Feedstocks {
		ratios = append(ratios,
			ratioField{fmt.Sprintf("feedstock %q carbon_content", f.Name), f.CarbonContent},
			ratioField{fmt.Sprintf("feedstock %q share", f.Name), f.Share},
		)
		if f.Yield < 0 {
			return engine.Validationf("feedstock %q yield must be non-negative", f.Name)
		}
		if f.Price.Value < 0 {
			return engine.Validationf("feedstock %q price must be non-negative", f.Name)
		}
	}
	for _, p := range in.Products {
		ratios = append(ratios,
			ratioField{fmt.Sprintf("product %q carbon_content", p.Name), p.CarbonContent},
			ratioField{fmt.Sprintf("product %q mass_fraction", p.Name), p.MassFraction},
		)
		if p.Yield < 0 {
			return engine.Validationf("product %q yield must be non-negative", p.Name)
		}
		if p.Price.Value < 0 {
			return engine.Validationf("product %q price must be non-negative", p.Name)
		}
	}

	for _, r := range ratios {
		if r.value < 0 || r.value > 1 {
			return engine.Validationf("%s must be a fraction in [0,1], got %g (percent values are not accepted)", r.name, r.value)
		}
	}

	if in.Economics.Lifetime < 0 {
		return engine.Validationf("project lifetime must be non-negative, got %d", in.Economics.Lifetime)
	}
	if in.Hydrogen.Yield < 0 || in.Electricity.Yield < 0 {
		return engine.Validationf("utility yields must be non-negative")
	}
	return nil
}
