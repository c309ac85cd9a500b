package models

// Quantity is a raw numeric value tagged with the unit the caller supplied.
// The engine never consumes a Quantity directly; it is passed through the
// unit normalizer first and rejected if the tag is unknown.
type Quantity struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// FeedstockInput describes one feedstock stream of the plant.
// Zero-valued fields fall back to the reference-data defaults for the
// requested process/feedstock/country key.
type FeedstockInput struct {
	Name            string   `json:"name"`
	Share           float64  `json:"share"`            // capacity share in a blend, 0-1; 0 on every stream = equal split
	Price           Quantity `json:"price"`            // per mass (base: USD/t)
	CarbonContent   float64  `json:"carbon_content"`   // mass fraction of carbon, 0-1
	CarbonIntensity Quantity `json:"carbon_intensity"` // base: gCO2/MJ
	EnergyContent   Quantity `json:"energy_content"`   // base: MJ/kg
	Yield           float64  `json:"yield"`            // kg feedstock per kg product
}

// UtilityInput describes a utility stream (hydrogen or grid electricity).
type UtilityInput struct {
	Price           Quantity `json:"price"`            // USD/t (hydrogen) or USD/MWh (electricity)
	Yield           float64  `json:"yield"`            // consumption per kg product
	CarbonIntensity Quantity `json:"carbon_intensity"` // base: gCO2/MJ
}

// ProductInput describes one output product of the conversion process.
type ProductInput struct {
	Name          string   `json:"name"`
	Price         Quantity `json:"price"`           // per mass (base: USD/t)
	PriceCISlope  float64  `json:"price_ci_slope"`  // price sensitivity to carbon intensity
	CarbonContent float64  `json:"carbon_content"`  // mass fraction of carbon, 0-1
	EnergyContent Quantity `json:"energy_content"`  // base: MJ/kg
	Yield         float64  `json:"yield"`           // kg product per kg fuel output
	MassFraction  float64  `json:"mass_fraction"`   // share of total output, 0-1; 0 = use reference default
}

// EconomicInput holds the capital and levelization parameters.
// All ratio fields are fractions in [0,1]; scenario ingestion rejects
// percent-scaled values instead of guessing.
type EconomicInput struct {
	DiscountRate        float64  `json:"discount_rate"`
	Lifetime            int      `json:"lifetime"` // years
	RefCapitalCost      Quantity `json:"ref_capital_cost"` // base: M-USD
	ScalingExponent     float64  `json:"scaling_exponent"` // economy-of-scale, typically ~0.6
	RefCapacity         Quantity `json:"ref_capacity"`     // base: t/yr
	WorkingCapitalRatio float64  `json:"working_capital_ratio"`
	IndirectOpexRatio   float64  `json:"indirect_opex_ratio"`
}

// FinanceInput holds the cash-flow-schedule parameters. Absent (nil)
// fields take the documented defaults (see finance.Defaults); an
// explicit zero is kept as zero, so a tax-free or all-equity plant is
// representable.
type FinanceInput struct {
	EquityRatio       *float64 `json:"equity_ratio,omitempty"`
	TaxRate           *float64 `json:"tax_rate,omitempty"`
	LoanInterestRate  *float64 `json:"loan_interest_rate,omitempty"`
	LoanTerm          *int     `json:"loan_term,omitempty"` // years, capped at lifetime
	DepreciationRate  *float64 `json:"depreciation_rate,omitempty"`
	DepreciationYears *int     `json:"depreciation_years,omitempty"`
	LandCostRatio     *float64 `json:"land_cost_ratio,omitempty"` // share of TCI spent on land in year -2
}

// UserInputs is the immutable per-request snapshot the engine computes from.
type UserInputs struct {
	Process   string  `json:"process"`
	Country   string  `json:"country"`
	LoadHours float64 `json:"load_hours"` // annual operating hours

	Capacity    Quantity         `json:"capacity"` // plant capacity, base: t/yr
	Feedstocks  []FeedstockInput `json:"feedstocks"`
	Hydrogen    UtilityInput     `json:"hydrogen"`
	Electricity UtilityInput     `json:"electricity"`
	Products    []ProductInput   `json:"products"`
	Economics   EconomicInput    `json:"economics"`
	Finance     FinanceInput     `json:"finance"`
}

// CalculationRequest wraps UserInputs with request-level options.
type CalculationRequest struct {
	ID     string     `json:"id"` // assigned by the orchestrator if empty
	Inputs UserInputs `json:"inputs"`
	Trace  bool       `json:"trace"` // emit the step-by-step provenance breakdown
}
