package models

// ProductResult holds the per-product slice of the result contract.
// Units: production t/yr, CI gCO2/MJ, CCE percent, CO2 tCO2/yr,
// revenue M-USD/yr.
type ProductResult struct {
	Name            string  `json:"name"`
	Production      float64 `json:"production"`
	MassFraction    float64 `json:"mass_fraction"`
	CarbonIntensity float64 `json:"carbon_intensity"`
	CCE             float64 `json:"cce"`
	CO2Emissions    float64 `json:"co2_emissions"`
	Revenue         float64 `json:"revenue"`
}

// OpexBreakdown splits operating expenditure into its direct components
// and the TCI-proportional indirect share. All values M-USD/yr.
type OpexBreakdown struct {
	Feedstock   float64 `json:"feedstock"`
	Hydrogen    float64 `json:"hydrogen"`
	Electricity float64 `json:"electricity"`
	Direct      float64 `json:"direct"`
	Indirect    float64 `json:"indirect"`
	Total       float64 `json:"total"`
}

// CIBreakdown reports carbon intensity by source on the fuel-energy basis
// (gCO2/MJ of fuel).
type CIBreakdown struct {
	Feedstock   float64 `json:"feedstock"`
	Hydrogen    float64 `json:"hydrogen"`
	Electricity float64 `json:"electricity"`
	Process     float64 `json:"process"`
	Total       float64 `json:"total"`
	Weighted    float64 `json:"weighted"` // yield-weighted blend across feedstock streams
}

// CashFlowRow is one project-year of the financial schedule. Years run
// from -2 (land acquisition) through the project lifetime. All monetary
// values M-USD.
type CashFlowRow struct {
	Year               int     `json:"year"`
	CapitalInvestment  float64 `json:"capital_investment"`
	Depreciation       float64 `json:"depreciation"`
	AssetValue         float64 `json:"asset_value"` // remaining book value
	Revenue            float64 `json:"revenue"`
	LoanPayment        float64 `json:"loan_payment"`
	ManufacturingCost  float64 `json:"manufacturing_cost"`
	IncomeTax          float64 `json:"income_tax"`
	AfterTaxProfit     float64 `json:"after_tax_profit"`
	AfterTaxCashFlow   float64 `json:"after_tax_cash_flow"`
	DiscountFactor     float64 `json:"discount_factor"`
	DiscountedCashFlow float64 `json:"discounted_cash_flow"`
	CumulativeDCF      float64 `json:"cumulative_dcf"`
}

// FinancialSummary holds the discounted-cash-flow investment metrics.
// IRR is nil when the cash-flow sign pattern admits no solution within
// the solver bounds; Payback is nil when cumulative cash flow never
// turns non-negative within the lifetime. Both are valid outcomes, not
// errors.
type FinancialSummary struct {
	NPV     float64  `json:"npv"` // M-USD
	IRR     *float64 `json:"irr"`
	Payback *int     `json:"payback"` // year index
}

// TraceInput is one resolved input value, with its unit, as used by a
// recorded calculation step.
type TraceInput struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// TraceStep is one entry of the provenance breakdown: the human-readable
// formula, the resolved inputs, and the resulting value.
type TraceStep struct {
	Name    string       `json:"name"`
	Formula string       `json:"formula"`
	Inputs  []TraceInput `json:"inputs,omitempty"`
	Value   float64      `json:"value"`
}

// CalculationResult is the stable compatibility surface returned to
// downstream consumers, one record per calculation.
//
// Units: TCI M-USD; production and consumption t/yr (electricity MWh/yr);
// fuel energy content MJ/kg; LCOP USD/t; CO2 tCO2/yr; revenue M-USD/yr.
type CalculationResult struct {
	ID      string `json:"id"`
	Process string `json:"process"`
	Country string `json:"country"`

	TCI               float64 `json:"tci"`
	AnnualizedCapital float64 `json:"annualized_capital"` // M-USD/yr

	TotalProduction        float64         `json:"total_production"`
	Products               []ProductResult `json:"products"`
	FeedstockConsumption   float64         `json:"feedstock_consumption"`
	HydrogenConsumption    float64         `json:"hydrogen_consumption"`
	ElectricityConsumption float64         `json:"electricity_consumption"`
	FuelEnergyContent      float64         `json:"fuel_energy_content"`
	CCE                    float64         `json:"cce"` // percent, mean across products

	Opex OpexBreakdown `json:"opex"`
	CI   CIBreakdown   `json:"ci"`

	TotalCO2Emissions float64 `json:"total_co2_emissions"`
	TotalRevenue      float64 `json:"total_revenue"`
	LCOP              float64 `json:"lcop"`

	Financial FinancialSummary `json:"financial"`
	CashFlows []CashFlowRow    `json:"cash_flows"`

	Trace []TraceStep `json:"trace,omitempty"`
}
