package finance

import (
	"math"

	"biofuel_tea/pkg/core/trace"
	"biofuel_tea/pkg/models"
)

// Input holds the cash-flow-model parameters. Monetary values are in
// M-USD on the same base as the engine outputs. Every field is taken
// literally: start from Defaults() and override, so an explicit zero
// (no tax, no land cost) means zero.
type Input struct {
	TCI               float64 // total capital investment
	Revenue           float64 // annual revenue, M-USD/yr
	ManufacturingCost float64 // annual operating cost, M-USD/yr

	DiscountRate float64
	Lifetime     int // operating years

	EquityRatio         float64
	TaxRate             float64
	LoanInterestRate    float64
	LoanTerm            int // years; capped at Lifetime
	DepreciationRate    float64
	DepreciationYears   int // cap year for depreciation
	LandCostRatio       float64
	WorkingCapitalRatio float64
}

// Defaults returns an Input carrying the documented schedule
// parameters: 40% equity, 20% tax, 7% loan interest over 10 years,
// 10%/yr straight-line depreciation over 10 years, 2% land share, 5%
// working capital. Callers fill in the plant figures and override any
// parameter, including to zero.
func Defaults() Input {
	return Input{
		EquityRatio:         0.4,
		TaxRate:             0.2,
		LoanInterestRate:    0.07,
		LoanTerm:            10,
		DepreciationRate:    0.1,
		DepreciationYears:   10,
		LandCostRatio:       0.02,
		WorkingCapitalRatio: 0.05,
	}
}

// constructionStartYear is the first year of the schedule: land is
// acquired two years before operation starts.
const constructionStartYear = -2

// annuity returns the level annual payment amortizing principal over
// term years at rate r. With r = 0 the payment is principal / term.
func annuity(principal float64, r float64, term int) float64 {
	if term <= 0 || principal <= 0 {
		return 0
	}
	if r == 0 {
		return principal / float64(term)
	}
	growth := math.Pow(1.0+r, float64(term))
	return principal * r * growth / (growth - 1.0)
}

// BuildSchedule produces the year-indexed cash-flow rows, years -2
// through Lifetime, in order. The cumulative discounted column is a
// strictly sequential fold over the rows; no row is computed before all
// earlier rows.
//
// Construction phase: year -2 land acquisition, year -1 equity
// investment net of working capital, year 0 working capital.
// Operating phase: years 1..Lifetime.
func BuildSchedule(in Input, rec *trace.Recorder) []models.CashFlowRow {
	landCost := in.LandCostRatio * in.TCI
	workingCapital := in.WorkingCapitalRatio * in.TCI
	equityInvestment := in.EquityRatio*in.TCI - workingCapital
	debt := in.TCI * (1.0 - in.EquityRatio)

	loanTerm := in.LoanTerm
	if loanTerm > in.Lifetime {
		loanTerm = in.Lifetime
	}
	loanPayment := annuity(debt, in.LoanInterestRate, loanTerm)

	annualDepreciation := in.DepreciationRate * in.TCI

	rec.Record("land_cost", "land = land_ratio * TCI", landCost,
		trace.In("land_ratio", in.LandCostRatio, ""), trace.In("TCI", in.TCI, "MUSD"))
	rec.Record("working_capital", "WC = wc_ratio * TCI", workingCapital,
		trace.In("wc_ratio", in.WorkingCapitalRatio, ""))
	rec.Record("equity_investment", "equity = equity_ratio * TCI - WC", equityInvestment,
		trace.In("equity_ratio", in.EquityRatio, ""))
	rec.Record("loan_payment", "payment = annuity(TCI * (1 - equity_ratio), loan_rate, loan_term)", loanPayment,
		trace.In("debt", debt, "MUSD"),
		trace.In("loan_rate", in.LoanInterestRate, ""),
		trace.In("loan_term", float64(loanTerm), "yr"))

	rows := make([]models.CashFlowRow, 0, in.Lifetime-constructionStartYear+1)
	assetValue := in.TCI
	var cumulativeDCF float64

	for year := constructionStartYear; year <= in.Lifetime; year++ {
		row := models.CashFlowRow{Year: year}

		switch {
		case year == -2:
			row.CapitalInvestment = landCost
			row.AfterTaxCashFlow = -landCost
		case year == -1:
			row.CapitalInvestment = equityInvestment
			row.AfterTaxCashFlow = -equityInvestment
		case year == 0:
			row.CapitalInvestment = workingCapital
			row.AfterTaxCashFlow = -workingCapital
		default:
			// Operating year.
			if year <= in.DepreciationYears {
				row.Depreciation = annualDepreciation
				assetValue -= annualDepreciation
				if assetValue < 0 {
					assetValue = 0
				}
			}
			if year <= loanTerm {
				row.LoanPayment = loanPayment
			}
			row.Revenue = in.Revenue
			row.ManufacturingCost = in.ManufacturingCost

			taxable := row.Revenue - row.Depreciation - row.LoanPayment - row.ManufacturingCost
			tax := taxable * in.TaxRate
			if tax < 0 {
				tax = 0
			}
			row.IncomeTax = tax
			row.AfterTaxProfit = row.Revenue - row.LoanPayment - row.ManufacturingCost - tax
			row.AfterTaxCashFlow = row.AfterTaxProfit + row.Depreciation
		}
		row.AssetValue = assetValue

		// Negative years compound backward: (1+r)^(-year) > 1.
		row.DiscountFactor = math.Pow(1.0+in.DiscountRate, -float64(year))
		row.DiscountedCashFlow = row.AfterTaxCashFlow * row.DiscountFactor
		cumulativeDCF += row.DiscountedCashFlow
		row.CumulativeDCF = cumulativeDCF

		rows = append(rows, row)
	}

	return rows
}
