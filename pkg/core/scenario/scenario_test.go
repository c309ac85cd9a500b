package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biofuel_tea/pkg/core/engine"
	"biofuel_tea/pkg/models"
)

const sampleScenario = `
{
  // HEFA plant on used cooking oil, US reference data
  inputs: {
    process: hefa
    country: us
    load_hours: 8000
    capacity: { value: 500000, unit: "t/yr" }
    feedstocks: [
      {
        name: used_cooking_oil
        price: { value: 800, unit: "USD/t" }
        carbon_content: 0.77
        carbon_intensity: { value: 20, unit: "gCO2/MJ" }
        energy_content: { value: 37, unit: "MJ/kg" }
        yield: 1.21
      }
    ]
    hydrogen: { price: { value: 1500, unit: "USD/t" }, yield: 0.042, carbon_intensity: { value: 90, unit: "gCO2/MJ" } }
    electricity: { price: { value: 80, unit: "USD/MWh" }, yield: 0.2, carbon_intensity: { value: 120, unit: "gCO2/MJ" } }
    products: [
      {
        name: jet
        price: { value: 1100, unit: "USD/t" }
        carbon_content: 0.84
        energy_content: { value: 43.1, unit: "MJ/kg" }
        mass_fraction: 0.64
      }
      {
        name: diesel
        price: { value: 950, unit: "USD/t" }
        carbon_content: 0.85
        energy_content: { value: 42.8, unit: "MJ/kg" }
        mass_fraction: 0.15
      }
      {
        name: naphtha
        price: { value: 700, unit: "USD/t" }
        carbon_content: 0.84
        energy_content: { value: 44.9, unit: "MJ/kg" }
        mass_fraction: 0.21
      }
    ]
    economics: {
      discount_rate: 0.08
      lifetime: 25
      working_capital_ratio: 0.05
      indirect_opex_ratio: 0.04
    }
    finance: { equity_ratio: 0.4, tax_rate: 0.2 }
  }
  trace: false
}
`

func TestParseHjsonScenario(t *testing.T) {
	req, err := Parse([]byte(sampleScenario))
	require.NoError(t, err)

	assert.Equal(t, "hefa", req.Inputs.Process)
	assert.Equal(t, 500000.0, req.Inputs.Capacity.Value)
	assert.Equal(t, "t/yr", req.Inputs.Capacity.Unit)
	require.Len(t, req.Inputs.Feedstocks, 1)
	assert.Equal(t, 1.21, req.Inputs.Feedstocks[0].Yield)
	require.Len(t, req.Inputs.Products, 3)
	assert.Equal(t, 0.64, req.Inputs.Products[0].MassFraction)
	assert.Equal(t, 25, req.Inputs.Economics.Lifetime)
	require.NotNil(t, req.Inputs.Finance.EquityRatio)
	assert.Equal(t, 0.4, *req.Inputs.Finance.EquityRatio)
}

func TestShippedScenarioParses(t *testing.T) {
	req, err := Load("../../../scenarios/hefa_uco_us.hjson")
	require.NoError(t, err)
	assert.Equal(t, "hefa", req.Inputs.Process)
	require.Len(t, req.Inputs.Products, 3)
	assert.Equal(t, "naphtha", req.Inputs.Products[2].Name)
}

func TestPercentScaledRatioRejected(t *testing.T) {
	// The canonical ratio contract is a fraction in [0,1]. A value like
	// 4 (meaning 4%) must be rejected at ingestion, not divided by 100
	// somewhere downstream.
	in := validInputs()
	in.Economics.IndirectOpexRatio = 4.0

	err := Validate(&in)
	require.Error(t, err)
	var verr *engine.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Reason, "indirect_opex_ratio")

	in = validInputs()
	in.Finance.TaxRate = fptr(20.0)
	assert.Error(t, Validate(&in))

	in = validInputs()
	in.Feedstocks[0].Share = 1.5
	assert.Error(t, Validate(&in))
}

func TestNegativeQuantitiesRejected(t *testing.T) {
	in := validInputs()
	in.Feedstocks[0].Price.Value = -10
	assert.Error(t, Validate(&in))

	in = validInputs()
	in.Products[0].Yield = -0.1
	assert.Error(t, Validate(&in))

	in = validInputs()
	in.Capacity.Value = -1
	assert.Error(t, Validate(&in))
}

func TestMissingProcessRejected(t *testing.T) {
	in := validInputs()
	in.Process = ""
	assert.Error(t, Validate(&in))
}

func validInputs() models.UserInputs {
	return models.UserInputs{
		Process:   "hefa",
		Country:   "us",
		LoadHours: 8000,
		Capacity:  models.Quantity{Value: 500000, Unit: "t/yr"},
		Feedstocks: []models.FeedstockInput{
			{
				Name:          "used_cooking_oil",
				Price:         models.Quantity{Value: 800, Unit: "USD/t"},
				CarbonContent: 0.77,
				Yield:         1.21,
			},
		},
		Products: []models.ProductInput{
			{Name: "jet", Price: models.Quantity{Value: 1100, Unit: "USD/t"}, CarbonContent: 0.84, MassFraction: 0.64},
		},
		Economics: models.EconomicInput{
			DiscountRate:        0.08,
			Lifetime:            25,
			WorkingCapitalRatio: 0.05,
			IndirectOpexRatio:   0.04,
		},
		Finance: models.FinanceInput{EquityRatio: fptr(0.4), TaxRate: fptr(0.2)},
	}
}

func fptr(v float64) *float64 { return &v }
