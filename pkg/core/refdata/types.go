package refdata

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when no record exists for the requested key.
// The orchestrator surfaces it as a validation failure.
var ErrNotFound = errors.New("reference data not found")

// Key identifies one reference-data record: a process technology applied
// to a feedstock in a country. Lookups are case-insensitive.
type Key struct {
	Process   string
	Feedstock string
	Country   string
}

func (k Key) normalized() Key {
	return Key{
		Process:   strings.ToLower(strings.TrimSpace(k.Process)),
		Feedstock: strings.ToLower(strings.TrimSpace(k.Feedstock)),
		Country:   strings.ToLower(strings.TrimSpace(k.Country)),
	}
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Process, k.Feedstock, k.Country)
}

// Record is the read-only reference dataset for one key. All ratio
// fields are fractions in [0,1]; mass fractions are keyed by lowercase
// product name.
type Record struct {
	RefCapitalCost    float64            `yaml:"ref_capital_cost" json:"ref_capital_cost"` // M-USD at RefCapacity
	RefCapacity       float64            `yaml:"ref_capacity" json:"ref_capacity"`         // t/yr
	ScalingExponent   float64            `yaml:"scaling_exponent" json:"scaling_exponent"`
	FeedstockYield    float64            `yaml:"feedstock_yield" json:"feedstock_yield"`   // kg/kg
	HydrogenYield     float64            `yaml:"hydrogen_yield" json:"hydrogen_yield"`     // kg/kg
	ElectricityYield  float64            `yaml:"electricity_yield" json:"electricity_yield"` // kWh/kg
	MassFractions     map[string]float64 `yaml:"mass_fractions" json:"mass_fractions"`
	ProcessCI         float64            `yaml:"process_ci" json:"process_ci"` // gCO2/MJ
	IndirectOpexRatio float64            `yaml:"indirect_opex_ratio" json:"indirect_opex_ratio"`
	ProcessingSteps   int                `yaml:"processing_steps" json:"processing_steps"`
}

// MassFraction returns the default mass fraction for a product name,
// case-insensitive. Second return is false when the product is unknown.
func (r *Record) MassFraction(product string) (float64, bool) {
	if r.MassFractions == nil {
		return 0, false
	}
	mf, ok := r.MassFractions[strings.ToLower(strings.TrimSpace(product))]
	return mf, ok
}

// Repository supplies reference-data records. Implementations: Postgres
// (primary), YAML file (local fallback), and the TTL cache that fronts
// either.
type Repository interface {
	Get(ctx context.Context, key Key) (*Record, error)
}

// Writer is implemented by repositories that accept upserts. Writes must
// be followed by a cache invalidation for the same key.
type Writer interface {
	Put(ctx context.Context, key Key, rec *Record) error
}
