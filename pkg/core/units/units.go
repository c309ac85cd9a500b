package units

import (
	"fmt"
	"strings"

	"biofuel_tea/pkg/models"
)

// Unit groups. Every registered tag belongs to exactly one group and
// carries a factor to that group's base unit.
const (
	GroupMassFlow       = "mass_flow"        // base: t/yr
	GroupPricePerMass   = "price_per_mass"   // base: USD/t
	GroupPricePerEnergy = "price_per_energy" // base: USD/kWh
	GroupCIPerMass      = "ci_per_mass"      // base: kgCO2/kg
	GroupCIPerEnergy    = "ci_per_energy"    // base: gCO2/MJ
	GroupEnergyPerMass  = "energy_per_mass"  // base: MJ/kg
	GroupMassPerMass    = "mass_per_mass"    // base: kg/kg
	GroupCurrency       = "currency"         // base: M-USD
)

// Volume and time constants used by the flow conversions that depend on
// product density and annual load hours.
const (
	litersPerGallon = 3.78541
	litersPerBarrel = 158.987
	hoursPerDay     = 24.0
)

// UnknownUnitError reports a unit tag absent from the conversion table.
// Callers must treat it as a contract violation and reject the request;
// a factor of 1 is never assumed for an unregistered tag.
type UnknownUnitError struct {
	Unit string
}

func (e *UnknownUnitError) Error() string {
	return fmt.Sprintf("unknown unit tag: %q", e.Unit)
}

type entry struct {
	group  string
	factor float64
}

// Normalizer converts tagged quantities to the base unit of their group.
// The conversion table is built once at construction and never mutated,
// so a single Normalizer is safe for concurrent use.
//
// Density (kg/L) and LoadHours are needed only for the volumetric flow
// tags (Mgal/yr, bbl/day); for purely mass-based units they are unused.
type Normalizer struct {
	table     map[string]entry
	density   float64
	loadHours float64
}

// DefaultDensity is a typical middle-distillate fuel density in kg/L,
// used when the caller does not supply one.
const DefaultDensity = 0.78

// NewNormalizer builds the canonical conversion table. density in kg/L,
// loadHours in operating hours per year.
func NewNormalizer(density, loadHours float64) *Normalizer {
	if density <= 0 {
		density = DefaultDensity
	}
	if loadHours <= 0 {
		loadHours = 8760
	}

	n := &Normalizer{
		density:   density,
		loadHours: loadHours,
		table:     make(map[string]entry),
	}

	// Mass flow (base: tonnes per year)
	n.add(GroupMassFlow, 1.0, "t/yr", "t/a", "tonnes/yr")
	n.add(GroupMassFlow, 1000.0, "kt/yr", "kt/a")
	// 1 Mgal/yr = 1e6 gal * 3.78541 L/gal * density kg/L / 1000 kg/t
	n.add(GroupMassFlow, 1e6*litersPerGallon*density/1000.0, "Mgal/yr", "mmgal/yr")
	// bbl/day runs only while the plant is loaded: days = loadHours / 24
	n.add(GroupMassFlow, litersPerBarrel*density/1000.0*(loadHours/hoursPerDay), "bbl/day", "bpd")

	// Price per mass (base: USD per tonne)
	n.add(GroupPricePerMass, 1.0, "USD/t", "$/t")
	n.add(GroupPricePerMass, 1000.0, "USD/kg", "$/kg")

	// Price per energy (base: USD per kWh)
	n.add(GroupPricePerEnergy, 1.0, "USD/kWh", "$/kWh")
	n.add(GroupPricePerEnergy, 0.001, "USD/MWh", "$/MWh")

	// Carbon intensity (two bases: per mass and per energy)
	n.add(GroupCIPerMass, 1.0, "kgCO2/kg", "kgCO2e/kg")
	n.add(GroupCIPerMass, 0.001, "gCO2/kg")
	n.add(GroupCIPerEnergy, 1.0, "gCO2/MJ", "gCO2e/MJ")
	n.add(GroupCIPerEnergy, 1.0/3.6, "gCO2/kWh", "gCO2e/kWh")
	n.add(GroupCIPerEnergy, 1000.0/3.6, "kgCO2/kWh", "kgCO2e/kWh")

	// Energy per mass (base: MJ per kg)
	n.add(GroupEnergyPerMass, 1.0, "MJ/kg", "GJ/t")
	n.add(GroupEnergyPerMass, 3.6, "kWh/kg")

	// Mass per mass (base: kg per kg)
	n.add(GroupMassPerMass, 1.0, "kg/kg", "t/t")

	// Currency (base: millions of USD)
	n.add(GroupCurrency, 1.0, "MUSD", "M$", "MM USD")
	n.add(GroupCurrency, 1e-6, "USD", "$")
	n.add(GroupCurrency, 1000.0, "BUSD", "B$")

	return n
}

func (n *Normalizer) add(group string, factor float64, tags ...string) {
	for _, tag := range tags {
		n.table[strings.ToLower(tag)] = entry{group: group, factor: factor}
	}
}

// Normalize converts q to the base unit of its group. An empty tag means
// the caller already supplies base-unit values and passes through as-is.
func (n *Normalizer) Normalize(q models.Quantity) (float64, error) {
	if q.Unit == "" {
		return q.Value, nil
	}
	e, ok := n.table[strings.ToLower(q.Unit)]
	if !ok {
		return 0, &UnknownUnitError{Unit: q.Unit}
	}
	return q.Value * e.factor, nil
}

// Group reports which physical dimension a tag belongs to. Used by
// callers that need to reject a unit of the wrong dimension (e.g. a
// currency tag on a capacity field).
func (n *Normalizer) Group(tag string) (string, error) {
	if tag == "" {
		return "", nil
	}
	e, ok := n.table[strings.ToLower(tag)]
	if !ok {
		return "", &UnknownUnitError{Unit: tag}
	}
	return e.group, nil
}

// NormalizeIn converts q and additionally enforces that the tag belongs
// to the expected group. An empty tag passes through unchecked.
func (n *Normalizer) NormalizeIn(q models.Quantity, group string) (float64, error) {
	if q.Unit == "" {
		return q.Value, nil
	}
	e, ok := n.table[strings.ToLower(q.Unit)]
	if !ok {
		return 0, &UnknownUnitError{Unit: q.Unit}
	}
	if e.group != group {
		return 0, fmt.Errorf("unit %q is %s, expected %s", q.Unit, e.group, group)
	}
	return q.Value * e.factor, nil
}
