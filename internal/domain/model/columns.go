package model

// Canonical emissions columns.
const (
	CO2            = "co2"
	ShareGlobalCO2 = "share_global_co2"
	CO2PerGDP      = "co2_per_gdp"
	CO2PerCapita   = "co2_per_capita"
	Methane        = "methane"
	CoalCO2        = "coal_co2"
	OilCO2         = "oil_co2"
	GasCO2         = "gas_co2"
	CementCO2      = "cement_co2"
)

// EnergySources are the canonical per-capita energy-mix sibling columns.
var EnergySources = []string{"coal", "oil", "gas", "nuclear", "hydro", "wind", "solar", "other"}

// EnergyShares are the fraction columns derived from EnergySources, position
// for position.
var EnergyShares = []string{"Coal", "Oil", "Gas", "Nuclear", "Hydro", "Wind", "Solar", "Other"}
