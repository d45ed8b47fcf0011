package normalize

import "github.com/okian/carbonview/internal/domain/model"

// Dataset names.
const (
	DatasetEmissions   = "emissions"
	DatasetEnergyMix   = "energy_mix"
	DatasetObservatory = "observatory"
)

// EmissionsSpec maps the OWID co2-data CSV. Missing cells are zero-filled and
// codeless aggregate rows ("World", "Asia", ...) are dropped.
func EmissionsSpec() SchemaSpec {
	cols := []string{
		model.CO2, model.ShareGlobalCO2, model.CO2PerGDP, model.CO2PerCapita, model.Methane,
		model.CoalCO2, model.OilCO2, model.GasCO2, model.CementCO2,
	}
	metrics := make([]Column, len(cols))
	for i, c := range cols {
		metrics[i] = Column{Raw: c, Canonical: c}
	}
	return SchemaSpec{
		Dataset:     DatasetEmissions,
		Entity:      "country",
		Code:        "iso_code",
		Year:        "year",
		Metrics:     metrics,
		Policy:      ZeroFill,
		RequireCode: true,
	}
}

// EnergyMixSpec maps the per-capita energy stacked CSV. Every source column
// must be present for shares to be meaningful, so incomplete rows are dropped.
func EnergyMixSpec() SchemaSpec {
	raw := []string{
		"Coal per capita (kWh)",
		"Oil per capita (kWh)",
		"Gas per capita (kWh)",
		"Nuclear per capita (kWh - equivalent)",
		"Hydro per capita (kWh - equivalent)",
		"Wind per capita (kWh - equivalent)",
		"Solar per capita (kWh - equivalent)",
		"Other renewables per capita (kWh - equivalent)",
	}
	metrics := make([]Column, len(raw))
	for i, r := range raw {
		metrics[i] = Column{Raw: r, Canonical: model.EnergySources[i]}
	}
	return SchemaSpec{
		Dataset:     DatasetEnergyMix,
		Entity:      "Entity",
		Code:        "Code",
		Year:        "Year",
		Metrics:     metrics,
		Policy:      DropIncomplete,
		RequireCode: true,
	}
}

// ObservatoryColumns names the header-less columns of the Mauna Loa daily file.
var ObservatoryColumns = []string{"Yr", "Mn", "Dy", "CO2", "NHrs", "Scale"}

// ObservatorySpec maps the Mauna Loa daily in-situ CO2 series.
func ObservatorySpec() ObservationSpec {
	return ObservationSpec{
		Dataset: DatasetObservatory,
		Year:    "Yr",
		Month:   "Mn",
		Day:     "Dy",
		Value:   "CO2",
	}
}
