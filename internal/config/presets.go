package config

import "sort"

var Presets = map[string]*Mixture{
	"h2-o2": {
		Mechanism: "gri30", Fuel: "H2", Oxidizer: "O2", Equivalence: 1,
		Pressure:    Quantity{Value: 1, Unit: "atm"},
		Temperature: Quantity{Value: 25, Unit: "degC"},
		TubeVolume:  Quantity{Value: 0.1, Unit: "m^3"},
	},
	"h2-o2-ar": {
		Mechanism: "h2o2", Fuel: "H2", Oxidizer: "O2", Diluent: "AR",
		Equivalence: 1, DiluentMoleFraction: 0.7,
		Pressure:    Quantity{Value: 1, Unit: "atm"},
		Temperature: Quantity{Value: 25, Unit: "degC"},
		TubeVolume:  Quantity{Value: 0.1, Unit: "m^3"},
	},
	"ch4-o2": {
		Mechanism: "gri30", Fuel: "CH4", Oxidizer: "O2", Equivalence: 1,
		Pressure:    Quantity{Value: 1, Unit: "atm"},
		Temperature: Quantity{Value: 25, Unit: "degC"},
		TubeVolume:  Quantity{Value: 0.1, Unit: "m^3"},
	},
	"c3h8-n2o": {
		Mechanism: "gri30", Fuel: "C3H8", Oxidizer: "N2O", Diluent: "N2",
		Equivalence: 1, DiluentMoleFraction: 0.1,
		Pressure:    Quantity{Value: 14.7, Unit: "psi"},
		Temperature: Quantity{Value: 70, Unit: "degF"},
		TubeVolume:  Quantity{Value: 100, Unit: "L"},
	},
	"h2-air": {
		Mechanism: "gri30", Fuel: "H2", Oxidizer: "O2", Diluent: "N2",
		Equivalence: 1, DiluentMoleFraction: 0.5562,
		Pressure:    Quantity{Value: 1, Unit: "atm"},
		Temperature: Quantity{Value: 25, Unit: "degC"},
		TubeVolume:  Quantity{Value: 0.1, Unit: "m^3"},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Mixture {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
