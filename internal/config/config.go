package config

import (
	"fmt"
	"os"

	"github.com/ctessum/unit"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/pbomb/internal/thermochem"
	"github.com/san-kum/pbomb/internal/units"
)

const (
	DefaultMechanism   = thermochem.DefaultMechanism
	DefaultFuel        = "H2"
	DefaultOxidizer    = "O2"
	DefaultEquivalence = thermochem.DefaultEquivalence
	DefaultPressure    = 1.0
	DefaultTemperature = 25.0
	DefaultTubeVolume  = 0.1
)

// Quantity is a magnitude with a unit name understood by units.Registry.
type Quantity struct {
	Value float64 `yaml:"value"`
	Unit  string  `yaml:"unit"`
}

func (q Quantity) String() string {
	return fmt.Sprintf("%g %s", q.Value, q.Unit)
}

// Mixture is the file form of a detonation tube fill.
type Mixture struct {
	Mechanism           string   `yaml:"mechanism"`
	Phase               string   `yaml:"phase,omitempty"`
	Fuel                string   `yaml:"fuel"`
	Oxidizer            string   `yaml:"oxidizer"`
	Diluent             string   `yaml:"diluent,omitempty"`
	Equivalence         float64  `yaml:"equivalence"`
	DiluentMoleFraction float64  `yaml:"diluent_mole_fraction,omitempty"`
	Pressure            Quantity `yaml:"pressure"`
	Temperature         Quantity `yaml:"temperature"`
	TubeVolume          Quantity `yaml:"tube_volume"`
}

func DefaultMixture() *Mixture {
	return &Mixture{
		Mechanism:   DefaultMechanism,
		Fuel:        DefaultFuel,
		Oxidizer:    DefaultOxidizer,
		Equivalence: DefaultEquivalence,
		Pressure:    Quantity{Value: DefaultPressure, Unit: "atm"},
		Temperature: Quantity{Value: DefaultTemperature, Unit: "degC"},
		TubeVolume:  Quantity{Value: DefaultTubeVolume, Unit: "m^3"},
	}
}

func Load(path string) (*Mixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultMixture()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Mixture) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// MixtureConfig resolves the quantities in m through reg.
func (m *Mixture) MixtureConfig(reg *units.Registry) (thermochem.MixtureConfig, error) {
	p, err := reg.Quantity(m.Pressure.Value, m.Pressure.Unit)
	if err != nil {
		return thermochem.MixtureConfig{}, fmt.Errorf("pressure: %w", err)
	}
	t, err := reg.Quantity(m.Temperature.Value, m.Temperature.Unit)
	if err != nil {
		return thermochem.MixtureConfig{}, fmt.Errorf("temperature: %w", err)
	}
	return thermochem.MixtureConfig{
		InitialPressure:     p,
		InitialTemperature:  t,
		Fuel:                m.Fuel,
		Oxidizer:            m.Oxidizer,
		Diluent:             m.Diluent,
		Equivalence:         m.Equivalence,
		DiluentMoleFraction: m.DiluentMoleFraction,
		Mechanism:           m.Mechanism,
		Phase:               m.Phase,
	}, nil
}

// Volume resolves the tube volume through reg.
func (m *Mixture) Volume(reg *units.Registry) (*unit.Unit, error) {
	v, err := reg.Quantity(m.TubeVolume.Value, m.TubeVolume.Unit)
	if err != nil {
		return nil, fmt.Errorf("tube volume: %w", err)
	}
	if err := units.Check(v, units.Volume, true); err != nil {
		return nil, fmt.Errorf("tube volume: %w", err)
	}
	return v, nil
}

// Build resolves m and constructs the mixture it describes.
func (m *Mixture) Build(reg *units.Registry, provider thermochem.Provider) (*thermochem.Mixture, error) {
	cfg, err := m.MixtureConfig(reg)
	if err != nil {
		return nil, err
	}
	return thermochem.NewMixture(provider, cfg)
}
