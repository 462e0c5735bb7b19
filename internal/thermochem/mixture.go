package thermochem

import (
	"fmt"
	"math"
	"strings"

	"github.com/ctessum/unit"

	"github.com/san-kum/pbomb/internal/chem"
	"github.com/san-kum/pbomb/internal/units"
)

const (
	DefaultMechanism   = "gri30"
	DefaultEquivalence = 1.0
)

// specific gas constant dimensions, J/(kg K)
var specificGasConstant = unit.Dimensions{
	unit.LengthDim:      2,
	unit.TimeDim:        -2,
	unit.TemperatureDim: -1,
}

// MixtureConfig holds the inputs to NewMixture.
type MixtureConfig struct {
	InitialPressure     *unit.Unit
	InitialTemperature  *unit.Unit
	Fuel                string
	Oxidizer            string
	Diluent             string
	Equivalence         float64
	DiluentMoleFraction float64
	Mechanism           string
	Phase               string
}

// DefaultMixtureConfig returns a stoichiometric configuration on the
// default mechanism. Pressure, temperature and species are left unset.
func DefaultMixtureConfig() MixtureConfig {
	return MixtureConfig{
		Equivalence: DefaultEquivalence,
		Mechanism:   DefaultMechanism,
	}
}

// Mixture is a fuel/oxidizer blend at a fixed initial temperature and
// pressure, optionally diluted. It owns one undiluted gas state and, once
// diluted, one diluted gas state.
//
// A Mixture is not safe for concurrent use.
type Mixture struct {
	provider  Provider
	mechanism string
	phase     string

	fuel     string
	oxidizer string
	diluent  string
	fraction float64
	phi      float64

	pressure    *unit.Unit
	temperature *unit.Unit
	species     map[string]bool

	undiluted GasState
	diluted   GasState
}

// NewMixture validates cfg, builds the undiluted state at the configured
// equivalence ratio and, when a diluent with a non-zero mole fraction is
// given, the diluted state.
func NewMixture(provider Provider, cfg MixtureConfig) (*Mixture, error) {
	if err := units.Check(cfg.InitialPressure, units.Pressure, true); err != nil {
		return nil, err
	}
	if err := units.Check(cfg.InitialTemperature, units.Temperature, true); err != nil {
		return nil, err
	}

	undiluted, err := provider.NewSolution(cfg.Mechanism, cfg.Phase)
	if err != nil {
		return nil, err
	}
	t, p := cfg.InitialTemperature.Value(), cfg.InitialPressure.Value()
	if err := undiluted.SetTP(t, p); err != nil {
		return nil, err
	}

	m := &Mixture{
		provider:    provider,
		mechanism:   cfg.Mechanism,
		phase:       cfg.Phase,
		pressure:    cfg.InitialPressure.Clone(),
		temperature: cfg.InitialTemperature.Clone(),
		species:     make(map[string]bool),
		undiluted:   undiluted,
	}
	for _, s := range undiluted.SpeciesNames() {
		m.species[s] = true
	}

	if !m.species[cfg.Fuel] {
		return nil, &UnknownSpeciesError{Role: "fuel", Names: []string{cfg.Fuel}}
	}
	if !m.species[cfg.Oxidizer] {
		return nil, &UnknownSpeciesError{Role: "oxidizer", Names: []string{cfg.Oxidizer}}
	}
	if cfg.Fuel == cfg.Oxidizer {
		return nil, fmt.Errorf("%w: both are %s", ErrInvalidReactants, cfg.Fuel)
	}
	m.fuel, m.oxidizer = cfg.Fuel, cfg.Oxidizer

	if cfg.Diluent != "" {
		if err := m.validateDiluent(cfg.Diluent, cfg.DiluentMoleFraction); err != nil {
			return nil, err
		}
		m.diluent, m.fraction = cfg.Diluent, cfg.DiluentMoleFraction
	}

	if err := m.SetEquivalence(cfg.Equivalence); err != nil {
		return nil, err
	}
	if m.diluent != "" && m.fraction != 0 {
		if err := m.AddDiluent(m.diluent, m.fraction); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// SetEquivalence sets the undiluted composition to the fuel/oxidizer blend
// at equivalence ratio phi and, if the mixture is diluted, re-dilutes it at
// the current diluent mole fraction. The previous composition is kept if
// anything fails.
func (m *Mixture) SetEquivalence(phi float64) error {
	if !(phi > 0) || math.IsInf(phi, 0) {
		return fmt.Errorf("%w: got %g", ErrInvalidEquivalence, phi)
	}

	prev := m.undiluted.MoleFractionMap()
	if err := m.undiluted.SetEquivalenceRatio(phi, m.fuel, m.oxidizer); err != nil {
		m.restore(prev)
		return err
	}
	if m.diluted != nil {
		if err := m.dilute(m.diluent, m.fraction); err != nil {
			m.restore(prev)
			return err
		}
	}
	m.phi = phi
	return nil
}

func (m *Mixture) restore(x map[string]float64) {
	if len(x) == 0 {
		return
	}
	// x was read from this state, so it is valid for it
	_ = m.undiluted.SetTPX(m.temperature.Value(), m.pressure.Value(), x)
}

func (m *Mixture) validateDiluent(diluent string, fraction float64) error {
	tokens := strings.Fields(diluent)
	switch len(tokens) {
	case 0:
		return fmt.Errorf("%w: empty diluent", ErrInvalidDiluent)
	case 1:
		if diluent := tokens[0]; diluent == m.fuel || diluent == m.oxidizer {
			return fmt.Errorf("%w: cannot dilute with the fuel or oxidizer (%s)", ErrInvalidDiluent, diluent)
		}
		if !m.species[tokens[0]] {
			return &UnknownSpeciesError{Role: "diluent", Names: []string{tokens[0]}}
		}
	default:
		if err := ValidateCompound(diluent, m.speciesNames()); err != nil {
			return err
		}
		parts, err := parseDiluent(diluent)
		if err != nil {
			return err
		}
		for _, c := range parts {
			if c.Name == m.fuel || c.Name == m.oxidizer {
				return fmt.Errorf("%w: compound diluent contains the fuel or oxidizer (%s)", ErrInvalidDiluent, c.Name)
			}
		}
	}
	return checkFraction(fraction)
}

func (m *Mixture) speciesNames() []string {
	return m.undiluted.SpeciesNames()
}

// AddDiluent dilutes the current undiluted composition with diluent at the
// given mole fraction, keeping the equivalence ratio. diluent is a species
// name or a compound string such as "N2:1 NO:0.01". Nothing changes if
// validation fails.
func (m *Mixture) AddDiluent(diluent string, fraction float64) error {
	if err := m.validateDiluent(diluent, fraction); err != nil {
		return err
	}
	if m.diluted == nil && fraction == 0 {
		m.diluent, m.fraction = diluent, fraction
		return nil
	}
	return m.dilute(diluent, fraction)
}

func (m *Mixture) dilute(diluent string, fraction float64) error {
	x, err := Dilute(m.undiluted.MoleFractionMap(), diluent, fraction)
	if err != nil {
		return err
	}
	state := m.diluted
	if state == nil {
		state, err = m.provider.NewSolution(m.mechanism, m.phase)
		if err != nil {
			return err
		}
	}
	if err := state.SetTPX(m.temperature.Value(), m.pressure.Value(), x); err != nil {
		return err
	}
	m.diluted = state
	m.diluent, m.fraction = diluent, fraction
	return nil
}

func (m *Mixture) state(diluted bool) (GasState, error) {
	if !diluted {
		return m.undiluted, nil
	}
	if m.diluted == nil {
		return nil, ErrMixtureNotDiluted
	}
	return m.diluted, nil
}

// Masses returns the mass of each species present in a tube of the given
// volume filled with the mixture at its initial state, treating each
// species as an ideal gas at its partial pressure.
func (m *Mixture) Masses(tubeVolume *unit.Unit, diluted bool) (map[string]*unit.Unit, error) {
	if err := units.Check(tubeVolume, units.Volume, true); err != nil {
		return nil, err
	}
	g, err := m.state(diluted)
	if err != nil {
		return nil, err
	}

	names, x, w := g.SpeciesNames(), g.MoleFractions(), g.MolecularWeights()
	out := make(map[string]*unit.Unit)
	for i, name := range names {
		if x[i] <= 0 {
			continue
		}
		rSpecific := unit.New(chem.GasConstant/w[i], specificGasConstant)
		partial := unit.Mul(m.pressure, unit.New(x[i], unit.Dimless))
		rho := unit.Div(partial, unit.Mul(rSpecific, m.temperature))
		out[name] = unit.Mul(rho, tubeVolume)
	}
	return out, nil
}

// Pressures returns the partial pressure of each species present.
func (m *Mixture) Pressures(diluted bool) (map[string]*unit.Unit, error) {
	g, err := m.state(diluted)
	if err != nil {
		return nil, err
	}
	names, x := g.SpeciesNames(), g.MoleFractions()
	out := make(map[string]*unit.Unit)
	for i, name := range names {
		if x[i] > 0 {
			out[name] = unit.Mul(m.pressure, unit.New(x[i], unit.Dimless))
		}
	}
	return out, nil
}

// MoleFractions returns the species with non-zero mole fraction in the
// selected state.
func (m *Mixture) MoleFractions(diluted bool) (map[string]float64, error) {
	g, err := m.state(diluted)
	if err != nil {
		return nil, err
	}
	return g.MoleFractionMap(), nil
}

func (m *Mixture) Mechanism() string            { return m.mechanism }
func (m *Mixture) Fuel() string                 { return m.fuel }
func (m *Mixture) Oxidizer() string             { return m.oxidizer }
func (m *Mixture) Diluent() string              { return m.diluent }
func (m *Mixture) DiluentMoleFraction() float64 { return m.fraction }
func (m *Mixture) Equivalence() float64         { return m.phi }
func (m *Mixture) IsDiluted() bool              { return m.diluted != nil }

// InitialPressure returns the initial pressure in Pa.
func (m *Mixture) InitialPressure() *unit.Unit { return m.pressure.Clone() }

// InitialTemperature returns the initial temperature in K.
func (m *Mixture) InitialTemperature() *unit.Unit { return m.temperature.Clone() }
