package chem

import (
	"fmt"
	"math"
	"strings"
)

// Solution is an ideal-gas state over one mechanism phase: temperature,
// pressure and mole fractions. A Solution is not safe for concurrent use.
type Solution struct {
	mechanism string
	phase     string
	species   []*Species
	index     map[string]int
	t, p      float64
	x         []float64
}

func newSolution(m *Mechanism, phase *Phase) *Solution {
	s := &Solution{
		mechanism: m.Name,
		phase:     phase.Name,
		species:   make([]*Species, len(phase.Species)),
		index:     make(map[string]int, len(phase.Species)),
		t:         300,
		p:         OneAtm,
		x:         make([]float64, len(phase.Species)),
	}
	for i, name := range phase.Species {
		sp, _ := m.Species(name)
		s.species[i] = sp
		s.index[name] = i
	}
	s.x[0] = 1
	return s
}

// Mechanism returns the mechanism name the solution was built from.
func (s *Solution) Mechanism() string { return s.mechanism }

// Phase returns the phase name.
func (s *Solution) Phase() string { return s.phase }

// SpeciesNames returns the phase species in mechanism order.
func (s *Solution) SpeciesNames() []string {
	names := make([]string, len(s.species))
	for i, sp := range s.species {
		names[i] = sp.Name
	}
	return names
}

// MoleFractions returns a copy of the mole fraction vector, aligned with
// SpeciesNames.
func (s *Solution) MoleFractions() []float64 {
	return append([]float64(nil), s.x...)
}

// MoleFractionMap returns the species with non-zero mole fraction.
func (s *Solution) MoleFractionMap() map[string]float64 {
	m := make(map[string]float64)
	for i, v := range s.x {
		if v > 0 {
			m[s.species[i].Name] = v
		}
	}
	return m
}

// MolecularWeights returns species molecular weights in kg/kmol.
func (s *Solution) MolecularWeights() []float64 {
	w := make([]float64, len(s.species))
	for i, sp := range s.species {
		w[i] = sp.Weight
	}
	return w
}

// Temperature returns T in K.
func (s *Solution) Temperature() float64 { return s.t }

// Pressure returns P in Pa.
func (s *Solution) Pressure() float64 { return s.p }

// MeanMolecularWeight returns the mole-averaged molecular weight in kg/kmol.
func (s *Solution) MeanMolecularWeight() float64 {
	var w float64
	for i, v := range s.x {
		w += v * s.species[i].Weight
	}
	return w
}

// Density returns the ideal-gas density in kg/m^3.
func (s *Solution) Density() float64 {
	return s.p * s.MeanMolecularWeight() / (GasConstant * s.t)
}

func checkTP(t, p float64) error {
	if !(t > 0) || math.IsInf(t, 0) {
		return fmt.Errorf("%w: temperature %g K", ErrInvalidState, t)
	}
	if !(p > 0) || math.IsInf(p, 0) {
		return fmt.Errorf("%w: pressure %g Pa", ErrInvalidState, p)
	}
	return nil
}

// SetTP sets temperature and pressure at fixed composition.
func (s *Solution) SetTP(t, p float64) error {
	if err := checkTP(t, p); err != nil {
		return err
	}
	s.t, s.p = t, p
	return nil
}

// SetTPX sets temperature, pressure and composition. Amounts in x are
// normalized; every key must be a phase species. Nothing is changed on
// error.
func (s *Solution) SetTPX(t, p float64, x map[string]float64) error {
	if err := checkTP(t, p); err != nil {
		return err
	}
	next, err := s.vector(x)
	if err != nil {
		return err
	}
	s.t, s.p, s.x = t, p, next
	return nil
}

func (s *Solution) vector(x map[string]float64) ([]float64, error) {
	v := make([]float64, len(s.species))
	var bad []string
	var total float64
	for name, amount := range x {
		i, ok := s.index[name]
		if !ok {
			bad = append(bad, name)
			continue
		}
		if amount < 0 || math.IsNaN(amount) {
			return nil, fmt.Errorf("%w: %s has amount %g", ErrComposition, name, amount)
		}
		v[i] += amount
		total += amount
	}
	if len(bad) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSpecies, strings.Join(bad, ", "))
	}
	if !(total > 0) {
		return nil, fmt.Errorf("%w: amounts sum to %g", ErrComposition, total)
	}
	for i := range v {
		v[i] /= total
	}
	return v, nil
}

// SetEquivalenceRatio sets the composition to fuel and oxidizer blended at
// equivalence ratio phi, holding temperature and pressure. fuel and
// oxidizer are composition strings ("CH4" or "O2:1 N2:3.76").
//
// The stoichiometric blend is the one whose net oxygen demand, counting
// C→CO2, H→H2O and S→SO2, is zero.
func (s *Solution) SetEquivalenceRatio(phi float64, fuel, oxidizer string) error {
	if !(phi >= 0) || math.IsInf(phi, 0) {
		return fmt.Errorf("%w: equivalence ratio %g", ErrStoichiometry, phi)
	}
	fc, fd, err := s.blend(fuel)
	if err != nil {
		return fmt.Errorf("fuel: %w", err)
	}
	oc, od, err := s.blend(oxidizer)
	if err != nil {
		return fmt.Errorf("oxidizer: %w", err)
	}
	if fd <= 0 {
		return fmt.Errorf("%w: fuel %q consumes no oxygen", ErrStoichiometry, fuel)
	}
	if od >= 0 {
		return fmt.Errorf("%w: oxidizer %q supplies no oxygen", ErrStoichiometry, oxidizer)
	}

	// moles of fuel blend per mole of oxidizer blend
	ratio := phi * -od / fd
	x := make(map[string]float64, len(fc)+len(oc))
	for _, c := range fc {
		x[c.Name] += ratio * c.Amount
	}
	for _, c := range oc {
		x[c.Name] += c.Amount
	}
	next, err := s.vector(x)
	if err != nil {
		return err
	}
	s.x = next
	return nil
}

func (s *Solution) blend(spec string) (Composition, float64, error) {
	comp, err := ParseComposition(spec)
	if err != nil {
		return nil, 0, err
	}
	comp, err = comp.Normalized()
	if err != nil {
		return nil, 0, err
	}
	var demand float64
	for _, c := range comp {
		i, ok := s.index[c.Name]
		if !ok {
			return nil, 0, fmt.Errorf("%w: %s", ErrUnknownSpecies, c.Name)
		}
		demand += c.Amount * s.species[i].oxygenDemand()
	}
	return comp, demand, nil
}

func (s *Solution) thermo() ([]*NASA7, error) {
	th := make([]*NASA7, len(s.species))
	for i, sp := range s.species {
		if s.x[i] == 0 {
			continue
		}
		if sp.Thermo == nil {
			return nil, fmt.Errorf("%w: %s", ErrNoThermo, sp.Name)
		}
		th[i] = sp.Thermo
	}
	return th, nil
}

// CpMass returns the frozen specific heat at constant pressure, J/(kg K).
func (s *Solution) CpMass() (float64, error) {
	th, err := s.thermo()
	if err != nil {
		return 0, err
	}
	return s.cpMass(th, s.t), nil
}

func (s *Solution) cpMass(th []*NASA7, t float64) float64 {
	var cp float64
	for i, v := range s.x {
		if v > 0 {
			cp += v * th[i].Cp(t)
		}
	}
	return cp * GasConstant / s.MeanMolecularWeight()
}

// EntropyMass returns the mixture specific entropy, J/(kg K).
func (s *Solution) EntropyMass() (float64, error) {
	th, err := s.thermo()
	if err != nil {
		return 0, err
	}
	return s.entropyMass(th, s.t, s.p), nil
}

func (s *Solution) entropyMass(th []*NASA7, t, p float64) float64 {
	var sum float64
	for i, v := range s.x {
		if v > 0 {
			sum += v * (th[i].S(t) - math.Log(v*p/OneAtm))
		}
	}
	return sum * GasConstant / s.MeanMolecularWeight()
}

// SetSP sets the state to specific entropy sMass (J/(kg K)) and pressure p
// at fixed composition, solving for temperature by Newton iteration.
func (s *Solution) SetSP(sMass, p float64) error {
	if err := checkTP(s.t, p); err != nil {
		return err
	}
	th, err := s.thermo()
	if err != nil {
		return err
	}

	const (
		maxIter = 100
		relTol  = 1e-12
	)
	t := s.t
	for i := 0; i < maxIter; i++ {
		f := s.entropyMass(th, t, p) - sMass
		// ds/dT at constant P is cp/T
		dt := -f * t / s.cpMass(th, t)
		next := t + dt
		if next <= 0 {
			next = t / 2
		}
		if math.Abs(next-t) <= relTol*t {
			s.t, s.p = next, p
			return nil
		}
		t = next
	}
	return fmt.Errorf("%w: entropy %g J/(kg K) at %g Pa", ErrNoConvergence, sMass, p)
}

var constraints = map[string]bool{
	"TP": true, "SP": true, "HP": true, "TV": true, "UV": true, "SV": true,
}

// Equilibrate validates the constraint pair and holds the composition
// frozen. The built-in provider carries no reaction data, so a state that
// already satisfies the pair is its own (frozen) equilibrium.
func (s *Solution) Equilibrate(constraint string) error {
	c := strings.ToUpper(constraint)
	if len(c) == 2 && !constraints[c] {
		c = string([]byte{c[1], c[0]})
	}
	if !constraints[c] {
		return fmt.Errorf("%w: %q", ErrConstraint, constraint)
	}
	return nil
}
