package thermochem

import (
	"context"
	"fmt"
	"math"

	"github.com/ctessum/unit"

	"github.com/san-kum/pbomb/internal/chem"
	"github.com/san-kum/pbomb/internal/units"
)

// soundSpeedPerturbation is the relative pressure step used for dP/drho at
// constant entropy.
const soundSpeedPerturbation = 1.0001

// FlameSolver computes a freely propagating, adiabatic, premixed laminar
// flame for an unburned gas state. It returns the unburned gas velocity at
// the domain inlet in m/s.
type FlameSolver interface {
	FreeFlameSpeed(ctx context.Context, unburned GasState) (float64, error)
}

// DetonationSolver finds CJ and reflected-shock states.
type DetonationSolver interface {
	// CJState returns the CJ speed in m/s and the CJ gas state. parallel
	// asks the solver to spread its speed search over workers.
	CJState(ctx context.Context, p, t float64, species map[string]float64, mechanism string, parallel bool) (float64, GasState, error)
	// Reflect brings reflected to the state behind the shock reflected
	// from a closed end and returns the reflected wave speed in m/s.
	Reflect(ctx context.Context, initial, cj, reflected GasState, cjSpeed float64) (float64, error)
}

// FlameSpeedInput describes an unburned mixture.
type FlameSpeedInput struct {
	Temperature *unit.Unit
	Pressure    *unit.Unit
	Species     chem.Composition
	Mechanism   string
	Phase       string
}

// SoundSpeedInput describes a gas mixture.
type SoundSpeedInput struct {
	Temperature *unit.Unit
	Pressure    *unit.Unit
	Species     chem.Composition
	Mechanism   string
	Phase       string
}

// ShockInput describes the reactant mixture ahead of a detonation.
type ShockInput struct {
	Temperature *unit.Unit
	Pressure    *unit.Unit
	Species     chem.Composition
	Mechanism   string
	Parallel    bool
}

// Wave is a wave speed and the gas state behind it.
type Wave struct {
	Speed *unit.Unit
	State Snapshot
}

// ShockResult holds the CJ wave and its reflection.
type ShockResult struct {
	CJ        Wave
	Reflected Wave
}

func checkTP(t, p *unit.Unit) error {
	if err := units.Check(p, units.Pressure, true); err != nil {
		return err
	}
	return units.Check(t, units.Temperature, true)
}

// checkSpecies rejects an empty composition and reports every species not
// in known, in input order.
func checkSpecies(species chem.Composition, known []string) error {
	if len(species) == 0 {
		return ErrEmptyComposition
	}
	set := make(map[string]bool, len(known))
	for _, k := range known {
		set[k] = true
	}
	var bad []string
	for _, c := range species {
		if !set[c.Name] {
			bad = append(bad, c.Name)
		}
	}
	if len(bad) > 0 {
		return &UnknownSpeciesError{Names: bad}
	}
	return nil
}

// prepare builds a gas state from the provider and sets it to T, P and the
// given composition after validating all three.
func prepare(p Provider, mechanism, phase string, t, pr *unit.Unit, species chem.Composition) (GasState, error) {
	if err := checkTP(t, pr); err != nil {
		return nil, err
	}
	g, err := p.NewSolution(mechanism, phase)
	if err != nil {
		return nil, err
	}
	if err := checkSpecies(species, g.SpeciesNames()); err != nil {
		return nil, err
	}
	if err := g.SetTPX(t.Value(), pr.Value(), species.Map()); err != nil {
		return nil, err
	}
	return g, nil
}

// LaminarFlameSpeed returns the laminar flame speed of the mixture.
func LaminarFlameSpeed(ctx context.Context, p Provider, fs FlameSolver, in FlameSpeedInput) (*unit.Unit, error) {
	g, err := prepare(p, in.Mechanism, in.Phase, in.Temperature, in.Pressure, in.Species)
	if err != nil {
		return nil, err
	}
	su, err := fs.FreeFlameSpeed(ctx, g)
	if err != nil {
		return nil, fmt.Errorf("flame speed: %w", err)
	}
	return units.MetersPerSecond(su), nil
}

// EquilibriumSoundSpeed returns the equilibrium speed of sound, found by
// equilibrating at T and P, raising P slightly at constant entropy,
// re-equilibrating and taking sqrt(dP/drho).
func EquilibriumSoundSpeed(p Provider, in SoundSpeedInput) (*unit.Unit, error) {
	g, err := prepare(p, in.Mechanism, in.Phase, in.Temperature, in.Pressure, in.Species)
	if err != nil {
		return nil, err
	}

	if err := g.Equilibrate("TP"); err != nil {
		return nil, err
	}
	p0, rho0 := g.Pressure(), g.Density()

	s, err := g.EntropyMass()
	if err != nil {
		return nil, err
	}
	p1 := soundSpeedPerturbation * p0
	if err := g.SetSP(s, p1); err != nil {
		return nil, err
	}
	if err := g.Equilibrate("SP"); err != nil {
		return nil, err
	}
	rho1 := g.Density()

	c := math.Sqrt((p1 - p0) / (rho1 - rho0))
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return nil, fmt.Errorf("%w: drho = %g", ErrSoundSpeed, rho1-rho0)
	}
	return units.MetersPerSecond(c), nil
}

// ReflectedShockState finds the CJ detonation of the mixture and the state
// behind its reflection from a closed end. Returned states are snapshots;
// no solver handles escape.
func ReflectedShockState(ctx context.Context, p Provider, ds DetonationSolver, in ShockInput) (*ShockResult, error) {
	initial, err := prepare(p, in.Mechanism, "", in.Temperature, in.Pressure, in.Species)
	if err != nil {
		return nil, err
	}
	reflected, err := prepare(p, in.Mechanism, "", in.Temperature, in.Pressure, in.Species)
	if err != nil {
		return nil, err
	}

	t, pr := in.Temperature.Value(), in.Pressure.Value()
	cjSpeed, cj, err := ds.CJState(ctx, pr, t, in.Species.Map(), in.Mechanism, in.Parallel)
	if err != nil {
		return nil, fmt.Errorf("cj state: %w", err)
	}
	reflectedSpeed, err := ds.Reflect(ctx, initial, cj, reflected, cjSpeed)
	if err != nil {
		return nil, fmt.Errorf("reflected shock: %w", err)
	}

	return &ShockResult{
		CJ: Wave{
			Speed: units.MetersPerSecond(cjSpeed),
			State: Snap(cj),
		},
		Reflected: Wave{
			Speed: units.MetersPerSecond(reflectedSpeed),
			State: Snap(reflected),
		},
	}, nil
}
