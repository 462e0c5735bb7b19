package thermochem

import (
	"github.com/ctessum/unit"

	"github.com/san-kum/pbomb/internal/chem"
	"github.com/san-kum/pbomb/internal/units"
)

// GasState is a mutable ideal-gas state owned by a single caller. Values
// are SI: K, Pa, kg/m^3, kg/kmol, J/(kg K).
type GasState interface {
	SpeciesNames() []string
	MoleFractions() []float64
	MoleFractionMap() map[string]float64
	MolecularWeights() []float64
	Temperature() float64
	Pressure() float64
	Density() float64
	EntropyMass() (float64, error)

	SetTP(t, p float64) error
	SetTPX(t, p float64, x map[string]float64) error
	SetSP(s, p float64) error
	SetEquivalenceRatio(phi float64, fuel, oxidizer string) error
	Equilibrate(constraint string) error
}

// Provider builds gas states from a mechanism name and an optional phase
// name. Errors such as a missing mechanism are returned unchanged to the
// caller of whatever core operation asked for the state.
type Provider interface {
	NewSolution(mechanism, phase string) (GasState, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(mechanism, phase string) (GasState, error)

func (f ProviderFunc) NewSolution(mechanism, phase string) (GasState, error) {
	return f(mechanism, phase)
}

// LibraryProvider serves gas states from a chem.Library.
func LibraryProvider(lib *chem.Library) Provider {
	return ProviderFunc(func(mechanism, phase string) (GasState, error) {
		s, err := lib.NewSolution(mechanism, phase)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
}

// Snapshot is a read-only copy of a gas state. Orchestration routines
// return snapshots rather than live solver handles.
type Snapshot struct {
	Temperature   *unit.Unit
	Pressure      *unit.Unit
	Density       *unit.Unit
	MoleFractions map[string]float64
}

// Snap copies the observable state of g.
func Snap(g GasState) Snapshot {
	return Snapshot{
		Temperature:   units.Kelvins(g.Temperature()),
		Pressure:      units.Pascals(g.Pressure()),
		Density:       unit.New(g.Density(), unit.KilogramPerMeter3),
		MoleFractions: g.MoleFractionMap(),
	}
}
