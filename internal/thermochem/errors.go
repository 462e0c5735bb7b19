package thermochem

import (
	"errors"
	"strings"
)

// Domain errors for mixture and orchestration operations.
var (
	// ErrUnknownSpecies indicates a fuel, oxidizer, diluent or diluent
	// constituent that is absent from the mechanism.
	ErrUnknownSpecies = errors.New("thermochem: species not in mechanism")

	// ErrInvalidDiluent indicates a diluent equal to the fuel or oxidizer, or
	// a malformed compound diluent string.
	ErrInvalidDiluent = errors.New("thermochem: invalid diluent")

	// ErrInvalidDilution indicates a diluent mole fraction outside [0, 1].
	ErrInvalidDilution = errors.New("thermochem: diluent mole fraction outside [0, 1]")

	// ErrMixtureNotDiluted indicates a diluted-state operation on a mixture
	// that has no diluted state.
	ErrMixtureNotDiluted = errors.New("thermochem: mixture has not been diluted")

	// ErrInvalidReactants indicates a fuel identical to the oxidizer.
	ErrInvalidReactants = errors.New("thermochem: fuel and oxidizer must differ")

	// ErrInvalidEquivalence indicates a non-positive or non-finite
	// equivalence ratio.
	ErrInvalidEquivalence = errors.New("thermochem: equivalence ratio must be positive")

	// ErrEmptyComposition indicates an empty species dictionary.
	ErrEmptyComposition = errors.New("thermochem: empty species dictionary")

	// ErrSoundSpeed indicates that a pressure perturbation at constant
	// entropy produced no usable density change.
	ErrSoundSpeed = errors.New("thermochem: sound speed undefined for state")
)

// UnknownSpeciesError lists every offending species name in the order it
// was encountered. Role names what the species were supposed to be (fuel,
// oxidizer, diluent); it is "species" when unset.
type UnknownSpeciesError struct {
	Role  string
	Names []string
}

func (e *UnknownSpeciesError) Error() string {
	role := e.Role
	if role == "" {
		role = "species"
	}
	var b strings.Builder
	b.WriteString(role)
	b.WriteString(" not in mechanism:\n")
	for _, n := range e.Names {
		b.WriteString(n)
		b.WriteByte('\n')
	}
	return b.String()
}

func (e *UnknownSpeciesError) Unwrap() error {
	return ErrUnknownSpecies
}
