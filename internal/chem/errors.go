package chem

import "errors"

var (
	// ErrMechanismNotFound indicates no embedded or on-disk mechanism
	// matches the requested name.
	ErrMechanismNotFound = errors.New("chem: mechanism not found")

	// ErrPhaseNotFound indicates the mechanism has no phase of that name.
	ErrPhaseNotFound = errors.New("chem: phase not found")

	// ErrMechanism indicates a malformed mechanism document.
	ErrMechanism = errors.New("chem: invalid mechanism")

	// ErrComposition indicates a malformed composition string or map.
	ErrComposition = errors.New("chem: invalid composition")

	// ErrUnknownSpecies indicates a species absent from the phase.
	ErrUnknownSpecies = errors.New("chem: species not in phase")

	// ErrInvalidState indicates a non-physical temperature or pressure.
	ErrInvalidState = errors.New("chem: invalid thermodynamic state")

	// ErrNoThermo indicates a species without thermodynamic data was needed
	// for a property evaluation.
	ErrNoThermo = errors.New("chem: species has no thermo data")

	// ErrStoichiometry indicates a fuel that consumes no oxygen or an
	// oxidizer that supplies none.
	ErrStoichiometry = errors.New("chem: cannot form equivalence ratio")

	// ErrConstraint indicates an unsupported equilibrium constraint pair.
	ErrConstraint = errors.New("chem: unsupported equilibrium constraint")

	// ErrNoConvergence indicates an iterative state solve did not converge.
	ErrNoConvergence = errors.New("chem: state solve did not converge")
)
