package thermochem

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/pbomb/internal/chem"
)

// ValidateCompound checks that every constituent of a compound component
// string such as "O2:1 N2:3.76" is one of known. Only the part of each
// token before ':' is checked. All unknown names are reported together.
func ValidateCompound(component string, known []string) error {
	set := make(map[string]bool, len(known))
	for _, k := range known {
		set[k] = true
	}
	var bad []string
	for _, tok := range strings.Fields(component) {
		name, _, _ := strings.Cut(tok, ":")
		if !set[name] {
			bad = append(bad, name)
		}
	}
	if len(bad) > 0 {
		return &UnknownSpeciesError{Role: "diluent", Names: bad}
	}
	return nil
}

// parseDiluent returns the diluent's internal composition normalized to
// sum to 1. A bare species name is 100% that species.
func parseDiluent(diluent string) (chem.Composition, error) {
	comp, err := chem.ParseComposition(diluent)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDiluent, err)
	}
	norm, err := comp.Normalized()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDiluent, err)
	}
	return norm, nil
}

func checkFraction(fraction float64) error {
	if math.IsNaN(fraction) || fraction < 0 || fraction > 1 {
		return fmt.Errorf("%w: got %g", ErrInvalidDilution, fraction)
	}
	return nil
}

// Dilute blends the mole fractions in base with diluent so that the
// diluent makes up fraction of the result, and renormalizes. base is
// expected to sum to 1 and is not modified.
//
// Each constituent with internal fraction f gets f/(1/fraction - 1) extra
// moles, so after renormalization the diluent share is exactly fraction
// and the constituents keep their internal ratios. A fraction of 0 only
// renormalizes; a fraction of 1 returns the diluent alone.
func Dilute(base map[string]float64, diluent string, fraction float64) (map[string]float64, error) {
	if err := checkFraction(fraction); err != nil {
		return nil, err
	}
	parts, err := parseDiluent(diluent)
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64, len(base)+len(parts))
	if fraction == 1 {
		for _, c := range parts {
			out[c.Name] += c.Amount
		}
		return out, nil
	}

	for k, v := range base {
		out[k] = v
	}
	for _, c := range parts {
		if _, ok := out[c.Name]; !ok {
			out[c.Name] = 0
		}
		if fraction != 0 {
			out[c.Name] += c.Amount / (1/fraction - 1)
		}
	}
	return renormalize(out)
}

func renormalize(m map[string]float64) (map[string]float64, error) {
	keys := make([]string, 0, len(m))
	vals := make([]float64, 0, len(m))
	for k, v := range m {
		keys = append(keys, k)
		vals = append(vals, v)
	}
	total := 0.0
	if len(vals) > 0 {
		total = floats.Sum(vals)
	}
	if !(total > 0) {
		return nil, ErrEmptyComposition
	}
	floats.Scale(1/total, vals)
	for i, k := range keys {
		m[k] = vals[i]
	}
	return m, nil
}
