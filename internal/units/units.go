// Package units wraps github.com/ctessum/unit with the handful of physical
// dimensions a detonation-tube fill needs, a string-keyed unit registry and
// the positivity / dimension guard applied at every public entry point.
//
// Quantities are *unit.Unit values. Their magnitude is always stored in SI
// base units, so quantities produced by two different registries can be
// mixed freely.
package units

import (
	"errors"
	"fmt"
	"math"

	"github.com/ctessum/unit"
)

// Dimension names a physical dimension accepted by the guard.
type Dimension string

const (
	Pressure    Dimension = "pressure"
	Temperature Dimension = "temperature"
	Volume      Dimension = "volume"
	Mass        Dimension = "mass"
	Speed       Dimension = "speed"
	Density     Dimension = "density"
)

var bases = map[Dimension]unit.Dimensions{
	Pressure:    unit.Pascal,
	Temperature: unit.Kelvin,
	Volume:      unit.Meter3,
	Mass:        unit.Kilogram,
	Speed:       unit.MeterPerSecond,
	Density:     unit.KilogramPerMeter3,
}

// Base returns the SI dimensions of d. It returns nil for an unknown
// dimension.
func (d Dimension) Base() unit.Dimensions {
	return bases[d]
}

var (
	// ErrInvalidQuantity indicates a quantity of the wrong dimension or a
	// non-positive magnitude where a positive one is required.
	ErrInvalidQuantity = errors.New("units: invalid quantity")

	// ErrUnknownUnit indicates a unit string the registry cannot resolve.
	ErrUnknownUnit = errors.New("units: unknown unit")
)

// QuantityError describes why a quantity failed Check.
type QuantityError struct {
	Expected Dimension
	Value    float64
	Reason   string
}

func (e *QuantityError) Error() string {
	return fmt.Sprintf("units: invalid %s quantity: %s", e.Expected, e.Reason)
}

func (e *QuantityError) Unwrap() error {
	return ErrInvalidQuantity
}

// Check fails with a *QuantityError when q is nil, when its dimensions do
// not reduce to the base unit of d, or when ensurePositive is set and its
// magnitude is not strictly positive.
func Check(q *unit.Unit, d Dimension, ensurePositive bool) error {
	base := d.Base()
	if base == nil {
		return &QuantityError{Expected: d, Reason: "unsupported dimension"}
	}
	if q == nil {
		return &QuantityError{Expected: d, Reason: "missing value"}
	}
	if err := q.Check(base); err != nil {
		return &QuantityError{Expected: d, Value: q.Value(), Reason: err.Error()}
	}
	v := q.Value()
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &QuantityError{Expected: d, Value: v, Reason: "value is not finite"}
	}
	if ensurePositive && v <= 0 {
		return &QuantityError{Expected: d, Value: v, Reason: fmt.Sprintf("%g is not positive", v)}
	}
	return nil
}

// Pascals returns a pressure quantity.
func Pascals(v float64) *unit.Unit { return unit.New(v, unit.Pascal) }

// Kelvins returns a temperature quantity.
func Kelvins(v float64) *unit.Unit { return unit.New(v, unit.Kelvin) }

// CubicMeters returns a volume quantity.
func CubicMeters(v float64) *unit.Unit { return unit.New(v, unit.Meter3) }

// Kilograms returns a mass quantity.
func Kilograms(v float64) *unit.Unit { return unit.New(v, unit.Kilogram) }

// MetersPerSecond returns a speed quantity.
func MetersPerSecond(v float64) *unit.Unit { return unit.New(v, unit.MeterPerSecond) }
