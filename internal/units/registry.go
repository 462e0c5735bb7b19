package units

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ctessum/unit"
)

// conversion maps a named unit onto SI: si = value*scale + offset.
type conversion struct {
	dim    Dimension
	scale  float64
	offset float64
}

// Registry resolves unit strings such as "atm", "degC" or "cm^3" into SI
// quantities. A Registry is not safe for concurrent Register calls; lookups
// after setup are read-only.
type Registry struct {
	units map[string]conversion
}

const (
	atm  = 101325.0
	torr = atm / 760
	psi  = 6894.757293168361
	inch = 0.0254
	foot = 0.3048
)

// NewRegistry returns a registry preloaded with the pressure, temperature,
// volume, mass and speed units used for tube fills.
func NewRegistry() *Registry {
	r := &Registry{units: make(map[string]conversion)}

	r.Register(Pressure, 1, 0, "Pa", "pascal")
	r.Register(Pressure, 1e3, 0, "kPa")
	r.Register(Pressure, 1e6, 0, "MPa")
	r.Register(Pressure, 1e5, 0, "bar")
	r.Register(Pressure, 1e2, 0, "mbar", "hPa")
	r.Register(Pressure, atm, 0, "atm", "ATM", "atmosphere")
	r.Register(Pressure, torr, 0, "torr", "Torr")
	r.Register(Pressure, 133.322387415, 0, "mmHg")
	r.Register(Pressure, psi, 0, "psi", "psia", "PSI", "PSIA")

	r.Register(Temperature, 1, 0, "K", "degK", "kelvin")
	r.Register(Temperature, 1, 273.15, "degC", "C", "celsius")
	r.Register(Temperature, 5.0/9.0, 273.15-32*5.0/9.0, "degF", "F", "fahrenheit")
	r.Register(Temperature, 5.0/9.0, 0, "degR", "R", "rankine")

	r.Register(Volume, 1, 0, "m^3", "m3", "m**3")
	r.Register(Volume, 1e-3, 0, "L", "l", "liter", "litre")
	r.Register(Volume, 1e-6, 0, "mL", "ml", "cm^3", "cm3", "cc")
	r.Register(Volume, inch*inch*inch, 0, "in^3", "in3")
	r.Register(Volume, foot*foot*foot, 0, "ft^3", "ft3")

	r.Register(Mass, 1, 0, "kg")
	r.Register(Mass, 1e-3, 0, "g")
	r.Register(Mass, 1e-6, 0, "mg")
	r.Register(Mass, 0.45359237, 0, "lb", "lbm")

	r.Register(Speed, 1, 0, "m/s")
	r.Register(Speed, 1e3, 0, "km/s")
	r.Register(Speed, foot, 0, "ft/s")

	return r
}

// Register adds names as aliases for a unit of dimension d with the given
// scale and offset onto SI. Later registrations replace earlier ones.
func (r *Registry) Register(d Dimension, scale, offset float64, names ...string) {
	for _, n := range names {
		r.units[n] = conversion{dim: d, scale: scale, offset: offset}
	}
}

func (r *Registry) lookup(name string) (conversion, error) {
	name = strings.TrimSpace(name)
	if c, ok := r.units[name]; ok {
		return c, nil
	}
	return conversion{}, fmt.Errorf("%w: %q", ErrUnknownUnit, name)
}

// Quantity returns value, expressed in the named unit, as an SI quantity.
func (r *Registry) Quantity(value float64, name string) (*unit.Unit, error) {
	c, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	return unit.New(value*c.scale+c.offset, c.dim.Base()), nil
}

// To expresses q in the named unit. It fails when the dimensions of q and
// the target unit differ.
func (r *Registry) To(q *unit.Unit, name string) (float64, error) {
	c, err := r.lookup(name)
	if err != nil {
		return 0, err
	}
	if err := Check(q, c.dim, false); err != nil {
		return 0, err
	}
	return (q.Value() - c.offset) / c.scale, nil
}

// DimensionOf reports the dimension of a named unit.
func (r *Registry) DimensionOf(name string) (Dimension, bool) {
	c, err := r.lookup(name)
	if err != nil {
		return "", false
	}
	return c.dim, true
}

// Names lists the registered unit names of dimension d, sorted.
func (r *Registry) Names(d Dimension) []string {
	var names []string
	for n, c := range r.units {
		if c.dim == d {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}
