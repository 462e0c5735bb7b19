package sweep

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sort"

	"github.com/ctessum/unit"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/pbomb/internal/thermochem"
	"github.com/san-kum/pbomb/internal/units"
)

type Axis string

const (
	Equivalence Axis = "equivalence"
	Dilution    Axis = "dilution"
)

var (
	ErrUnknownAxis = errors.New("sweep: unknown axis")
	ErrNoValues    = errors.New("sweep: no values")
	ErrNoDiluent   = errors.New("sweep: dilution sweep needs a diluent")
)

func ParseAxis(s string) (Axis, error) {
	switch Axis(s) {
	case Equivalence, Dilution:
		return Axis(s), nil
	case "phi":
		return Equivalence, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAxis, s)
}

type Options struct {
	Provider   thermochem.Provider
	Base       thermochem.MixtureConfig
	Axis       Axis
	Values     []float64
	TubeVolume *unit.Unit
	Workers    int
	Log        logrus.FieldLogger
}

// Point is the mixture at one sweep value. Pressures are Pa and masses kg.
type Point struct {
	Value         float64
	MoleFractions map[string]float64
	Pressures     map[string]float64
	Masses        map[string]float64
	TotalMass     float64
}

// Run evaluates the base mixture at each value of the axis. Every worker
// builds its own Mixture, so no gas state is shared. Results are in the
// order of opts.Values. The first error cancels the remaining work.
func Run(ctx context.Context, opts Options) ([]Point, error) {
	if len(opts.Values) == 0 {
		return nil, ErrNoValues
	}
	if opts.Axis != Equivalence && opts.Axis != Dilution {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAxis, opts.Axis)
	}
	if opts.Axis == Dilution && opts.Base.Diluent == "" {
		return nil, ErrNoDiluent
	}
	if err := units.Check(opts.TubeVolume, units.Volume, true); err != nil {
		return nil, err
	}
	log := opts.Log
	if log == nil {
		l := logrus.New()
		l.Out = io.Discard
		log = l
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	points := make([]Point, len(opts.Values))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, v := range opts.Values {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := evaluate(opts, v)
			if err != nil {
				return fmt.Errorf("%s=%g: %w", opts.Axis, v, err)
			}
			points[i] = p
			log.WithFields(logrus.Fields{
				"axis":  opts.Axis,
				"value": v,
			}).Debug("sweep point done")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"axis":   opts.Axis,
		"points": len(points),
	}).Info("sweep complete")
	return points, nil
}

func evaluate(opts Options, v float64) (Point, error) {
	cfg := opts.Base
	diluted := false
	switch opts.Axis {
	case Equivalence:
		cfg.Equivalence = v
		diluted = cfg.Diluent != "" && cfg.DiluentMoleFraction != 0
	case Dilution:
		cfg.DiluentMoleFraction = 0
		diluted = true
	}

	m, err := thermochem.NewMixture(opts.Provider, cfg)
	if err != nil {
		return Point{}, err
	}
	if opts.Axis == Dilution {
		if err := m.AddDiluent(cfg.Diluent, v); err != nil {
			return Point{}, err
		}
		// a zero fraction leaves the mixture undiluted
		diluted = m.IsDiluted()
	}

	x, err := m.MoleFractions(diluted)
	if err != nil {
		return Point{}, err
	}
	pressures, err := m.Pressures(diluted)
	if err != nil {
		return Point{}, err
	}
	masses, err := m.Masses(opts.TubeVolume, diluted)
	if err != nil {
		return Point{}, err
	}

	p := Point{
		Value:         v,
		MoleFractions: x,
		Pressures:     make(map[string]float64, len(pressures)),
		Masses:        make(map[string]float64, len(masses)),
	}
	for k, q := range pressures {
		p.Pressures[k] = q.Value()
	}
	for k, q := range masses {
		p.Masses[k] = q.Value()
		p.TotalMass += q.Value()
	}
	return p, nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// Fields lists the field names accepted by Series.
var Fields = []string{"x", "mole_fraction", "pressure", "mass"}

// Series extracts one species' values across points. field is one of
// Fields; missing species read as 0.
func Series(points []Point, species, field string) ([]float64, error) {
	out := make([]float64, len(points))
	for i, p := range points {
		var src map[string]float64
		switch field {
		case "x", "mole_fraction":
			src = p.MoleFractions
		case "pressure":
			src = p.Pressures
		case "mass":
			src = p.Masses
		default:
			return nil, fmt.Errorf("sweep: unknown field %q", field)
		}
		out[i] = src[species]
	}
	return out, nil
}

// Species returns every species present in any point, ordered by first
// appearance with names sorted within a point.
func Species(points []Point) []string {
	seen := make(map[string]bool)
	var names []string
	for _, p := range points {
		keys := make([]string, 0, len(p.MoleFractions))
		for k := range p.MoleFractions {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				names = append(names, k)
			}
		}
	}
	return names
}
