package thermochem

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/pbomb/internal/chem"
	"github.com/san-kum/pbomb/internal/units"
)

type fakeFlame struct {
	speed float64
	err   error
	seen  GasState
}

func (f *fakeFlame) FreeFlameSpeed(_ context.Context, g GasState) (float64, error) {
	f.seen = g
	return f.speed, f.err
}

type fakeDetonation struct {
	provider Provider
	parallel bool
	cjErr    error
}

func (f *fakeDetonation) CJState(_ context.Context, p, t float64, species map[string]float64, mechanism string, parallel bool) (float64, GasState, error) {
	f.parallel = parallel
	if f.cjErr != nil {
		return 0, nil, f.cjErr
	}
	g, err := f.provider.NewSolution(mechanism, "")
	if err != nil {
		return 0, nil, err
	}
	if err := g.SetTPX(2*t, 10*p, species); err != nil {
		return 0, nil, err
	}
	return 2800, g, nil
}

func (f *fakeDetonation) Reflect(_ context.Context, initial, cj, reflected GasState, cjSpeed float64) (float64, error) {
	if err := reflected.SetTP(cj.Temperature()+500, cj.Pressure()*2.5); err != nil {
		return 0, err
	}
	return cjSpeed / 3, nil
}

func testProvider() Provider {
	return LibraryProvider(chem.NewLibrary())
}

func h2o2() chem.Composition {
	return chem.Composition{{Name: "H2", Amount: 2}, {Name: "O2", Amount: 1}}
}

func TestLaminarFlameSpeed(t *testing.T) {
	fs := &fakeFlame{speed: 2.3}
	in := FlameSpeedInput{
		Temperature: units.Kelvins(300),
		Pressure:    units.Pascals(chem.OneAtm),
		Species:     h2o2(),
		Mechanism:   "gri30",
	}
	su, err := LaminarFlameSpeed(context.Background(), testProvider(), fs, in)
	if err != nil {
		t.Fatal(err)
	}
	if su.Value() != 2.3 {
		t.Errorf("speed = %v", su.Value())
	}
	if err := units.Check(su, units.Speed, true); err != nil {
		t.Error(err)
	}
	x := fs.seen.MoleFractionMap()
	if math.Abs(x["H2"]-2.0/3.0) > 1e-12 || fs.seen.Temperature() != 300 {
		t.Errorf("solver saw T=%v X=%v", fs.seen.Temperature(), x)
	}
}

func TestLaminarFlameSpeedValidation(t *testing.T) {
	p := testProvider()
	base := FlameSpeedInput{
		Temperature: units.Kelvins(300),
		Pressure:    units.Pascals(chem.OneAtm),
		Species:     h2o2(),
		Mechanism:   "gri30",
	}

	in := base
	in.Species = nil
	if _, err := LaminarFlameSpeed(context.Background(), p, &fakeFlame{}, in); !errors.Is(err, ErrEmptyComposition) {
		t.Errorf("empty: %v", err)
	} else if err.Error() != "thermochem: empty species dictionary" {
		t.Errorf("empty message: %q", err.Error())
	}

	in = base
	in.Species = chem.Composition{{Name: "Wayne", Amount: 1}, {Name: "H2", Amount: 1}, {Name: "Garth", Amount: 1}}
	_, err := LaminarFlameSpeed(context.Background(), p, &fakeFlame{}, in)
	if err == nil || err.Error() != "species not in mechanism:\nWayne\nGarth\n" {
		t.Errorf("unknown species: %v", err)
	}

	in = base
	in.Temperature = units.Kelvins(0)
	if _, err := LaminarFlameSpeed(context.Background(), p, &fakeFlame{}, in); !errors.Is(err, units.ErrInvalidQuantity) {
		t.Errorf("zero temperature: %v", err)
	}

	in = base
	in.Pressure = units.Kelvins(300)
	if _, err := LaminarFlameSpeed(context.Background(), p, &fakeFlame{}, in); !errors.Is(err, units.ErrInvalidQuantity) {
		t.Errorf("pressure in kelvin: %v", err)
	}

	in = base
	in.Mechanism = "nonexistent.cti"
	if _, err := LaminarFlameSpeed(context.Background(), p, &fakeFlame{}, in); !errors.Is(err, chem.ErrMechanismNotFound) {
		t.Errorf("missing mechanism: %v", err)
	}

	boom := errors.New("boom")
	if _, err := LaminarFlameSpeed(context.Background(), p, &fakeFlame{err: boom}, base); !errors.Is(err, boom) {
		t.Errorf("solver error: %v", err)
	}
}

func TestEquilibriumSoundSpeedAir(t *testing.T) {
	in := SoundSpeedInput{
		Temperature: units.Kelvins(293.15),
		Pressure:    units.Pascals(chem.OneAtm),
		Species:     chem.Composition{{Name: "O2", Amount: 0.21}, {Name: "N2", Amount: 0.79}},
		Mechanism:   "gri30",
	}
	c, err := EquilibriumSoundSpeed(testProvider(), in)
	if err != nil {
		t.Fatal(err)
	}
	want := math.Sqrt(1.4 * 8.31451 * 293.15 / 0.0289645)
	if math.Abs(c.Value()-want)/want > 0.01 {
		t.Errorf("c = %v, want %v within 1%%", c.Value(), want)
	}
}

func TestEquilibriumSoundSpeedValidation(t *testing.T) {
	in := SoundSpeedInput{
		Temperature: units.Kelvins(300),
		Pressure:    units.Pascals(chem.OneAtm),
		Species:     chem.Composition{{Name: "OH", Amount: 1}},
		Mechanism:   "gri30",
	}
	if _, err := EquilibriumSoundSpeed(testProvider(), in); !errors.Is(err, chem.ErrNoThermo) {
		t.Errorf("species without thermo: %v", err)
	}

	in.Species = nil
	if _, err := EquilibriumSoundSpeed(testProvider(), in); !errors.Is(err, ErrEmptyComposition) {
		t.Errorf("empty: %v", err)
	}
}

func TestReflectedShockState(t *testing.T) {
	p := testProvider()
	ds := &fakeDetonation{provider: p}
	in := ShockInput{
		Temperature: units.Kelvins(300),
		Pressure:    units.Pascals(chem.OneAtm),
		Species:     h2o2(),
		Mechanism:   "gri30",
		Parallel:    true,
	}
	res, err := ReflectedShockState(context.Background(), p, ds, in)
	if err != nil {
		t.Fatal(err)
	}
	if !ds.parallel {
		t.Error("parallel flag not passed to solver")
	}
	if res.CJ.Speed.Value() != 2800 {
		t.Errorf("cj speed = %v", res.CJ.Speed.Value())
	}
	if math.Abs(res.Reflected.Speed.Value()-2800.0/3) > 1e-9 {
		t.Errorf("reflected speed = %v", res.Reflected.Speed.Value())
	}
	if res.CJ.State.Temperature.Value() != 600 {
		t.Errorf("cj T = %v", res.CJ.State.Temperature.Value())
	}
	if res.Reflected.State.Temperature.Value() != 1100 {
		t.Errorf("reflected T = %v", res.Reflected.State.Temperature.Value())
	}
	if math.Abs(res.Reflected.State.MoleFractions["H2"]-2.0/3.0) > 1e-12 {
		t.Errorf("reflected X = %v", res.Reflected.State.MoleFractions)
	}

	// snapshots do not alias the solver state
	res.CJ.State.MoleFractions["H2"] = 0
	if res.Reflected.State.MoleFractions["H2"] == 0 {
		t.Error("snapshots share composition maps")
	}
}

func TestReflectedShockStateErrors(t *testing.T) {
	p := testProvider()
	in := ShockInput{
		Temperature: units.Kelvins(300),
		Pressure:    units.Pascals(chem.OneAtm),
		Species:     chem.Composition{{Name: "Wayne", Amount: 1}},
		Mechanism:   "gri30",
	}
	if _, err := ReflectedShockState(context.Background(), p, &fakeDetonation{provider: p}, in); !errors.Is(err, ErrUnknownSpecies) {
		t.Errorf("unknown species: %v", err)
	}

	in.Species = h2o2()
	boom := errors.New("no cj")
	if _, err := ReflectedShockState(context.Background(), p, &fakeDetonation{provider: p, cjErr: boom}, in); !errors.Is(err, boom) {
		t.Errorf("cj error: %v", err)
	}
}
