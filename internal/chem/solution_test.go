package chem

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func newGRI(t *testing.T) *Solution {
	t.Helper()
	s, err := NewLibrary().NewSolution("gri30", "")
	if err != nil {
		t.Fatalf("NewSolution: %v", err)
	}
	return s
}

func TestEmbeddedMechanisms(t *testing.T) {
	lib := NewLibrary()
	tests := []struct {
		name    string
		species int
	}{
		{"gri30", 53},
		{"gri30.yaml", 53},
		{"gri30.cti", 53},
		{"h2o2", 10},
		{"air", 8},
	}
	for _, tt := range tests {
		m, err := lib.Open(tt.name)
		if err != nil {
			t.Fatalf("Open(%q): %v", tt.name, err)
		}
		if n := len(m.SpeciesNames()); n != tt.species {
			t.Errorf("%s: %d species, want %d", tt.name, n, tt.species)
		}
	}
	if len(Embedded()) != 3 {
		t.Errorf("Embedded() = %v", Embedded())
	}
}

func TestOpenMissing(t *testing.T) {
	_, err := NewLibrary().Open("nonexistent.cti")
	if !errors.Is(err, ErrMechanismNotFound) {
		t.Errorf("expected ErrMechanismNotFound, got %v", err)
	}
	_, err = NewLibrary().NewSolution("gri30", "liquid")
	if !errors.Is(err, ErrPhaseNotFound) {
		t.Errorf("expected ErrPhaseNotFound, got %v", err)
	}
}

func TestLoadFromDirectory(t *testing.T) {
	dir := t.TempDir()
	doc := `
phases:
- name: inert
  thermo: ideal-gas
  species: [HE, AR]
- name: argon
  species: [AR]
species:
- name: HE
  composition: {He: 1}
- name: AR
  composition: {Ar: 1}
`
	if err := os.WriteFile(filepath.Join(dir, "noble.yaml"), []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	lib := NewLibrary(dir)
	s, err := lib.NewSolution("noble.cti", "argon")
	if err != nil {
		t.Fatalf("NewSolution: %v", err)
	}
	if names := s.SpeciesNames(); len(names) != 1 || names[0] != "AR" {
		t.Errorf("argon phase species = %v", names)
	}

	s, err = lib.NewSolution(filepath.Join(dir, "noble.yaml"), "")
	if err != nil {
		t.Fatal(err)
	}
	w := s.MolecularWeights()
	if math.Abs(w[0]-4.002602) > 1e-9 || math.Abs(w[1]-39.95) > 1e-9 {
		t.Errorf("weights = %v", w)
	}
}

func TestParseMechanismErrors(t *testing.T) {
	docs := map[string]string{
		"no species":      "phases: []\n",
		"unknown element": "species:\n- name: X\n  composition: {Xx: 1}\n",
		"undefined":       "phases:\n- name: p\n  species: [B]\nspecies:\n- name: A\n  composition: {H: 1}\n",
		"duplicate":       "species:\n- name: A\n  composition: {H: 1}\n- name: A\n  composition: {H: 2}\n",
	}
	for name, doc := range docs {
		if _, err := ParseMechanism(name, []byte(doc)); !errors.Is(err, ErrMechanism) {
			t.Errorf("%s: expected ErrMechanism, got %v", name, err)
		}
	}
}

func TestMolecularWeights(t *testing.T) {
	s := newGRI(t)
	w := s.MolecularWeights()
	idx := s.index
	checks := map[string]float64{
		"H2":  2.016,
		"O2":  31.998,
		"N2":  28.014,
		"CH4": 16.043,
		"CO2": 44.009,
		"AR":  39.95,
	}
	for name, want := range checks {
		if got := w[idx[name]]; math.Abs(got-want) > 1e-9 {
			t.Errorf("W(%s) = %v, want %v", name, got, want)
		}
	}
}

func TestSetTPX(t *testing.T) {
	s := newGRI(t)
	if err := s.SetTPX(300, OneAtm, map[string]float64{"O2": 1, "N2": 3.76}); err != nil {
		t.Fatal(err)
	}
	x := s.MoleFractionMap()
	if len(x) != 2 {
		t.Fatalf("expected 2 species, got %v", x)
	}
	if math.Abs(x["O2"]-1/4.76) > 1e-12 {
		t.Errorf("X(O2) = %v", x["O2"])
	}

	before := s.MoleFractions()
	if err := s.SetTPX(300, OneAtm, map[string]float64{"Wayne": 1}); !errors.Is(err, ErrUnknownSpecies) {
		t.Errorf("expected ErrUnknownSpecies, got %v", err)
	}
	if err := s.SetTPX(-1, OneAtm, map[string]float64{"O2": 1}); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
	after := s.MoleFractions()
	for i := range before {
		if before[i] != after[i] {
			t.Fatal("failed SetTPX modified the state")
		}
	}
}

func TestSetEquivalenceRatio(t *testing.T) {
	tests := []struct {
		phi        float64
		fuel, ox   string
		fuelName   string
		wantFuel   float64
		wantOxName string
		wantOx     float64
	}{
		{1, "H2", "O2", "H2", 2.0 / 3.0, "O2", 1.0 / 3.0},
		{1, "CH4", "O2", "CH4", 1.0 / 3.0, "O2", 2.0 / 3.0},
		{2, "H2", "O2", "H2", 0.8, "O2", 0.2},
		{0.5, "H2", "O2", "H2", 0.5, "O2", 0.5},
		{1, "C3H8", "N2O", "C3H8", 1.0 / 11.0, "N2O", 10.0 / 11.0},
		{1, "CH4", "O2:1 N2:3.76", "CH4", 1.0 / 10.52, "N2", 7.52 / 10.52},
	}

	for _, tt := range tests {
		s := newGRI(t)
		if err := s.SetEquivalenceRatio(tt.phi, tt.fuel, tt.ox); err != nil {
			t.Fatalf("phi=%v %s/%s: %v", tt.phi, tt.fuel, tt.ox, err)
		}
		x := s.MoleFractionMap()
		if math.Abs(x[tt.fuelName]-tt.wantFuel) > 1e-12 {
			t.Errorf("phi=%v %s/%s: X(%s) = %v, want %v", tt.phi, tt.fuel, tt.ox, tt.fuelName, x[tt.fuelName], tt.wantFuel)
		}
		if math.Abs(x[tt.wantOxName]-tt.wantOx) > 1e-12 {
			t.Errorf("phi=%v %s/%s: X(%s) = %v, want %v", tt.phi, tt.fuel, tt.ox, tt.wantOxName, x[tt.wantOxName], tt.wantOx)
		}
	}
}

func TestSetEquivalenceRatioErrors(t *testing.T) {
	s := newGRI(t)
	if err := s.SetEquivalenceRatio(1, "N2", "O2"); !errors.Is(err, ErrStoichiometry) {
		t.Errorf("inert fuel: %v", err)
	}
	if err := s.SetEquivalenceRatio(1, "H2", "H2"); !errors.Is(err, ErrStoichiometry) {
		t.Errorf("fuel as oxidizer: %v", err)
	}
	if err := s.SetEquivalenceRatio(1, "Xx", "O2"); !errors.Is(err, ErrUnknownSpecies) {
		t.Errorf("unknown fuel: %v", err)
	}
	if err := s.SetEquivalenceRatio(math.NaN(), "H2", "O2"); !errors.Is(err, ErrStoichiometry) {
		t.Errorf("nan phi: %v", err)
	}
}

func TestDensity(t *testing.T) {
	s := newGRI(t)
	if err := s.SetTPX(300, OneAtm, map[string]float64{"N2": 1}); err != nil {
		t.Fatal(err)
	}
	want := OneAtm * 28.014 / (GasConstant * 300)
	if math.Abs(s.Density()-want) > 1e-12 {
		t.Errorf("Density = %v, want %v", s.Density(), want)
	}
}

func TestSetSPRoundTrip(t *testing.T) {
	s := newGRI(t)
	if err := s.SetTPX(300, OneAtm, map[string]float64{"O2": 1, "N2": 3.76}); err != nil {
		t.Fatal(err)
	}
	s0, err := s.EntropyMass()
	if err != nil {
		t.Fatal(err)
	}

	if err := s.SetSP(s0, 2*OneAtm); err != nil {
		t.Fatal(err)
	}
	// isentropic compression heats the gas: T2/T1 ~ 2^((gamma-1)/gamma)
	want := 300 * math.Pow(2, 0.4/1.4)
	if math.Abs(s.Temperature()-want)/want > 0.01 {
		t.Errorf("T after isentropic compression = %v, want ~%v", s.Temperature(), want)
	}

	if err := s.SetSP(s0, OneAtm); err != nil {
		t.Fatal(err)
	}
	if math.Abs(s.Temperature()-300) > 1e-6 {
		t.Errorf("round trip T = %v, want 300", s.Temperature())
	}
}

func TestNoThermo(t *testing.T) {
	s := newGRI(t)
	if err := s.SetTPX(300, OneAtm, map[string]float64{"OH": 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.EntropyMass(); !errors.Is(err, ErrNoThermo) {
		t.Errorf("expected ErrNoThermo, got %v", err)
	}
}

func TestEquilibrateConstraints(t *testing.T) {
	s := newGRI(t)
	for _, c := range []string{"TP", "SP", "hp", "PT", "UV"} {
		if err := s.Equilibrate(c); err != nil {
			t.Errorf("Equilibrate(%q): %v", c, err)
		}
	}
	for _, c := range []string{"", "XY", "TPX"} {
		if err := s.Equilibrate(c); !errors.Is(err, ErrConstraint) {
			t.Errorf("Equilibrate(%q) = %v, want ErrConstraint", c, err)
		}
	}
}
