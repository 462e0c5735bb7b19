package chem

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// atomic weights in kg/kmol
var atomicWeights = map[string]float64{
	"H":  1.008,
	"D":  2.014,
	"He": 4.002602,
	"C":  12.011,
	"N":  14.007,
	"O":  15.999,
	"Ne": 20.1797,
	"S":  32.06,
	"Cl": 35.45,
	"Ar": 39.95,
	"E":  5.485799090649e-4,
}

// oxygen demand of one atom of each element, in moles of O2
var oxygenDemand = map[string]float64{
	"C": 1,
	"H": 0.25,
	"S": 1,
	"O": -0.5,
}

// Species is one entry of a mechanism's species table.
type Species struct {
	Name        string
	Composition map[string]float64
	Weight      float64 // kg/kmol
	Thermo      *NASA7
}

// oxygenDemand returns the moles of O2 one mole of s consumes; negative
// values mean s supplies oxygen.
func (s *Species) oxygenDemand() float64 {
	var d float64
	for el, n := range s.Composition {
		d += oxygenDemand[el] * n
	}
	return d
}

// Phase is a named subset of a mechanism's species.
type Phase struct {
	Name    string
	Thermo  string
	Species []string
}

// Mechanism is an immutable species table with one or more phases. It is
// safe to share between goroutines.
type Mechanism struct {
	Name    string
	Phases  []Phase
	species map[string]*Species
	order   []string
}

type yamlDocument struct {
	Phases  []yamlPhase   `yaml:"phases"`
	Species []yamlSpecies `yaml:"species"`
}

type yamlPhase struct {
	Name    string   `yaml:"name"`
	Thermo  string   `yaml:"thermo"`
	Species []string `yaml:"species"`
}

type yamlSpecies struct {
	Name        string             `yaml:"name"`
	Composition map[string]float64 `yaml:"composition"`
	Thermo      *yamlThermo        `yaml:"thermo"`
}

type yamlThermo struct {
	Model  string      `yaml:"model"`
	Ranges []float64   `yaml:"temperature-ranges"`
	Data   [][]float64 `yaml:"data"`
}

// ParseMechanism decodes a mechanism document in the Cantera YAML layout.
// Only the phase list and the species table are read; reactions and
// transport data are ignored.
func ParseMechanism(name string, data []byte) (*Mechanism, error) {
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMechanism, name, err)
	}
	if len(doc.Species) == 0 {
		return nil, fmt.Errorf("%w: %s: no species", ErrMechanism, name)
	}

	m := &Mechanism{
		Name:    name,
		species: make(map[string]*Species, len(doc.Species)),
	}
	for _, ys := range doc.Species {
		sp, err := newSpecies(ys)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if _, dup := m.species[sp.Name]; dup {
			return nil, fmt.Errorf("%w: %s: duplicate species %s", ErrMechanism, name, sp.Name)
		}
		m.species[sp.Name] = sp
		m.order = append(m.order, sp.Name)
	}

	for _, yp := range doc.Phases {
		p := Phase{Name: yp.Name, Thermo: yp.Thermo, Species: yp.Species}
		if len(p.Species) == 0 {
			p.Species = append([]string(nil), m.order...)
		}
		for _, s := range p.Species {
			if _, ok := m.species[s]; !ok {
				return nil, fmt.Errorf("%w: %s: phase %s lists undefined species %s", ErrMechanism, name, p.Name, s)
			}
		}
		m.Phases = append(m.Phases, p)
	}
	if len(m.Phases) == 0 {
		m.Phases = []Phase{{Name: name, Thermo: "ideal-gas", Species: append([]string(nil), m.order...)}}
	}
	return m, nil
}

func newSpecies(ys yamlSpecies) (*Species, error) {
	if ys.Name == "" {
		return nil, fmt.Errorf("%w: species without a name", ErrMechanism)
	}
	sp := &Species{Name: ys.Name, Composition: ys.Composition}
	for el, n := range ys.Composition {
		w, ok := atomicWeights[el]
		if !ok {
			return nil, fmt.Errorf("%w: species %s: unknown element %s", ErrMechanism, ys.Name, el)
		}
		sp.Weight += w * n
	}
	if sp.Weight <= 0 {
		return nil, fmt.Errorf("%w: species %s has no mass", ErrMechanism, ys.Name)
	}
	if ys.Thermo != nil && ys.Thermo.Model == "NASA7" {
		th, err := newNASA7(ys.Thermo.Ranges, ys.Thermo.Data)
		if err != nil {
			return nil, fmt.Errorf("species %s: %w", ys.Name, err)
		}
		sp.Thermo = th
	}
	return sp, nil
}

// LoadMechanism reads a Cantera YAML mechanism file.
func LoadMechanism(path string) (*Mechanism, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseMechanism(mechanismKey(filepath.Base(path)), data)
}

// Phase returns the named phase, or the first phase when name is empty.
func (m *Mechanism) Phase(name string) (*Phase, error) {
	if name == "" {
		return &m.Phases[0], nil
	}
	for i := range m.Phases {
		if m.Phases[i].Name == name {
			return &m.Phases[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s has no phase %q", ErrPhaseNotFound, m.Name, name)
}

// Species returns the named species.
func (m *Mechanism) Species(name string) (*Species, bool) {
	s, ok := m.species[name]
	return s, ok
}

// SpeciesNames returns every species defined in the mechanism, in file
// order.
func (m *Mechanism) SpeciesNames() []string {
	return append([]string(nil), m.order...)
}
