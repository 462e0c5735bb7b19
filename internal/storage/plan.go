package storage

import (
	"encoding/json"
	"io"
	"sort"
	"time"

	"github.com/ctessum/unit"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/pbomb/internal/thermochem"
)

// Metadata describes how a fill plan was computed. All quantities are SI.
type Metadata struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name,omitempty"`
	Timestamp           time.Time `json:"timestamp"`
	Mechanism           string    `json:"mechanism"`
	Fuel                string    `json:"fuel"`
	Oxidizer            string    `json:"oxidizer"`
	Diluent             string    `json:"diluent,omitempty"`
	Equivalence         float64   `json:"equivalence"`
	DiluentMoleFraction float64   `json:"diluent_mole_fraction"`
	Diluted             bool      `json:"diluted"`
	PressurePa          float64   `json:"pressure_pa"`
	TemperatureK        float64   `json:"temperature_k"`
	TubeVolumeM3        float64   `json:"tube_volume_m3"`
	TotalMassKg         float64   `json:"total_mass_kg"`
}

// SpeciesRow is one species of a fill plan.
type SpeciesRow struct {
	Species         string  `json:"species"`
	MoleFraction    float64 `json:"mole_fraction"`
	PartialPressure float64 `json:"partial_pressure_pa"`
	Mass            float64 `json:"mass_kg"`
}

// Plan is the per-species breakdown of filling a tube with a mixture.
type Plan struct {
	Metadata Metadata     `json:"metadata"`
	Species  []SpeciesRow `json:"species"`
}

// NewPlan tabulates the selected state of m for a tube of the given volume.
// Rows are sorted by descending mole fraction.
func NewPlan(m *thermochem.Mixture, tubeVolume *unit.Unit, diluted bool) (*Plan, error) {
	x, err := m.MoleFractions(diluted)
	if err != nil {
		return nil, err
	}
	pressures, err := m.Pressures(diluted)
	if err != nil {
		return nil, err
	}
	masses, err := m.Masses(tubeVolume, diluted)
	if err != nil {
		return nil, err
	}

	rows := make([]SpeciesRow, 0, len(x))
	for name, frac := range x {
		rows = append(rows, SpeciesRow{
			Species:         name,
			MoleFraction:    frac,
			PartialPressure: pressures[name].Value(),
			Mass:            masses[name].Value(),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].MoleFraction != rows[j].MoleFraction {
			return rows[i].MoleFraction > rows[j].MoleFraction
		}
		return rows[i].Species < rows[j].Species
	})

	mass := make([]float64, len(rows))
	for i, r := range rows {
		mass[i] = r.Mass
	}

	meta := Metadata{
		Mechanism:    m.Mechanism(),
		Fuel:         m.Fuel(),
		Oxidizer:     m.Oxidizer(),
		Equivalence:  m.Equivalence(),
		Diluted:      diluted,
		PressurePa:   m.InitialPressure().Value(),
		TemperatureK: m.InitialTemperature().Value(),
		TubeVolumeM3: tubeVolume.Value(),
	}
	if len(mass) > 0 {
		meta.TotalMassKg = floats.Sum(mass)
	}
	if diluted {
		meta.Diluent = m.Diluent()
		meta.DiluentMoleFraction = m.DiluentMoleFraction()
	}
	return &Plan{Metadata: meta, Species: rows}, nil
}

// ExportJSON writes plan as indented JSON.
func ExportJSON(w io.Writer, plan *Plan) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(plan)
}
