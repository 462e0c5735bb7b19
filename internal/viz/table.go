package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/pbomb/internal/chem"
	"github.com/san-kum/pbomb/internal/storage"
)

const barWidth = 20

// SpeciesTable renders a fill plan: one row per species with its mole
// fraction, partial pressure in kPa and mass in grams.
func SpeciesTable(plan *storage.Plan, t Theme) string {
	st := newStyles(t)
	meta := plan.Metadata

	var b strings.Builder
	title := fmt.Sprintf("%s / %s", meta.Fuel, meta.Oxidizer)
	if meta.Diluent != "" {
		title += fmt.Sprintf(" + %s", meta.Diluent)
	}
	b.WriteString(st.title.Render(title))
	b.WriteString("\n")
	b.WriteString(summary(st, meta))
	b.WriteString("\n\n")

	b.WriteString(st.header.Render(fmt.Sprintf("%-10s %10s %12s %12s  %s", "species", "X", "p [kPa]", "m [g]", "")))
	b.WriteString("\n")
	for _, r := range plan.Species {
		row := fmt.Sprintf("%-10s %10.5f %12.4f %12.4f  %s",
			r.Species, r.MoleFraction, r.PartialPressure/1e3, r.Mass*1e3, Bar(r.MoleFraction, barWidth))
		b.WriteString(roleStyle(st, meta, r.Species).Render(row))
		b.WriteString("\n")
	}
	return b.String()
}

func summary(st styles, meta storage.Metadata) string {
	type pair struct{ label, value string }
	pairs := []pair{
		{"mechanism", meta.Mechanism},
		{"phi", fmt.Sprintf("%.3f", meta.Equivalence)},
		{"P", fmt.Sprintf("%.3f kPa", meta.PressurePa/1e3)},
		{"T", fmt.Sprintf("%.2f K", meta.TemperatureK)},
		{"V", fmt.Sprintf("%.4g m^3", meta.TubeVolumeM3)},
		{"mass", fmt.Sprintf("%.4f g", meta.TotalMassKg*1e3)},
	}
	if meta.Diluent != "" {
		pairs = append(pairs, pair{"dilution", fmt.Sprintf("%.4f", meta.DiluentMoleFraction)})
	}
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = st.label.Render(p.label+" ") + st.value.Render(p.value)
	}
	return strings.Join(parts, "  ")
}

func roleStyle(st styles, meta storage.Metadata, species string) lipgloss.Style {
	switch species {
	case meta.Fuel:
		return st.fuel
	case meta.Oxidizer:
		return st.oxid
	}
	if comp, err := chem.ParseComposition(meta.Diluent); err == nil {
		for _, c := range comp {
			if c.Name == species {
				return st.diluent
			}
		}
	}
	return st.other
}
