package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/pbomb/internal/sweep"
)

var fieldLabels = map[string]string{
	"x":             "mole fraction",
	"mole_fraction": "mole fraction",
	"pressure":      "partial pressure [kPa]",
	"mass":          "mass [g]",
}

var fieldScale = map[string]float64{
	"x":             1,
	"mole_fraction": 1,
	"pressure":      1e-3,
	"mass":          1e3,
}

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Red,
	asciigraph.Blue,
	asciigraph.Green,
	asciigraph.Yellow,
	asciigraph.Magenta,
	asciigraph.Cyan,
}

// SweepPlot draws one line per species of field (any of sweep.Fields)
// across the sweep points. With no species given every species
// present is drawn.
func SweepPlot(points []sweep.Point, axis sweep.Axis, field string, species []string, width, height int) (string, error) {
	if len(points) == 0 {
		return "", sweep.ErrNoValues
	}
	scale, ok := fieldScale[field]
	if !ok {
		return "", fmt.Errorf("viz: unknown field %q", field)
	}
	if len(species) == 0 {
		species = sweep.Species(points)
	}

	data := make([][]float64, 0, len(species))
	colors := make([]asciigraph.AnsiColor, 0, len(species))
	for i, s := range species {
		series, err := sweep.Series(points, s, field)
		if err != nil {
			return "", err
		}
		for j := range series {
			series[j] *= scale
		}
		// asciigraph needs at least two samples per line
		if len(series) == 1 {
			series = append(series, series[0])
		}
		data = append(data, series)
		colors = append(colors, seriesColors[i%len(seriesColors)])
	}

	caption := fmt.Sprintf("%s vs %s (%g to %g): %s",
		fieldLabels[field], axis, points[0].Value, points[len(points)-1].Value, strings.Join(species, ", "))
	return asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.SeriesColors(colors...),
		asciigraph.Caption(caption),
	), nil
}
