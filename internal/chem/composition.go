package chem

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Component is one named species and its relative amount.
type Component struct {
	Name   string
	Amount float64
}

// Composition is an ordered list of components. Order is preserved so that
// diagnostics can name species in the order the caller supplied them.
type Composition []Component

// ParseComposition reads either a bare species name ("CO2", taken as 100%)
// or whitespace separated name:amount pairs ("O2:1 N2:3.76").
func ParseComposition(s string) (Composition, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty composition", ErrComposition)
	}
	if len(fields) == 1 && !strings.Contains(fields[0], ":") {
		return Composition{{Name: fields[0], Amount: 1}}, nil
	}

	comp := make(Composition, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, tok := range fields {
		name, amount, ok := strings.Cut(tok, ":")
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: %q is not name:amount", ErrComposition, tok)
		}
		v, err := strconv.ParseFloat(amount, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrComposition, tok, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: non-finite amount for %s", ErrComposition, name)
		}
		if v < 0 {
			return nil, fmt.Errorf("%w: negative amount for %s", ErrComposition, name)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: %s listed twice", ErrComposition, name)
		}
		seen[name] = true
		comp = append(comp, Component{Name: name, Amount: v})
	}
	if math.IsInf(comp.Total(), 0) {
		return nil, fmt.Errorf("%w: amounts overflow when summed", ErrComposition)
	}
	return comp, nil
}

// FromMap converts a species map to a Composition sorted by name.
func FromMap(m map[string]float64) Composition {
	comp := make(Composition, 0, len(m))
	for name, v := range m {
		comp = append(comp, Component{Name: name, Amount: v})
	}
	sort.Slice(comp, func(i, j int) bool { return comp[i].Name < comp[j].Name })
	return comp
}

// Names returns the species names in order.
func (c Composition) Names() []string {
	names := make([]string, len(c))
	for i, comp := range c {
		names[i] = comp.Name
	}
	return names
}

func (c Composition) amounts() []float64 {
	v := make([]float64, len(c))
	for i, comp := range c {
		v[i] = comp.Amount
	}
	return v
}

// Total is the sum of all amounts.
func (c Composition) Total() float64 {
	if len(c) == 0 {
		return 0
	}
	return floats.Sum(c.amounts())
}

// Normalized returns a copy whose amounts sum to 1.
func (c Composition) Normalized() (Composition, error) {
	total := c.Total()
	if !(total > 0) || math.IsInf(total, 0) {
		return nil, fmt.Errorf("%w: amounts sum to %g", ErrComposition, total)
	}
	v := c.amounts()
	floats.Scale(1/total, v)
	out := make(Composition, len(c))
	for i, comp := range c {
		out[i] = Component{Name: comp.Name, Amount: v[i]}
	}
	return out, nil
}

// Map returns the composition as a species map, summing repeated names.
func (c Composition) Map() map[string]float64 {
	m := make(map[string]float64, len(c))
	for _, comp := range c {
		m[comp.Name] += comp.Amount
	}
	return m
}

func (c Composition) String() string {
	parts := make([]string, len(c))
	for i, comp := range c {
		parts[i] = comp.Name + ":" + strconv.FormatFloat(comp.Amount, 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}
