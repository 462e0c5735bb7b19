// Package viz renders mixtures in the terminal.
//
//   - [SpeciesTable]: per-species fill plan with mole fraction bars
//   - [SweepPlot]: asciigraph line plot of a parameter sweep
//   - [Designer]: Bubble Tea model for tuning a mixture interactively
//
// # Designer Key Bindings
//
//	↑/↓   - Select equivalence ratio or dilution
//	←/→   - Adjust the selected value
//	[ ]   - Shrink / grow the step
//	D     - Toggle the diluted view
//	T     - Cycle color themes
//	S     - Save the current plan
package viz
