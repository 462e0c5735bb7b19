// Package chem is the built-in chemical-solution provider: mechanism
// species tables, composition strings and an ideal-gas state.
//
// Mechanisms are read in the Cantera YAML layout, so a full mechanism file
// exported from Cantera can be loaded directly. Three are embedded:
//
//   - gri30: the 53 GRI-Mech 3.0 species
//   - h2o2: the hydrogen/oxygen subset with argon and nitrogen
//   - air: O, O2, N, NO, NO2, N2O, N2 and AR
//
// The embedded tables carry NASA7 thermo only for the major stable
// species (H2, O2, N2, AR, H2O, CO, CO2, CH4). Properties that need thermo
// data fail with [ErrNoThermo] when a species without it is present.
//
// [Solution.Equilibrate] holds composition frozen; there is no reaction
// data here. Callers needing shifting equilibrium, flame or detonation
// solutions supply their own solver.
package chem
