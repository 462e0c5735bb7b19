package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ctessum/unit"
	"github.com/spf13/cobra"

	"github.com/san-kum/pbomb/internal/config"
	"github.com/san-kum/pbomb/internal/sweep"
	"github.com/san-kum/pbomb/internal/units"
)

func addMixtureFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("config", "", "mixture YAML file")
	f.String("preset", "", "start from a named preset (see presets)")
	f.String("mechanism", config.DefaultMechanism, "mechanism name or file")
	f.String("phase", "", "phase name")
	f.String("fuel", config.DefaultFuel, "fuel species")
	f.String("oxidizer", config.DefaultOxidizer, "oxidizer species")
	f.String("diluent", "", `diluent species or compound, e.g. "N2:1 AR:1"`)
	f.Float64("phi", config.DefaultEquivalence, "equivalence ratio")
	f.Float64("dilution", 0, "diluent mole fraction")
	f.String("pressure", "1 atm", "initial pressure")
	f.String("temperature", "25 degC", "initial temperature")
	f.String("volume", "0.1 m^3", "tube volume")
}

// overridden reports whether key was given on the command line or through
// the environment.
func (a *app) overridden(cmd *cobra.Command, key string) bool {
	if cmd.Flags().Changed(key) {
		return true
	}
	_, ok := os.LookupEnv("PBOMB_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_")))
	return ok
}

// mixtureFile resolves the mixture for cmd: defaults, then preset, then
// config file, then explicit flags and PBOMB_* variables.
func (a *app) mixtureFile(cmd *cobra.Command) (*config.Mixture, error) {
	cfg := config.DefaultMixture()
	if name := a.v.GetString("preset"); name != "" {
		cfg = config.GetPreset(name)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q (have %s)", name, strings.Join(config.ListPresets(), ", "))
		}
	}
	if path := a.v.GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	strs := map[string]*string{
		"mechanism": &cfg.Mechanism,
		"phase":     &cfg.Phase,
		"fuel":      &cfg.Fuel,
		"oxidizer":  &cfg.Oxidizer,
		"diluent":   &cfg.Diluent,
	}
	for key, dst := range strs {
		if a.overridden(cmd, key) {
			*dst = a.v.GetString(key)
		}
	}
	if a.overridden(cmd, "phi") {
		cfg.Equivalence = a.v.GetFloat64("phi")
	}
	if a.overridden(cmd, "dilution") {
		cfg.DiluentMoleFraction = a.v.GetFloat64("dilution")
	}

	quantities := map[string]*config.Quantity{
		"pressure":    &cfg.Pressure,
		"temperature": &cfg.Temperature,
		"volume":      &cfg.TubeVolume,
	}
	for key, dst := range quantities {
		if !a.overridden(cmd, key) {
			continue
		}
		q, err := splitQuantity(a.v.GetString(key))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		*dst = q
	}
	return cfg, nil
}

// splitQuantity reads "<value> <unit>", e.g. "101.325 kPa".
func splitQuantity(s string) (config.Quantity, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return config.Quantity{}, fmt.Errorf("want \"<value> <unit>\", got %q", s)
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return config.Quantity{}, fmt.Errorf("bad value %q: %w", fields[0], err)
	}
	return config.Quantity{Value: v, Unit: fields[1]}, nil
}

func parseQuantity(reg *units.Registry, s string) (*unit.Unit, error) {
	q, err := splitQuantity(s)
	if err != nil {
		return nil, err
	}
	return reg.Quantity(q.Value, q.Unit)
}

var sweepDefaults = map[sweep.Axis][2]float64{
	sweep.Equivalence: {0.5, 2},
	sweep.Dilution:    {0, 0.9},
}

// sweepRange returns the swept interval, filling in per-axis defaults for
// bounds that were not given.
func (a *app) sweepRange(cmd *cobra.Command, axis sweep.Axis) (from, to float64) {
	def := sweepDefaults[axis]
	from, to = def[0], def[1]
	if a.overridden(cmd, "from") {
		from = a.v.GetFloat64("from")
	}
	if a.overridden(cmd, "to") {
		to = a.v.GetFloat64("to")
	}
	return from, to
}

// The built-in provider keeps composition fixed when equilibrating, so the
// reported value is the frozen sound speed.
func formatSoundSpeed(c float64) string {
	return fmt.Sprintf("%.2f m/s (frozen)", c)
}
