package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ctessum/unit"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/san-kum/pbomb/internal/chem"
	"github.com/san-kum/pbomb/internal/config"
	"github.com/san-kum/pbomb/internal/storage"
	"github.com/san-kum/pbomb/internal/sweep"
	"github.com/san-kum/pbomb/internal/thermochem"
	"github.com/san-kum/pbomb/internal/units"
	"github.com/san-kum/pbomb/internal/viz"
)

// app holds process-wide collaborators built once the flags are parsed.
type app struct {
	v        *viper.Viper
	log      *logrus.Logger
	registry *units.Registry
	library  *chem.Library
}

func (a *app) provider() thermochem.Provider {
	return thermochem.LibraryProvider(a.library)
}

func (a *app) store() *storage.Store {
	st := storage.New(a.v.GetString("data"))
	st.Log = a.log
	return st
}

func newApp() *app {
	a := &app{v: viper.New(), registry: units.NewRegistry()}
	a.v.SetEnvPrefix("PBOMB")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	return a
}

func main() {
	a := newApp()

	rootCmd := &cobra.Command{
		Use:           "pbomb",
		Short:         "detonation tube mixture design",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			return a.setup()
		},
	}

	rootCmd.PersistentFlags().String("data", ".pbomb", "data directory for saved plans")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringSlice("mechanism-dir", nil, "extra directories searched for mechanism files")
	rootCmd.PersistentFlags().String("theme", "flame", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	mixCmd := &cobra.Command{
		Use:   "mix",
		Short: "compute partial pressures and masses for a tube fill",
		RunE:  a.runMix,
	}
	addMixtureFlags(mixCmd)
	mixCmd.Flags().Bool("save", false, "save the plan to the data directory")
	mixCmd.Flags().Bool("json", false, "print the plan as JSON")
	mixCmd.Flags().String("name", "", "name stored with a saved plan")
	mixCmd.Flags().String("write-config", "", "write the resolved mixture to a YAML file")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep equivalence ratio or dilution and plot the result",
		RunE:  a.runSweep,
	}
	addMixtureFlags(sweepCmd)
	sweepCmd.Flags().String("axis", "equivalence", "swept parameter (equivalence, dilution)")
	sweepCmd.Flags().Float64("from", 0, "first value (default 0.5 for equivalence, 0 for dilution)")
	sweepCmd.Flags().Float64("to", 0, "last value (default 2 for equivalence, 0.9 for dilution)")
	sweepCmd.Flags().Int("points", 16, "number of values")
	sweepCmd.Flags().String("field", "pressure", "plotted quantity (x, pressure, mass)")
	sweepCmd.Flags().StringSlice("plot-species", nil, "species to plot (default all)")
	sweepCmd.Flags().Int("workers", 0, "parallel workers (default number of CPUs)")

	soundCmd := &cobra.Command{
		Use:   "sound-speed [composition]",
		Short: "speed of sound of a gas mixture (frozen composition with the built-in mechanisms)",
		Long:  `composition is a species name or name:amount pairs, e.g. "O2:0.21 N2:0.79"`,
		Args:  cobra.ExactArgs(1),
		RunE:  a.runSoundSpeed,
	}
	soundCmd.Flags().String("mechanism", config.DefaultMechanism, "mechanism name or file")
	soundCmd.Flags().String("phase", "", "phase name")
	soundCmd.Flags().String("pressure", "1 atm", "pressure")
	soundCmd.Flags().String("temperature", "25 degC", "temperature")

	speciesCmd := &cobra.Command{
		Use:   "species [mechanism]",
		Short: "list built-in mechanisms, or the species of one",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runSpecies,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list mixture presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tMECH\tFUEL\tOXID\tDILUENT\tPHI\tP\tT")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				dil := "-"
				if p.Diluent != "" {
					dil = fmt.Sprintf("%s (%g)", p.Diluent, p.DiluentMoleFraction)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%g\t%s\t%s\n",
					name, p.Mechanism, p.Fuel, p.Oxidizer, dil, p.Equivalence, p.Pressure, p.Temperature)
			}
			return w.Flush()
		},
	}

	unitsCmd := &cobra.Command{
		Use:   "units",
		Short: "list unit names accepted in quantities",
		Run: func(cmd *cobra.Command, args []string) {
			for _, d := range []units.Dimension{units.Pressure, units.Temperature, units.Volume, units.Mass, units.Speed} {
				fmt.Printf("%-12s %s\n", d, strings.Join(a.registry.Names(d), " "))
			}
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved plans",
		RunE:  a.listPlans,
	}

	showCmd := &cobra.Command{
		Use:   "show [plan_id]",
		Short: "show a saved plan",
		Args:  cobra.ExactArgs(1),
		RunE:  a.showPlan,
	}
	showCmd.Flags().Bool("json", false, "print the plan as JSON")

	designCmd := &cobra.Command{
		Use:   "design",
		Short: "tune a mixture interactively",
		RunE:  a.runDesign,
	}
	addMixtureFlags(designCmd)

	rootCmd.AddCommand(mixCmd, sweepCmd, soundCmd, speciesCmd, presetsCmd, unitsCmd, listCmd, showCmd, designCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (a *app) setup() error {
	a.log = logrus.New()
	a.log.Out = os.Stderr
	a.log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	level, err := logrus.ParseLevel(a.v.GetString("log-level"))
	if err != nil {
		return err
	}
	a.log.SetLevel(level)

	a.library = chem.NewLibrary(a.v.GetStringSlice("mechanism-dir")...)
	return nil
}

func (a *app) runMix(cmd *cobra.Command, args []string) error {
	cfg, err := a.mixtureFile(cmd)
	if err != nil {
		return err
	}
	m, volume, err := a.build(cfg)
	if err != nil {
		return err
	}
	if path := a.v.GetString("write-config"); path != "" {
		if err := config.Save(path, cfg); err != nil {
			return err
		}
	}

	plan, err := storage.NewPlan(m, volume, m.IsDiluted())
	if err != nil {
		return err
	}
	plan.Metadata.Name = a.v.GetString("name")

	if a.v.GetBool("save") {
		st := a.store()
		if err := st.Init(); err != nil {
			return err
		}
		id, err := st.Save(plan)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "saved %s\n", id)
	}

	if a.v.GetBool("json") {
		return storage.ExportJSON(os.Stdout, plan)
	}
	fmt.Print(viz.SpeciesTable(plan, viz.GetTheme(a.v.GetString("theme"))))
	return nil
}

func (a *app) runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := a.mixtureFile(cmd)
	if err != nil {
		return err
	}
	axis, err := sweep.ParseAxis(a.v.GetString("axis"))
	if err != nil {
		return err
	}
	base, err := cfg.MixtureConfig(a.registry)
	if err != nil {
		return err
	}
	volume, err := cfg.Volume(a.registry)
	if err != nil {
		return err
	}

	from, to := a.sweepRange(cmd, axis)

	points, err := sweep.Run(cmd.Context(), sweep.Options{
		Provider:   a.provider(),
		Base:       base,
		Axis:       axis,
		Values:     sweep.Linspace(from, to, a.v.GetInt("points")),
		TubeVolume: volume,
		Workers:    a.v.GetInt("workers"),
		Log:        a.log,
	})
	if err != nil {
		return err
	}

	graph, err := viz.SweepPlot(points, axis, a.v.GetString("field"), a.v.GetStringSlice("plot-species"), 80, 15)
	if err != nil {
		return err
	}
	fmt.Println(graph)
	return nil
}

func (a *app) runSoundSpeed(cmd *cobra.Command, args []string) error {
	species, err := chem.ParseComposition(args[0])
	if err != nil {
		return err
	}
	p, err := parseQuantity(a.registry, a.v.GetString("pressure"))
	if err != nil {
		return fmt.Errorf("pressure: %w", err)
	}
	t, err := parseQuantity(a.registry, a.v.GetString("temperature"))
	if err != nil {
		return fmt.Errorf("temperature: %w", err)
	}

	c, err := thermochem.EquilibriumSoundSpeed(a.provider(), thermochem.SoundSpeedInput{
		Temperature: t,
		Pressure:    p,
		Species:     species,
		Mechanism:   a.v.GetString("mechanism"),
		Phase:       a.v.GetString("phase"),
	})
	if err != nil {
		return err
	}
	fmt.Println(formatSoundSpeed(c.Value()))
	return nil
}

func (a *app) runSpecies(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Println("built-in mechanisms:", strings.Join(chem.Embedded(), " "))
		return nil
	}
	mech, err := a.library.Open(args[0])
	if err != nil {
		return err
	}
	for _, ph := range mech.Phases {
		fmt.Printf("%s (%d species)\n", ph.Name, len(ph.Species))
		fmt.Printf("  %s\n", strings.Join(ph.Species, " "))
	}
	return nil
}

func (a *app) listPlans(cmd *cobra.Command, args []string) error {
	plans, err := a.store().List()
	if err != nil {
		return err
	}
	if len(plans) == 0 {
		fmt.Println("no plans found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tMIXTURE\tPHI\tDILUTION\tP [kPa]\tMASS [g]")
	for _, p := range plans {
		mix := p.Fuel + "/" + p.Oxidizer
		if p.Diluent != "" {
			mix += "+" + p.Diluent
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.3f\t%.4f\t%.3f\t%.4f\n",
			p.ID,
			p.Timestamp.Format("2006-01-02 15:04:05"),
			mix,
			p.Equivalence,
			p.DiluentMoleFraction,
			p.PressurePa/1e3,
			p.TotalMassKg*1e3,
		)
	}
	return w.Flush()
}

func (a *app) showPlan(cmd *cobra.Command, args []string) error {
	plan, err := a.store().Plan(args[0])
	if err != nil {
		return err
	}
	if a.v.GetBool("json") {
		return storage.ExportJSON(os.Stdout, plan)
	}
	fmt.Print(viz.SpeciesTable(plan, viz.GetTheme(a.v.GetString("theme"))))
	return nil
}

func (a *app) runDesign(cmd *cobra.Command, args []string) error {
	cfg, err := a.mixtureFile(cmd)
	if err != nil {
		return err
	}
	m, volume, err := a.build(cfg)
	if err != nil {
		return err
	}

	st := a.store()
	save := func(p *storage.Plan) (string, error) {
		if err := st.Init(); err != nil {
			return "", err
		}
		plan := *p
		return st.Save(&plan)
	}

	d := viz.NewDesigner(m, volume, cfg.Diluent, save)
	d.SetTheme(a.v.GetString("theme"))

	// bubbletea owns the terminal; keep log lines out of it
	a.log.SetLevel(logrus.ErrorLevel)
	_, err = tea.NewProgram(d, tea.WithContext(cmd.Context()), tea.WithAltScreen()).Run()
	return err
}

func (a *app) build(cfg *config.Mixture) (*thermochem.Mixture, *unit.Unit, error) {
	volume, err := cfg.Volume(a.registry)
	if err != nil {
		return nil, nil, err
	}
	m, err := cfg.Build(a.registry, a.provider())
	if err != nil {
		return nil, nil, err
	}
	a.log.WithFields(logrus.Fields{
		"mechanism": cfg.Mechanism,
		"fuel":      cfg.Fuel,
		"oxidizer":  cfg.Oxidizer,
		"diluent":   cfg.Diluent,
		"phi":       cfg.Equivalence,
	}).Debug("mixture built")
	return m, volume, nil
}

