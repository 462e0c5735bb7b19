package viz

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ctessum/unit"

	"github.com/san-kum/pbomb/internal/storage"
	"github.com/san-kum/pbomb/internal/thermochem"
)

const (
	fieldPhi = iota
	fieldDilution
)

const historyLen = 40

// SaveFunc persists a plan and returns its id.
type SaveFunc func(*storage.Plan) (string, error)

// Designer is an interactive bubbletea model for tuning the equivalence
// ratio and dilution of a mixture while watching the fill plan change.
type Designer struct {
	mixture *thermochem.Mixture
	volume  *unit.Unit
	diluent string
	save    SaveFunc

	cursor  int
	phiStep float64
	dilStep float64
	diluted bool
	theme   Theme

	plan    *storage.Plan
	history []float64
	status  string
	err     error
	width   int
}

// NewDesigner builds a designer over m. diluent is used when the dilution
// is raised from zero; it may be empty if m has no diluent. save may be nil.
func NewDesigner(m *thermochem.Mixture, tubeVolume *unit.Unit, diluent string, save SaveFunc) *Designer {
	if diluent == "" {
		diluent = m.Diluent()
	}
	d := &Designer{
		mixture: m,
		volume:  tubeVolume,
		diluent: diluent,
		save:    save,
		phiStep: 0.05,
		dilStep: 0.01,
		diluted: m.IsDiluted(),
		theme:   ThemeFlame,
		width:   80,
	}
	d.refresh()
	return d
}

// SetTheme selects the colour theme by name.
func (d *Designer) SetTheme(name string) { d.theme = GetTheme(name) }

func (d Designer) Init() tea.Cmd { return nil }

func (d Designer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return d.handleKey(msg)
	case tea.WindowSizeMsg:
		d.width = msg.Width
	}
	return d, nil
}

func (d Designer) handleKey(msg tea.KeyMsg) (Designer, tea.Cmd) {
	d.status = ""
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return d, tea.Quit
	case "up", "k":
		if d.cursor > fieldPhi {
			d.cursor--
		}
	case "down", "j":
		if d.cursor < fieldDilution {
			d.cursor++
		}
	case "left", "h", "-":
		d.adjust(-1)
	case "right", "l", "+", "=":
		d.adjust(1)
	case "[":
		d.scaleStep(0.1)
	case "]":
		d.scaleStep(10)
	case "d":
		if d.mixture.IsDiluted() {
			d.diluted = !d.diluted
			d.refresh()
		} else {
			d.status = "mixture is not diluted"
		}
	case "t":
		d.theme = d.theme.next()
	case "s":
		d.savePlan()
	}
	return d, nil
}

func (d *Designer) adjust(dir float64) {
	switch d.cursor {
	case fieldPhi:
		phi := round(d.mixture.Equivalence()+dir*d.phiStep, d.phiStep)
		d.err = d.mixture.SetEquivalence(phi)
	case fieldDilution:
		if d.diluent == "" {
			d.status = "no diluent configured"
			return
		}
		frac := round(d.mixture.DiluentMoleFraction()+dir*d.dilStep, d.dilStep)
		frac = math.Max(0, math.Min(1, frac))
		d.err = d.mixture.AddDiluent(d.diluent, frac)
		if d.err == nil && d.mixture.IsDiluted() {
			d.diluted = true
		}
	}
	d.refresh()
}

func (d *Designer) scaleStep(f float64) {
	switch d.cursor {
	case fieldPhi:
		d.phiStep = math.Max(1e-4, math.Min(1, d.phiStep*f))
	case fieldDilution:
		d.dilStep = math.Max(1e-4, math.Min(0.1, d.dilStep*f))
	}
}

// round snaps v to the step grid to keep repeated steps from drifting.
func round(v, step float64) float64 {
	return math.Round(v/step) * step
}

func (d *Designer) refresh() {
	plan, err := storage.NewPlan(d.mixture, d.volume, d.diluted && d.mixture.IsDiluted())
	if err != nil {
		d.err = err
		return
	}
	d.plan = plan
	d.history = append(d.history, plan.Metadata.TotalMassKg)
	if len(d.history) > historyLen {
		d.history = d.history[len(d.history)-historyLen:]
	}
}

func (d *Designer) savePlan() {
	if d.save == nil || d.plan == nil {
		d.status = "saving disabled"
		return
	}
	id, err := d.save(d.plan)
	if err != nil {
		d.err = err
		return
	}
	d.status = "saved " + id
}

// Plan returns the plan currently shown.
func (d Designer) Plan() *storage.Plan { return d.plan }

func (d Designer) View() string {
	st := newStyles(d.theme)
	var b strings.Builder

	b.WriteString(st.title.Render("pbomb mixture designer"))
	b.WriteString("\n\n")

	fields := []struct {
		label string
		value string
		step  float64
	}{
		{"equivalence", fmt.Sprintf("%.4f", d.mixture.Equivalence()), d.phiStep},
		{"dilution", fmt.Sprintf("%.4f (%s)", d.mixture.DiluentMoleFraction(), orNone(d.diluent)), d.dilStep},
	}
	var panel strings.Builder
	for i, f := range fields {
		marker := "  "
		if i == d.cursor {
			marker = st.value.Render("> ")
		}
		fmt.Fprintf(&panel, "%s%s %s %s\n", marker, st.label.Render(fmt.Sprintf("%-12s", f.label)),
			st.value.Render(f.value), st.hint.Render(fmt.Sprintf("step %g", f.step)))
	}
	view := "undiluted"
	if d.diluted && d.mixture.IsDiluted() {
		view = "diluted"
	}
	fmt.Fprintf(&panel, "  %s %s", st.label.Render(fmt.Sprintf("%-12s", "view")), st.value.Render(view))
	b.WriteString(st.panel.Render(panel.String()))
	b.WriteString("\n\n")

	if d.plan != nil {
		b.WriteString(SpeciesTable(d.plan, d.theme))
		b.WriteString("\n")
		b.WriteString(st.label.Render("total mass ") + Sparkline(d.history))
		b.WriteString("\n")
	}

	if d.err != nil {
		b.WriteString(st.err.Render("error: " + d.err.Error()))
		b.WriteString("\n")
	} else if d.status != "" {
		b.WriteString(st.value.Render(d.status))
		b.WriteString("\n")
	}

	b.WriteString(st.hint.Render("↑↓ select  ←→ adjust  [ ] step  d diluted view  t theme  s save  q quit"))
	return b.String()
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
