package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the colour scheme of tables and the designer.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Fuel    lipgloss.Color
	Oxid    lipgloss.Color
	Diluent lipgloss.Color
	Error   lipgloss.Color
}

var (
	ThemeFlame = Theme{
		Name:    "flame",
		Primary: lipgloss.Color("#ff8c00"),
		Accent:  lipgloss.Color("#ffd700"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#777777"),
		Fuel:    lipgloss.Color("#ff4500"),
		Oxid:    lipgloss.Color("#1e90ff"),
		Diluent: lipgloss.Color("#aaaaaa"),
		Error:   lipgloss.Color("#ff0000"),
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Primary: lipgloss.Color("#0077be"),
		Accent:  lipgloss.Color("#ffd700"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Fuel:    lipgloss.Color("#ff6b6b"),
		Oxid:    lipgloss.Color("#00a8cc"),
		Diluent: lipgloss.Color("#8899aa"),
		Error:   lipgloss.Color("#ff4444"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#0088ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Fuel:    lipgloss.Color("#ffffff"),
		Oxid:    lipgloss.Color("#cccccc"),
		Diluent: lipgloss.Color("#888888"),
		Error:   lipgloss.Color("#ff0000"),
	}

	Themes = []Theme{ThemeFlame, ThemeOcean, ThemeMinimal}
)

// GetTheme returns a theme by name, falling back to flame.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeFlame
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// next returns the theme after t in Themes.
func (t Theme) next() Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return ThemeFlame
}
