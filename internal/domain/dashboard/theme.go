package dashboard

// DarkModeKey is the durable key holding the theme preference.
const DarkModeKey = "darkMode"

const (
	IconLight     = "🌙"
	IconDark      = "☀️"
	DarkModeClass = "dark-mode"
)

// Theme is the binary UI theme. The zero value is light.
type Theme struct {
	Dark bool
}

// ParseTheme reads the stored preference; only "true" selects dark.
func ParseTheme(stored string) Theme {
	return Theme{Dark: stored == "true"}
}

func (t Theme) Toggle() Theme { return Theme{Dark: !t.Dark} }

// Stored is the value written back under DarkModeKey.
func (t Theme) Stored() string {
	if t.Dark {
		return "true"
	}
	return "false"
}

func (t Theme) Icon() string {
	if t.Dark {
		return IconDark
	}
	return IconLight
}

func (t Theme) BodyClass() string {
	if t.Dark {
		return DarkModeClass
	}
	return ""
}
