// Package ui holds the terminal color themes shared by the CLI output and the
// error handler.
package ui

import (
	"os"
	"sync"

	"golang.org/x/term"
)

// Theme maps semantic roles to ANSI escape codes.
type Theme struct {
	Name      string
	Primary   string
	Secondary string
	Success   string
	Warning   string
	Error     string
	Info      string
	Bold      string
	Reset     string
}

var (
	// DarkTheme suits dark terminal backgrounds.
	DarkTheme = Theme{
		Name:      "dark",
		Primary:   "\033[38;5;39m",  // Bright blue
		Secondary: "\033[38;5;245m", // Grey
		Success:   "\033[38;5;82m",  // Bright green
		Warning:   "\033[38;5;220m", // Yellow
		Error:     "\033[38;5;196m", // Red
		Info:      "\033[38;5;141m", // Purple
		Bold:      "\033[1m",
		Reset:     "\033[0m",
	}

	// LightTheme suits light terminal backgrounds.
	LightTheme = Theme{
		Name:      "light",
		Primary:   "\033[38;5;27m",
		Secondary: "\033[38;5;240m",
		Success:   "\033[38;5;28m",
		Warning:   "\033[38;5;130m",
		Error:     "\033[38;5;124m",
		Info:      "\033[38;5;54m",
		Bold:      "\033[1m",
		Reset:     "\033[0m",
	}

	// NoColorTheme prints no escape codes at all.
	NoColorTheme = Theme{Name: "none"}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetCurrentTheme replaces the active theme.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// ThemeByName returns "dark", "light" or "none"; unknown names give the
// dark theme.
func ThemeByName(name string) Theme {
	switch name {
	case "light":
		return LightTheme
	case "none":
		return NoColorTheme
	default:
		return DarkTheme
	}
}

// isTerminal is replaced in tests.
var isTerminal = func(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// InitTheme selects the theme for a run writing to out. Colors are disabled
// when noColor is set, when NO_COLOR is present in the environment
// (https://no-color.org/), or when out is not a terminal. FIBMATRIX_THEME
// picks between "dark" (default) and "light".
func InitTheme(noColor bool, out *os.File) {
	SetCurrentTheme(selectTheme(noColor, out))
}

func selectTheme(noColor bool, out *os.File) Theme {
	if noColor {
		return NoColorTheme
	}
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return NoColorTheme
	}
	if out == nil || !isTerminal(out) {
		return NoColorTheme
	}
	return ThemeByName(os.Getenv("FIBMATRIX_THEME"))
}

// TerminalWidth returns the width of out in columns, or fallback when out is
// not a terminal.
func TerminalWidth(out *os.File, fallback int) int {
	if out == nil || !isTerminal(out) {
		return fallback
	}
	width, _, err := term.GetSize(int(out.Fd()))
	if err != nil || width <= 0 {
		return fallback
	}
	return width
}
