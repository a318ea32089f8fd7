package ui

// Color accessors read the active theme.

func ColorReset() string { return GetCurrentTheme().Reset }
func ColorRed() string { return GetCurrentTheme().Error }
func ColorGreen() string { return GetCurrentTheme().Success }
func ColorYellow() string { return GetCurrentTheme().Warning }
func ColorBlue() string { return GetCurrentTheme().Primary }
func ColorMagenta() string { return GetCurrentTheme().Info }
func ColorCyan() string { return GetCurrentTheme().Secondary }
func ColorBold() string { return GetCurrentTheme().Bold }

// ThemeColors exposes the active theme through the small color interface
// expected by the error handler.
type ThemeColors struct{}

func (ThemeColors) Yellow() string { return ColorYellow() }
func (ThemeColors) Red() string { return ColorRed() }
func (ThemeColors) Reset() string { return ColorReset() }
