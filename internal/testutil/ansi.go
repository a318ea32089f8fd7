// Package testutil holds helpers shared by tests of the terminal output.
package testutil

import "regexp"

// ansiRegex matches CSI escape sequences such as "\x1b[38;5;82m".
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripAnsiCodes removes ANSI escape sequences from s.
func StripAnsiCodes(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}
