// Package outwriter has output and writer logic.
package outwriter

import (
	"os"

	"github.com/iipmodel/readiness/internal/contract"
	"golang.org/x/term"
)

// defaultTermWidth is used when the terminal size can't be detected (pipes, CI).
const defaultTermWidth = 80

// terminalWidth returns the configured width override or the detected terminal width.
func terminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detected, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detected <= 0 {
		return defaultTermWidth
	}
	return detected
}

// GetMaxTextWidth returns the width left for a free-text column once the fixed
// columns (reserved) and table borders are accounted for. The result is kept
// between 20 and 100 characters.
func GetMaxTextWidth(cfg *contract.Config, reserved int) int {
	// Borders, separators and padding
	available := terminalWidth(cfg) - reserved - 10
	return min(max(available, 20), 100)
}
