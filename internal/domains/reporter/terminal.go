package reporter

import (
	"os"

	"golang.org/x/term"
)

const defaultColumns = 80

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// terminalColumns asks the terminal for its current width, so a resized
// window is picked up on the next redraw.
func terminalColumns(f *os.File) func() int {
	return func() int {
		columns, _, err := term.GetSize(int(f.Fd()))
		if err != nil || columns <= 0 {
			return defaultColumns
		}

		return columns
	}
}
