package display

import (
	"fmt"
	"os"

	"github.com/backmassage/snapmerge/internal/term"
)

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner() {
	if term.Magenta != "" {
		fmt.Fprint(os.Stdout, term.Magenta)
	}
	fmt.Fprint(os.Stdout, ` ____                   __  __
/ ___| _ __   __ _ _ __|  \/  | ___ _ __ __ _  ___
\___ \| '_ \ / _`+"`"+` | '_ \ |\/| |/ _ \ '__/ _`+"`"+` |/ _ \
 ___) | | | | (_| | |_) |  | |  __/ | | (_| |  __/
|____/|_| |_|\__,_| .__/|_|  |_|\___|_|  \__, |\___|
                  |_|                    |___/
`)
	if term.Magenta != "" {
		fmt.Fprintln(os.Stdout, term.NC)
	}
}
