// Package tools builds the argument vectors of the external programs driven by
// exmatrix: the CMSIS build tools, the compiler preprocessors, the Arm models
// and the event list utility. Nothing in this package executes a process.
package tools

import (
	"strings"

	"al.essio.dev/pkg/shellescape"
)

// Toolset names the executables used for each external tool. Empty fields fall
// back to the defaults from DefaultToolset.
type Toolset struct {
	Cbuild    string
	Csolution string
	Armclang  string
	GCC       string
	IAR       string
	EventList string
	Unzip     string
}

// DefaultToolset returns the executables expected on PATH.
func DefaultToolset() Toolset {
	return Toolset{
		Cbuild:    "cbuild",
		Csolution: "csolution",
		Armclang:  "armclang",
		GCC:       "arm-none-eabi-gcc",
		IAR:       "iccarm",
		EventList: "eventlist",
		Unzip:     "unzip",
	}
}

// WithDefaults fills empty fields from DefaultToolset.
func (t Toolset) WithDefaults() Toolset {
	d := DefaultToolset()
	pick := func(v, def string) string {
		if strings.TrimSpace(v) == "" {
			return def
		}
		return v
	}
	return Toolset{
		Cbuild:    pick(t.Cbuild, d.Cbuild),
		Csolution: pick(t.Csolution, d.Csolution),
		Armclang:  pick(t.Armclang, d.Armclang),
		GCC:       pick(t.GCC, d.GCC),
		IAR:       pick(t.IAR, d.IAR),
		EventList: pick(t.EventList, d.EventList),
		Unzip:     pick(t.Unzip, d.Unzip),
	}
}

// Quote renders an argument vector as a shell command line.
func Quote(args []string) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		parts = append(parts, shellescape.Quote(arg))
	}
	return strings.Join(parts, " ")
}
