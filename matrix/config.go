package matrix

// config.go contains the Configuration tuple and the matrix expansion
// that produces one Configuration per matrix cell.

import (
	"fmt"
	"slices"
)

// Configuration is one cell of the build matrix.
type Configuration struct {
	Device   Device
	Compiler Compiler
	Optimize Optimize
}

// String renders the configuration as "GCC-Debug-CM55".
func (c Configuration) String() string {
	return fmt.Sprintf("%s-%s-%s", c.Compiler.Code(), c.Optimize.Label(), c.Device.Code())
}

// Filter restricts matrix expansion. An empty slice selects every value of
// that axis.
type Filter struct {
	Devices       []Device
	Compilers     []Compiler
	Optimizations []Optimize
}

// ParseFilter builds a Filter from command-line style value names.
func ParseFilter(devices, compilers, optimizations []string) (Filter, error) {
	var f Filter
	for _, s := range devices {
		d, err := ParseDevice(s)
		if err != nil {
			return Filter{}, err
		}
		f.Devices = append(f.Devices, d)
	}
	for _, s := range compilers {
		c, err := ParseCompiler(s)
		if err != nil {
			return Filter{}, err
		}
		f.Compilers = append(f.Compilers, c)
	}
	for _, s := range optimizations {
		o, err := ParseOptimize(s)
		if err != nil {
			return Filter{}, err
		}
		f.Optimizations = append(f.Optimizations, o)
	}
	return f, nil
}

// Expand returns the Cartesian product of all axes restricted by the filter.
// Order is device-major, then compiler, then optimization, each axis in
// declaration order regardless of the order values were given in the filter.
func Expand(f Filter) []Configuration {
	var out []Configuration
	for _, d := range Devices() {
		if len(f.Devices) > 0 && !slices.Contains(f.Devices, d) {
			continue
		}
		for _, c := range Compilers() {
			if len(f.Compilers) > 0 && !slices.Contains(f.Compilers, c) {
				continue
			}
			for _, o := range Optimizations() {
				if len(f.Optimizations) > 0 && !slices.Contains(f.Optimizations, o) {
					continue
				}
				out = append(out, Configuration{Device: d, Compiler: c, Optimize: o})
			}
		}
	}
	return out
}
