package matrix

// axis.go declares the enumerated dimensions of the build matrix and the
// per-value attribute tables keyed by them.

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownValue is returned when a string does not name any axis value.
var ErrUnknownValue = errors.New("unknown axis value")

// Device is the target device axis.
type Device int

const (
	DeviceCM3 Device = iota
	DeviceCM55
	DeviceSSE300

	numDevices
)

type deviceAttrs struct {
	label string // human readable name
	code  string // short code used in file names
	arch  string // device directory / architecture identifier
	cpu   string // compiler -mcpu value
}

var deviceTable = map[Device]deviceAttrs{
	DeviceCM3:    {label: "Cortex-M3", code: "CM3", arch: "ARMCM3", cpu: "cortex-m3"},
	DeviceCM55:   {label: "Cortex-M55", code: "CM55", arch: "ARMCM55", cpu: "cortex-m55"},
	DeviceSSE300: {label: "Corstone_SSE-300", code: "SSE300", arch: "SSE-300-MPS3", cpu: "cortex-m55"},
}

// Label returns the human readable device name, e.g. "Cortex-M55".
func (d Device) Label() string { return deviceTable[d].label }

// Code returns the short device code, e.g. "CM55".
func (d Device) Code() string { return deviceTable[d].code }

// Arch returns the architecture identifier that keys the device directory.
func (d Device) Arch() string { return deviceTable[d].arch }

// CPU returns the target CPU identifier passed to compilers.
func (d Device) CPU() string { return deviceTable[d].cpu }

func (d Device) String() string { return d.Code() }

// Compiler is the toolchain axis.
type Compiler int

const (
	CompilerAC6 Compiler = iota
	CompilerGCC
	CompilerIAR
	CompilerCLANG

	numCompilers
)

type compilerAttrs struct {
	code     string
	imageExt string
}

var compilerTable = map[Compiler]compilerAttrs{
	CompilerAC6:   {code: "AC6", imageExt: "axf"},
	CompilerGCC:   {code: "GCC", imageExt: "elf"},
	CompilerIAR:   {code: "IAR", imageExt: "elf"},
	CompilerCLANG: {code: "CLANG", imageExt: "elf"},
}

// Code returns the compiler short code, e.g. "GCC".
func (c Compiler) Code() string { return compilerTable[c].code }

// ImageExt returns the file extension of the image the compiler produces.
func (c Compiler) ImageExt() string { return compilerTable[c].imageExt }

func (c Compiler) String() string { return c.Code() }

// Optimize is the optimization level axis.
type Optimize int

const (
	OptimizeDebug Optimize = iota
	OptimizeRelease

	numOptimizations
)

var optimizeTable = map[Optimize]string{
	OptimizeDebug:   "Debug",
	OptimizeRelease: "Release",
}

// Label returns the optimization name used in project and archive names.
func (o Optimize) Label() string { return optimizeTable[o] }

func (o Optimize) String() string { return o.Label() }

// Devices returns all devices in declaration order.
func Devices() []Device {
	out := make([]Device, 0, numDevices)
	for d := Device(0); d < numDevices; d++ {
		out = append(out, d)
	}
	return out
}

// Compilers returns all compilers in declaration order.
func Compilers() []Compiler {
	out := make([]Compiler, 0, numCompilers)
	for c := Compiler(0); c < numCompilers; c++ {
		out = append(out, c)
	}
	return out
}

// Optimizations returns all optimization levels in declaration order.
func Optimizations() []Optimize {
	out := make([]Optimize, 0, numOptimizations)
	for o := Optimize(0); o < numOptimizations; o++ {
		out = append(out, o)
	}
	return out
}

// ParseDevice resolves a device by label or code, ignoring case.
func ParseDevice(s string) (Device, error) {
	s = strings.TrimSpace(s)
	for _, d := range Devices() {
		if strings.EqualFold(s, d.Code()) || strings.EqualFold(s, d.Label()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("device %q: %w", s, ErrUnknownValue)
}

// ParseCompiler resolves a compiler by code, ignoring case.
func ParseCompiler(s string) (Compiler, error) {
	s = strings.TrimSpace(s)
	for _, c := range Compilers() {
		if strings.EqualFold(s, c.Code()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("compiler %q: %w", s, ErrUnknownValue)
}

// ParseOptimize resolves an optimization level by label, ignoring case.
func ParseOptimize(s string) (Optimize, error) {
	s = strings.TrimSpace(s)
	for _, o := range Optimizations() {
		if strings.EqualFold(s, o.Label()) {
			return o, nil
		}
	}
	return 0, fmt.Errorf("optimization %q: %w", s, ErrUnknownValue)
}

// every axis value must be present in every table keyed by its axis
func init() {
	for _, d := range Devices() {
		a, ok := deviceTable[d]
		if !ok || a.label == "" || a.code == "" || a.arch == "" || a.cpu == "" {
			panic(fmt.Sprintf("matrix: incomplete attributes for device %d", int(d)))
		}
	}
	for _, c := range Compilers() {
		a, ok := compilerTable[c]
		if !ok || a.code == "" || a.imageExt == "" {
			panic(fmt.Sprintf("matrix: incomplete attributes for compiler %d", int(c)))
		}
	}
	for _, o := range Optimizations() {
		if optimizeTable[o] == "" {
			panic(fmt.Sprintf("matrix: missing label for optimization %d", int(o)))
		}
	}
}
