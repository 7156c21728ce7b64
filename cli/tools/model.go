package tools

// model.go builds the Arm model (simulator) invocation.

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/embedmatrix/exmatrix/matrix"
)

// ErrUnsupportedDevice is returned when a device has no simulator mapping.
var ErrUnsupportedDevice = errors.New("device not supported for execution")

// DefaultSimLimit is the default simulation step limit in seconds.
const DefaultSimLimit = 200

// Model is a simulator executable plus fixed extra arguments.
type Model struct {
	Executable string
	Args       []string
}

// Models maps devices to their simulator.
type Models map[matrix.Device]Model

// DefaultModels returns the Arm Virtual Hardware models for each device.
func DefaultModels() Models {
	return Models{
		matrix.DeviceCM3:    {Executable: "VHT_MPS2_Cortex-M3"},
		matrix.DeviceCM55:   {Executable: "VHT_MPS2_Cortex-M55"},
		matrix.DeviceSSE300: {Executable: "VHT_MPS3_Corstone_SSE-300"},
	}
}

// Lookup returns the simulator for a device.
func (m Models) Lookup(d matrix.Device) (Model, error) {
	model, ok := m[d]
	if !ok || model.Executable == "" {
		return Model{}, fmt.Errorf("%s: %w", d.Code(), ErrUnsupportedDevice)
	}
	return model, nil
}

// ModelOptions describes one simulation run.
type ModelOptions struct {
	Config      matrix.Configuration
	SimLimit    int    // simulation limit passed to --simlimit
	ModelConfig string // model configuration file
	Image       string // image to load
}

// BuildModelArgs returns the simulator invocation for the configured device.
func (m Models) BuildModelArgs(opts ModelOptions) ([]string, error) {
	model, err := m.Lookup(opts.Config.Device)
	if err != nil {
		return nil, err
	}

	limit := opts.SimLimit
	if limit <= 0 {
		limit = DefaultSimLimit
	}

	args := []string{model.Executable, "-q", "--simlimit", strconv.Itoa(limit), "-f", opts.ModelConfig}
	args = append(args, model.Args...)
	args = append(args, "-a", opts.Image)
	return args, nil
}
