// Package config loads the exmatrix TOML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/embedmatrix/exmatrix/action"
	"github.com/embedmatrix/exmatrix/cli/tools"
	"github.com/embedmatrix/exmatrix/matrix"
	"github.com/embedmatrix/exmatrix/naming"
)

// DefaultFile is read when no config path is given. It is optional.
const DefaultFile = "exmatrix.toml"

// Extractors.
const (
	ExtractorUnzip  = "unzip"
	ExtractorNative = "native"
)

// Config is the resolved configuration.
type Config struct {
	Example          string
	Solution         string
	QualifyCompiler  bool
	SimLimit         int
	DeviceDir        string
	SettingsFile     string
	SettingsTemplate string
	EventLog         string
	Extractor        string
	HistoryDir       string

	Tools  tools.Toolset
	Models tools.Models
}

type fileConfig struct {
	Example          string               `toml:"example"`
	Solution         string               `toml:"solution"`
	QualifyCompiler  bool                 `toml:"qualify_compiler"`
	SimLimit         int                  `toml:"sim_limit"`
	DeviceDir        string               `toml:"device_dir"`
	SettingsFile     string               `toml:"settings_file"`
	SettingsTemplate string               `toml:"settings_template"`
	EventLog         string               `toml:"event_log"`
	Extractor        string               `toml:"extractor"`
	HistoryDir       string               `toml:"history_dir"`
	Tools            toolsConfig          `toml:"tools"`
	Models           map[string]modelFile `toml:"models"`
}

type toolsConfig struct {
	Cbuild    string `toml:"cbuild"`
	Csolution string `toml:"csolution"`
	Armclang  string `toml:"armclang"`
	GCC       string `toml:"gcc"`
	IAR       string `toml:"iar"`
	EventList string `toml:"eventlist"`
	Unzip     string `toml:"unzip"`
}

type modelFile struct {
	Executable string   `toml:"executable"`
	Args       []string `toml:"args"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Example:          naming.DefaultExample,
		Solution:         naming.DefaultExample + ".csolution.yml",
		QualifyCompiler:  true,
		SimLimit:         tools.DefaultSimLimit,
		DeviceDir:        filepath.Join("RTE", "Device"),
		SettingsFile:     "cdefault.yml",
		SettingsTemplate: "cdefault_{compiler}.yml",
		EventLog:         tools.DefaultEventLog,
		Extractor:        ExtractorUnzip,
		HistoryDir:       ".exmatrix",
		Tools:            tools.DefaultToolset(),
		Models:           tools.DefaultModels(),
	}
}

// Load reads path over the defaults. An empty path reads DefaultFile from the
// working directory if it exists; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("config parse failed (%s): unknown keys %s", path, strings.Join(keys, ", "))
	}

	if meta.IsDefined("example") {
		cfg.Example = strings.TrimSpace(raw.Example)
	}
	if meta.IsDefined("solution") {
		cfg.Solution = strings.TrimSpace(raw.Solution)
	}
	if meta.IsDefined("qualify_compiler") {
		cfg.QualifyCompiler = raw.QualifyCompiler
	}
	if meta.IsDefined("sim_limit") {
		cfg.SimLimit = raw.SimLimit
	}
	if meta.IsDefined("device_dir") {
		cfg.DeviceDir = strings.TrimSpace(raw.DeviceDir)
	}
	if meta.IsDefined("settings_file") {
		cfg.SettingsFile = strings.TrimSpace(raw.SettingsFile)
	}
	if meta.IsDefined("settings_template") {
		// empty disables the settings copy
		cfg.SettingsTemplate = strings.TrimSpace(raw.SettingsTemplate)
	}
	if meta.IsDefined("event_log") {
		cfg.EventLog = strings.TrimSpace(raw.EventLog)
	}
	if meta.IsDefined("extractor") {
		cfg.Extractor = strings.ToLower(strings.TrimSpace(raw.Extractor))
	}
	if meta.IsDefined("history_dir") {
		cfg.HistoryDir = strings.TrimSpace(raw.HistoryDir)
	}

	overlayTools(&cfg.Tools, raw.Tools)

	if err := overlayModels(cfg.Models, raw.Models); err != nil {
		return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func overlayTools(ts *tools.Toolset, raw toolsConfig) {
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&ts.Cbuild, raw.Cbuild)
	set(&ts.Csolution, raw.Csolution)
	set(&ts.Armclang, raw.Armclang)
	set(&ts.GCC, raw.GCC)
	set(&ts.IAR, raw.IAR)
	set(&ts.EventList, raw.EventList)
	set(&ts.Unzip, raw.Unzip)
}

func overlayModels(models tools.Models, raw map[string]modelFile) error {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		d, err := matrix.ParseDevice(name)
		if err != nil {
			return fmt.Errorf("models.%s: %w", name, err)
		}
		m := models[d]
		override := raw[name]
		if exe := strings.TrimSpace(override.Executable); exe != "" {
			m.Executable = exe
		}
		if override.Args != nil {
			m.Args = override.Args
		}
		models[d] = m
	}
	return nil
}

// Validate checks a resolved configuration.
func Validate(cfg Config) error {
	if cfg.Example == "" {
		return fmt.Errorf("config missing example")
	}
	if cfg.Solution == "" {
		return fmt.Errorf("config missing solution")
	}
	if cfg.SimLimit <= 0 {
		return fmt.Errorf("sim_limit must be positive, got %d", cfg.SimLimit)
	}
	if cfg.SettingsTemplate != "" && cfg.SettingsFile == "" {
		return fmt.Errorf("settings_file is required when settings_template is set")
	}
	if cfg.EventLog == "" {
		return fmt.Errorf("config missing event_log")
	}
	switch cfg.Extractor {
	case ExtractorUnzip, ExtractorNative:
	default:
		return fmt.Errorf("extractor must be %q or %q, got %q", ExtractorUnzip, ExtractorNative, cfg.Extractor)
	}
	for _, d := range matrix.Devices() {
		if cfg.Models[d].Executable == "" {
			return fmt.Errorf("models.%s: executable is required", d.Code())
		}
	}
	return nil
}

// Names returns the naming resolver for the configuration.
func (c Config) Names() *naming.Resolver {
	return naming.New(c.Example, c.QualifyCompiler)
}

// ActionOptions returns the action options rooted at workDir.
func (c Config) ActionOptions(workDir string) action.Options {
	return action.Options{
		WorkDir:          workDir,
		Solution:         c.Solution,
		DeviceDir:        c.DeviceDir,
		SettingsTemplate: c.SettingsTemplate,
		SettingsFile:     c.SettingsFile,
		ArchiveDir:       workDir,
		SimLimit:         c.SimLimit,
		EventLog:         c.EventLog,
		NativeExtract:    c.Extractor == ExtractorNative,
	}
}
