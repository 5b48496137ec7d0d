// Package config loads the packager and output settings for the builder
// window from defaults, an optional YAML file and PYEXE_ environment
// variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

const (
	appDirName = "pyexe-builder"
	envPrefix  = "PYEXE"
)

// Config holds all settings for one application run.
type Config struct {
	Packager PackagerConfig `mapstructure:"packager"`
	Output   OutputConfig   `mapstructure:"output"`
	Log      LogConfig      `mapstructure:"log"`
}

// PackagerConfig describes how the external packaging tool is launched.
type PackagerConfig struct {
	// Python is the interpreter that runs the packager module.
	Python string `mapstructure:"python"`
	// Module is passed to the interpreter through -m.
	Module string `mapstructure:"module"`
	// Flags are the fixed options placed before --distpath.
	Flags []string `mapstructure:"flags"`
}

// OutputConfig holds the fixed destination of produced executables.
type OutputConfig struct {
	DistPath string `mapstructure:"dist_path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration. An explicit path must exist; without one the
// user config directory is searched and a missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(userConfigDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings a build cannot run without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Packager.Python) == "" {
		return errors.New("packager.python must not be empty")
	}
	if strings.TrimSpace(c.Packager.Module) == "" {
		return errors.New("packager.module must not be empty")
	}
	if strings.TrimSpace(c.Output.DistPath) == "" {
		return errors.New("output.dist_path must not be empty")
	}
	return nil
}

// UserConfigPath returns the file Load falls back to.
func UserConfigPath() string {
	return filepath.Join(userConfigDir(), "config.yaml")
}

func setDefaults(v *viper.Viper) {
	python, dist := platformDefaults(runtime.GOOS)

	v.SetDefault("packager.python", python)
	v.SetDefault("packager.module", "PyInstaller")
	v.SetDefault("packager.flags", []string{"--onefile", "--noconsole"})
	v.SetDefault("output.dist_path", dist)
	v.SetDefault("log.level", "info")
}

func platformDefaults(goos string) (python, dist string) {
	if goos == "windows" {
		return `C:\Program Files\Python\python.exe`, `C:\00\00_PyA\exe`
	}
	return "python3", "dist"
}

func userConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appDirName)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, appDirName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appDirName)
}
