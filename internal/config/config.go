// Package config resolves runtime settings from defaults, an optional config
// file, TODO_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Backends, id schemes and themes accepted by Validate.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"

	IDsMillis = "millis"
	IDsUUID   = "uuid"
)

var themes = []string{"classic", "neon", "mono"}

type Config struct {
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	IDs     string        `mapstructure:"ids" yaml:"ids"`
	Theme   string        `mapstructure:"theme" yaml:"theme"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

type StorageConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend"`
	// Path is the data file. Empty picks todos.json or todos.db in the
	// working directory depending on Backend.
	Path string `mapstructure:"path" yaml:"path"`
	Key  string `mapstructure:"key" yaml:"key"`
}

type LogConfig struct {
	// Level is debug, info, warn, error or off.
	Level string `mapstructure:"level" yaml:"level"`
	// File receives JSON log lines. "-" means stderr.
	File string `mapstructure:"file" yaml:"file"`
}

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("storage.backend", BackendFile)
	v.SetDefault("storage.path", "")
	v.SetDefault("storage.key", "@todos")
	v.SetDefault("ids", IDsMillis)
	v.SetDefault("theme", "classic")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", defaultLogFile())
}

// Load reads the config file (explicit path, or todo.yaml discovered in the
// working directory and the user config directory), applies environment
// overrides and returns the validated result. A missing discovered file is
// not an error; a missing explicit file is.
func Load(v *viper.Viper, file string) (Config, error) {
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("todo")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "todo"))
		}
	}

	v.SetEnvPrefix("TODO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects values no component understands.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("config: unknown storage backend %q (want file, sqlite or memory)", c.Storage.Backend)
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		return errors.New("config: storage key is empty")
	}
	switch c.IDs {
	case IDsMillis, IDsUUID:
	default:
		return fmt.Errorf("config: unknown id scheme %q (want millis or uuid)", c.IDs)
	}
	if !contains(themes, strings.ToLower(c.Theme)) {
		return fmt.Errorf("config: unknown theme %q (want %s)", c.Theme, strings.Join(themes, ", "))
	}
	return nil
}

// DataPath returns the storage location with the per-backend default applied.
func (s StorageConfig) DataPath() string {
	if s.Path != "" {
		return s.Path
	}
	if s.Backend == BackendSQLite {
		return "todos.db"
	}
	return "todos.json"
}

func defaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "todo", "todo.log")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
