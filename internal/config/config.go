package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvPrefix = "SCAFFALE"

	KeyDatabase      = "database"
	KeyLogLevel      = "log_level"
	KeyLogFile       = "log_file"
	KeyBusyTimeoutMS = "busy_timeout_ms"
	KeyPathSeparator = "path_separator"

	DefaultLogLevel      = "info"
	DefaultBusyTimeoutMS = 5000
	DefaultPathSeparator = " › "
)

// Config is the resolved runtime configuration
type Config struct {
	Database      string
	LogLevel      string
	LogFile       string
	BusyTimeout   time.Duration
	PathSeparator string
}

// New returns a viper instance with defaults, SCAFFALE_* env vars and the
// optional $XDG_CONFIG_HOME/scaffale/config.yaml applied.
func New() (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(KeyDatabase, DefaultDatabasePath())
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyBusyTimeoutMS, DefaultBusyTimeoutMS)
	v.SetDefault(KeyPathSeparator, DefaultPathSeparator)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir())
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}
	return v, nil
}

// Load resolves a Config from v
func Load(v *viper.Viper) Config {
	timeout := v.GetInt(KeyBusyTimeoutMS)
	if timeout <= 0 {
		timeout = DefaultBusyTimeoutMS
	}
	sep := v.GetString(KeyPathSeparator)
	if sep == "" {
		sep = DefaultPathSeparator
	}
	return Config{
		Database:      ExpandHome(v.GetString(KeyDatabase)),
		LogLevel:      v.GetString(KeyLogLevel),
		LogFile:       ExpandHome(v.GetString(KeyLogFile)),
		BusyTimeout:   time.Duration(timeout) * time.Millisecond,
		PathSeparator: sep,
	}
}

// DefaultDatabasePath returns $XDG_DATA_HOME/scaffale/scaffale.db
func DefaultDatabasePath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "scaffale", "scaffale.db")
}

func configDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "scaffale")
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
