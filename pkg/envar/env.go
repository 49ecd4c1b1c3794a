package envar

import (
	"os"
	"path/filepath"
)

const (
	EPHEMFETCH_HOME = "EPHEMFETCH_HOME"
	// EnvPrefix is the prefix of every configuration variable, see pkg/config
	EnvPrefix = "EPHEMFETCH_"
)

func UserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// EphemFetchHome is $EPHEMFETCH_HOME, or ~/.ephemfetch when unset
func EphemFetchHome() string {
	home := os.Getenv(EPHEMFETCH_HOME)
	if home == "" {
		return filepath.Join(UserHome(), ".ephemfetch")
	}
	return home
}

// DefaultConfigFile is the config file read when --config is not given
func DefaultConfigFile() string {
	return filepath.Join(EphemFetchHome(), "config.yaml")
}
