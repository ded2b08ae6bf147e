package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ameistad/pagesprune/internal/constants"
)

// EnsureDir creates the directory and any necessary parents.
func EnsureDir(dirPath string) error {
	return os.MkdirAll(dirPath, constants.ModeDirPrivate)
}

// ConfigDir returns the pagesprune configuration directory. If
// PAGESPRUNE_CONFIG_DIR is set, it will use that instead. The directory is
// not created.
func ConfigDir() (string, error) {
	if envPath, ok := os.LookupEnv(constants.EnvVarConfigDir); ok && envPath != "" {
		if strings.HasPrefix(envPath, "~/") {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			envPath = filepath.Join(home, envPath[2:])
		}
		return envPath, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "pagesprune"), nil
}
