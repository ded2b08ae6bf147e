package config

import (
	"path/filepath"

	"github.com/ameistad/pagesprune/internal/constants"
	"github.com/joho/godotenv"
)

// LoadEnvFiles loads .env from the working directory and then from the
// config directory. Variables already set in the environment are never
// overwritten, and missing files are ignored.
func LoadEnvFiles() {
	_ = godotenv.Load(constants.ConfigEnvFileName)

	if configDir, err := ConfigDir(); err == nil {
		_ = godotenv.Load(filepath.Join(configDir, constants.ConfigEnvFileName))
	}
}
