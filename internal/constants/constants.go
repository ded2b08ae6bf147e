package constants

import (
	"os"
	"time"
)

const (
	Version = "0.1.0"

	DefaultAPIBaseURL  = "https://api.cloudflare.com/client/v4"
	DefaultHTTPTimeout = 30 * time.Second
	DeploymentsPerPage = 20

	// Environment variables
	EnvVarAPIToken    = "CLOUDFLARE_API_TOKEN"
	EnvVarAccountID   = "CLOUDFLARE_ACCOUNT_ID"
	EnvVarProjectName = "CLOUDFLARE_PROJECT_NAME"
	EnvVarConfigDir   = "PAGESPRUNE_CONFIG_DIR"

	// OS keyring entry holding the API token when the environment does not
	KeyringService   = "pagesprune"
	KeyringTokenUser = "cloudflare-api-token"

	// File names
	ConfigEnvFileName  = ".env"
	ConfigFileBaseName = "pagesprune"
)

// File and directory permissions
const (
	ModeFileDefault os.FileMode = 0o644 // non-secret configs
	ModeDirPrivate  os.FileMode = 0o700 // private dirs
)
