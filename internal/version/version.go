package version

import "github.com/ameistad/pagesprune/internal/constants"

// Set at build time with -ldflags "-X github.com/ameistad/pagesprune/internal/version.version=...".
var version = ""

func GetVersion() string {
	if version != "" {
		return version
	}
	return constants.Version
}
