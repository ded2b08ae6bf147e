package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ameistad/pagesprune/internal/constants"
	"github.com/zalando/go-keyring"
)

// Credentials identify the account and project a run operates on.
type Credentials struct {
	APIToken    string
	AccountID   string
	ProjectName string
}

type MissingEnvError struct {
	Names []string
}

func (e *MissingEnvError) Error() string {
	return fmt.Sprintf("missing environment variables: %s. Please make sure to set %s, %s, and %s",
		strings.Join(e.Names, ", "), constants.EnvVarAPIToken, constants.EnvVarAccountID, constants.EnvVarProjectName)
}

// LoadCredentials reads the API token, account ID and project name from the
// environment. All three are required. A token stored with StoreAPIToken is
// used when CLOUDFLARE_API_TOKEN is unset.
func LoadCredentials() (Credentials, error) {
	creds := Credentials{
		APIToken:    strings.TrimSpace(os.Getenv(constants.EnvVarAPIToken)),
		AccountID:   strings.TrimSpace(os.Getenv(constants.EnvVarAccountID)),
		ProjectName: strings.TrimSpace(os.Getenv(constants.EnvVarProjectName)),
	}

	if creds.APIToken == "" {
		creds.APIToken = tokenFromKeyring()
	}

	var missing []string
	if creds.APIToken == "" {
		missing = append(missing, constants.EnvVarAPIToken)
	}
	if creds.AccountID == "" {
		missing = append(missing, constants.EnvVarAccountID)
	}
	if creds.ProjectName == "" {
		missing = append(missing, constants.EnvVarProjectName)
	}
	if len(missing) > 0 {
		return Credentials{}, &MissingEnvError{Names: missing}
	}

	return creds, nil
}

func tokenFromKeyring() string {
	token, err := keyring.Get(constants.KeyringService, constants.KeyringTokenUser)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(token)
}

// StoreAPIToken saves the API token in the OS keyring.
func StoreAPIToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("API token cannot be empty")
	}
	if err := keyring.Set(constants.KeyringService, constants.KeyringTokenUser, token); err != nil {
		return fmt.Errorf("failed to store API token in keyring: %w", err)
	}
	return nil
}

// DeleteAPIToken removes a stored API token. Removing a token that was never
// stored is not an error.
func DeleteAPIToken() error {
	err := keyring.Delete(constants.KeyringService, constants.KeyringTokenUser)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete API token from keyring: %w", err)
	}
	return nil
}
