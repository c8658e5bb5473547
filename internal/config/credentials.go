package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrMissingCredential is wrapped by every credential validation failure.
var ErrMissingCredential = errors.New("missing required credential")

// Credentials are the secrets and target identifiers a run needs.
type Credentials struct {
	NewsAPIKey string

	ServiceAccountEmail string
	// PrivateKey is the PEM key with literal "\n" sequences already expanded.
	PrivateKey string

	// DriveFolderID is optional; a new deck is moved there when set.
	DriveFolderID string
	// PresentationID is optional; when set the existing deck is rebuilt in place.
	PresentationID string
}

// LoadCredentials reads the credentials from the environment and reports
// every missing required variable in one error.
func LoadCredentials() (*Credentials, error) {
	c := &Credentials{
		NewsAPIKey:          strings.TrimSpace(os.Getenv("NEWSAPI_KEY")),
		ServiceAccountEmail: strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_EMAIL")),
		PrivateKey:          NormalizePrivateKey(os.Getenv("GOOGLE_PRIVATE_KEY")),
		DriveFolderID:       strings.TrimSpace(os.Getenv("GOOGLE_DRIVE_FOLDER_ID")),
		PresentationID:      strings.TrimSpace(os.Getenv("GOOGLE_SLIDES_PRESENTATION_ID")),
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that all required fields are present.
func (c *Credentials) Validate() error {
	var missing []string
	if c.NewsAPIKey == "" {
		missing = append(missing, "NEWSAPI_KEY")
	}
	if c.ServiceAccountEmail == "" {
		missing = append(missing, "GOOGLE_SERVICE_ACCOUNT_EMAIL")
	}
	if strings.TrimSpace(c.PrivateKey) == "" {
		missing = append(missing, "GOOGLE_PRIVATE_KEY")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredential, strings.Join(missing, ", "))
	}
	return nil
}

// NormalizePrivateKey expands escaped newlines, which is how PEM keys usually
// survive being stored in a single-line environment variable.
func NormalizePrivateKey(key string) string {
	return strings.ReplaceAll(key, `\n`, "\n")
}

// RequireEnv returns the trimmed value of key or an ErrMissingCredential error.
func RequireEnv(key string) (string, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingCredential, key)
	}
	return v, nil
}
