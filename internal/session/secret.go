package session

import (
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

const secretFile = "secret.key"

// EnsureSecret loads the token signing secret from the state directory,
// generating one on first use. Processes sharing the directory share the
// secret, so a token minted by one verifies in another.
func EnsureSecret(dir string) ([]byte, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	path := filepath.Join(dir, secretFile)

	secret, err := os.ReadFile(path)
	if err == nil {
		if len(secret) < 32 {
			return nil, fmt.Errorf("signing secret at %s is too short", path)
		}
		return secret, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read signing secret: %w", err)
	}

	secret = make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to generate signing secret: %w", err)
	}

	// O_EXCL so two processes racing on first use agree on a single secret.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		if os.IsExist(err) {
			return os.ReadFile(path)
		}
		return nil, fmt.Errorf("failed to write signing secret: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(secret); err != nil {
		return nil, fmt.Errorf("failed to write signing secret: %w", err)
	}

	log.Debug().Str("path", path).Msg("generated token signing secret")

	return secret, nil
}
