// Package credstore persists session credentials on the local filesystem.
//
// The store holds four independently-keyed durable entries: the session
// token, the serialized user record, the "remember" flag and an optional
// expiration timestamp. All four are written together on login and cleared
// together on logout. Every process pointed at the same state directory
// observes the same entries, which is what the reconciliation poller relies
// on to converge independently-initialized engine instances.
package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/paydeck/console/internal/models"
)

// Entry file names inside the state directory.
const (
	tokenFile    = "token"
	userFile     = "user.json"
	rememberFile = "remember"
	expiresFile  = "expires_at"
)

// Persisted is the assembled contents of the durable entries.
type Persisted struct {
	Token     string
	User      *models.UserRecord
	Remember  bool
	ExpiresAt *time.Time
}

// FileStore manages credential persistence on the local filesystem.
type FileStore struct {
	baseDir string

	// now is replaceable in tests to exercise expiry handling.
	now func() time.Time
}

// NewFileStore creates a credential store rooted at baseDir.
// If baseDir is empty, uses ~/.console/session/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		baseDir = filepath.Join(home, ".console", "session")
	}

	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	log.Debug().Str("baseDir", baseDir).Msg("credential store initialized")

	return &FileStore{baseDir: baseDir, now: time.Now}, nil
}

// BaseDir returns the state directory backing the store.
func (s *FileStore) BaseDir() string {
	return s.baseDir
}

// Write persists all four entries. The caller supplies expiresAt only when
// remember is set; without it the session lives until explicitly cleared.
func (s *FileStore) Write(token string, user *models.UserRecord, remember bool, expiresAt *time.Time) error {
	if token == "" || user == nil {
		return errors.New("token and user must be written together")
	}

	userData, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user record: %w", err)
	}

	expires := ""
	if expiresAt != nil {
		expires = expiresAt.UTC().Format(time.RFC3339)
	}

	// The token entry is written last so a concurrent reader that observes
	// the token also observes the entries written before it.
	if err := s.writeEntry(userFile, userData); err != nil {
		return err
	}
	if err := s.writeEntry(rememberFile, []byte(strconv.FormatBool(remember))); err != nil {
		return err
	}
	if expires != "" {
		if err := s.writeEntry(expiresFile, []byte(expires)); err != nil {
			return err
		}
	} else if err := s.removeEntry(expiresFile); err != nil {
		return err
	}
	if err := s.writeEntry(tokenFile, []byte(token)); err != nil {
		return err
	}

	log.Debug().Str("user", user.Email).Bool("remember", remember).Msg("credentials persisted")

	return nil
}

// Read assembles the persisted session. It returns nil when no session is
// stored, when the stored session has expired, or when the entries are
// corrupted. Corruption self-heals: the entries are cleared and the read
// reports empty rather than surfacing an error to the caller.
func (s *FileStore) Read() (*Persisted, error) {
	token, tokenOK, err := s.readEntry(tokenFile)
	if err != nil {
		return nil, err
	}
	userData, userOK, err := s.readEntry(userFile)
	if err != nil {
		return nil, err
	}
	rememberData, rememberOK, err := s.readEntry(rememberFile)
	if err != nil {
		return nil, err
	}
	expiresData, expiresOK, err := s.readEntry(expiresFile)
	if err != nil {
		return nil, err
	}

	if !tokenOK && !userOK && !rememberOK && !expiresOK {
		return nil, nil
	}

	// A subset of entries without the others is a corrupted session.
	if !tokenOK || !userOK || !rememberOK {
		log.Warn().Msg("partial credential entries found, clearing store")
		return nil, s.Clear()
	}

	var user models.UserRecord
	if err := json.Unmarshal(userData, &user); err != nil {
		log.Warn().Err(err).Msg("stored user record is unparseable, clearing store")
		return nil, s.Clear()
	}

	remember, err := strconv.ParseBool(string(rememberData))
	if err != nil {
		log.Warn().Err(err).Msg("stored remember flag is unparseable, clearing store")
		return nil, s.Clear()
	}

	var expiresAt *time.Time
	if remember {
		if !expiresOK {
			log.Warn().Msg("remembered session has no expiration marker, clearing store")
			return nil, s.Clear()
		}
		parsed, err := time.Parse(time.RFC3339, string(expiresData))
		if err != nil {
			log.Warn().Err(err).Msg("stored expiration marker is unparseable, clearing store")
			return nil, s.Clear()
		}
		// An expiration in the past means the session is absent, not stale.
		if s.now().After(parsed) {
			log.Debug().Time("expiresAt", parsed).Msg("stored session expired, clearing store")
			return nil, s.Clear()
		}
		expiresAt = &parsed
	}

	return &Persisted{
		Token:     string(token),
		User:      &user,
		Remember:  remember,
		ExpiresAt: expiresAt,
	}, nil
}

// Clear removes all entries. Safe to call when nothing is stored.
func (s *FileStore) Clear() error {
	for _, name := range []string{tokenFile, userFile, rememberFile, expiresFile} {
		if err := s.removeEntry(name); err != nil {
			return err
		}
	}
	return nil
}

func (s *FileStore) readEntry(name string) ([]byte, bool, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, true, nil
}

// writeEntry writes an entry atomically via a temp file and rename.
func (s *FileStore) writeEntry(name string, data []byte) error {
	path := filepath.Join(s.baseDir, name)
	tempPath := path + ".tmp"

	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save %s: %w", name, err)
	}

	return nil
}

func (s *FileStore) removeEntry(name string) error {
	if err := os.Remove(filepath.Join(s.baseDir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", name, err)
	}
	return nil
}
