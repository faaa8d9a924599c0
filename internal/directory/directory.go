// Package directory is the account directory backing login. It stands in for
// the merchant business service: a seeded set of accounts with bcrypt-hashed
// secrets and their business application records.
package directory

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/paydeck/console/internal/models"
)

// Account pairs an identity with its credentials and application record.
type Account struct {
	SecretHash  []byte
	User        models.UserRecord
	Application models.ApplicationRecord
}

// Directory resolves identifiers to accounts.
type Directory struct {
	mu       sync.RWMutex
	accounts map[string]*Account
}

// New creates a directory seeded with the built-in demo accounts, one per
// application status so gating is demonstrable out of the box.
func New() *Directory {
	d := &Directory{accounts: make(map[string]*Account)}

	seeds := []Seed{
		{Identifier: "owner@acme.test", Secret: "changeit", FirstName: "Ada", LastName: "Okafor",
			Role: "owner", Verified: true, BusinessName: "Acme Trading", BusinessType: "retail",
			Status: models.StatusApproved,
			Steps:  models.VerificationSteps{EmailVerified: true, DocumentsUploaded: true, BankDetailsProvided: true, BackgroundCheckPassed: true}},
		{Identifier: "pending@acme.test", Secret: "changeit", FirstName: "Piotr", LastName: "Nowak",
			Role: "owner", Verified: true, BusinessName: "Nowak Imports", BusinessType: "wholesale",
			Status: models.StatusPending,
			Steps:  models.VerificationSteps{EmailVerified: true}},
		{Identifier: "review@acme.test", Secret: "changeit", FirstName: "Mei", LastName: "Tanaka",
			Role: "owner", Verified: true, BusinessName: "Tanaka Foods", BusinessType: "hospitality",
			Status: models.StatusUnderReview,
			Steps:  models.VerificationSteps{EmailVerified: true, DocumentsUploaded: true}},
		{Identifier: "incomplete@acme.test", Secret: "changeit", FirstName: "Sam", LastName: "Reyes",
			Role: "owner", Verified: false, BusinessName: "Reyes Media", BusinessType: "services",
			Status: models.StatusIncomplete,
			Steps:  models.VerificationSteps{EmailVerified: true}},
		{Identifier: "rejected@acme.test", Secret: "changeit", FirstName: "Lena", LastName: "Vogel",
			Role: "owner", Verified: true, BusinessName: "Vogel Exports", BusinessType: "logistics",
			Status: models.StatusRejected,
			Steps:  models.VerificationSteps{EmailVerified: true, DocumentsUploaded: true, BankDetailsProvided: true}},
	}

	for _, seed := range seeds {
		if err := d.addSeed(seed); err != nil {
			// Built-in seeds are static, a failure here is a programming error.
			log.Error().Err(err).Str("identifier", seed.Identifier).Msg("failed to seed account")
		}
	}

	return d
}

// Seed is the YAML shape for a directory account.
type Seed struct {
	Identifier   string                   `yaml:"identifier"`
	Secret       string                   `yaml:"secret"`
	FirstName    string                   `yaml:"first_name"`
	LastName     string                   `yaml:"last_name"`
	Role         string                   `yaml:"role"`
	Verified     bool                     `yaml:"verified"`
	BusinessName string                   `yaml:"business_name"`
	BusinessType string                   `yaml:"business_type"`
	Status       models.ApplicationStatus `yaml:"status"`
	Steps        models.VerificationSteps `yaml:"verification_steps"`
}

// LoadSeeds replaces the built-in accounts with accounts from a YAML file.
func (d *Directory) LoadSeeds(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	var seeds []Seed
	if err := yaml.Unmarshal(data, &seeds); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	d.mu.Lock()
	d.accounts = make(map[string]*Account)
	d.mu.Unlock()

	for _, seed := range seeds {
		if err := d.addSeed(seed); err != nil {
			return err
		}
	}

	log.Info().Int("accounts", len(seeds)).Str("path", path).Msg("directory seeded from file")

	return nil
}

func (d *Directory) addSeed(seed Seed) error {
	if seed.Identifier == "" || seed.Secret == "" {
		return fmt.Errorf("seed account requires identifier and secret")
	}
	if !seed.Status.Valid() {
		return fmt.Errorf("seed account %s has unknown status %q", seed.Identifier, seed.Status)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seed.Secret), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash secret for %s: %w", seed.Identifier, err)
	}

	// IDs are derived from the identifier so that independently-initialized
	// processes sharing one state directory agree on them. A session restored
	// from the durable store must resolve to the same application record.
	businessID := accountID("business", seed.Identifier)
	account := &Account{
		SecretHash: hash,
		User: models.UserRecord{
			ID:         accountID("user", seed.Identifier),
			Email:      seed.Identifier,
			FirstName:  seed.FirstName,
			LastName:   seed.LastName,
			Role:       seed.Role,
			IsVerified: seed.Verified,
			BusinessID: &businessID,
		},
		Application: models.ApplicationRecord{
			ID:           accountID("application", seed.Identifier),
			Status:       seed.Status,
			BusinessName: seed.BusinessName,
			BusinessType: seed.BusinessType,
			Steps:        seed.Steps,
		},
	}

	d.mu.Lock()
	d.accounts[seed.Identifier] = account
	d.mu.Unlock()

	return nil
}

// Authenticate verifies the identifier/secret pair. Returns copies of the
// user and application records on success, or ok=false for unknown
// identifiers and wrong secrets alike.
func (d *Directory) Authenticate(ctx context.Context, identifier, secret string) (*models.UserRecord, *models.ApplicationRecord, bool) {
	d.mu.RLock()
	account, exists := d.accounts[identifier]
	d.mu.RUnlock()

	if !exists {
		// Compare against a throwaway hash so unknown identifiers take the
		// same time as wrong secrets.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(secret))
		return nil, nil, false
	}

	if err := bcrypt.CompareHashAndPassword(account.SecretHash, []byte(secret)); err != nil {
		log.Debug().Str("identifier", identifier).Msg("authentication failed")
		return nil, nil, false
	}

	user := account.User
	app := account.Application
	return &user, &app, true
}

// ApplicationFor re-derives the application record for a user, used by
// status refresh and session restore. Returns nil for unknown users.
func (d *Directory) ApplicationFor(userID uuid.UUID) *models.ApplicationRecord {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, account := range d.accounts {
		if account.User.ID == userID {
			app := account.Application
			return &app
		}
	}
	return nil
}

func accountID(kind, identifier string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("console/"+kind+"/"+identifier))
}

var dummyHash = func() []byte {
	hash, _ := bcrypt.GenerateFromPassword([]byte("timing-equalizer"), bcrypt.MinCost)
	return hash
}()
