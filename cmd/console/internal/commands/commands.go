package commands

import (
	"fmt"
	"time"

	"github.com/paydeck/console/internal/credstore"
	"github.com/paydeck/console/internal/directory"
	"github.com/paydeck/console/internal/registry"
	"github.com/paydeck/console/internal/session"
)

type Globals struct {
	Debug   bool
	Version string
}

// StateFlags are shared by every command that touches session state.
type StateFlags struct {
	StateDir string `help:"session state directory" default:"" env:"CONSOLE_STATE_DIR"`
	Seeds    string `help:"YAML file of directory accounts" default:"" env:"CONSOLE_SEEDS"`
}

// engine bundles the wired session components for a command invocation.
type engine struct {
	store      *credstore.FileStore
	registry   *registry.Registry
	directory  *directory.Directory
	controller *session.Controller
	poller     *session.Poller
}

// buildEngine wires the session engine against the shared state directory.
// Every process gets its own registry; the credential store and signing
// secret are what it shares with other processes.
func (s *StateFlags) buildEngine(nav session.Navigator, pollInterval time.Duration) (*engine, error) {
	store, err := credstore.NewFileStore(s.StateDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open credential store: %w", err)
	}

	secret, err := session.EnsureSecret(store.BaseDir())
	if err != nil {
		return nil, fmt.Errorf("failed to load signing secret: %w", err)
	}

	dir := directory.New()
	if s.Seeds != "" {
		if err := dir.LoadSeeds(s.Seeds); err != nil {
			return nil, err
		}
	}

	reg := registry.Default()

	return &engine{
		store:      store,
		registry:   reg,
		directory:  dir,
		controller: session.NewController(store, reg, dir, secret, nav),
		poller:     session.NewPoller(store, reg, dir, secret, pollInterval),
	}, nil
}
