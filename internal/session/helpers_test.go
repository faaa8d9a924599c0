package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/paydeck/console/internal/credstore"
	"github.com/paydeck/console/internal/directory"
	"github.com/paydeck/console/internal/registry"
)

// One directory for the whole test binary; seeding hashes secrets.
var testDirectory = directory.New()

type recordingNavigator struct {
	mu    sync.Mutex
	paths []string
}

func (n *recordingNavigator) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *recordingNavigator) Paths() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}

type testEngine struct {
	store      *credstore.FileStore
	registry   *registry.Registry
	controller *Controller
	poller     *Poller
	nav        *recordingNavigator
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()
	return newTestEngineAt(t, t.TempDir())
}

// newTestEngineAt builds an engine over a shared state directory. Two
// engines on one directory model two processes sharing durable storage.
func newTestEngineAt(t *testing.T, dir string) *testEngine {
	t.Helper()

	store, err := credstore.NewFileStore(dir)
	require.NoError(t, err)

	reg := registry.New()
	nav := &recordingNavigator{}

	return &testEngine{
		store:      store,
		registry:   reg,
		nav:        nav,
		controller: NewController(store, reg, testDirectory, testSecret, nav),
		poller:     NewPoller(store, reg, testDirectory, testSecret, 50*time.Millisecond),
	}
}
