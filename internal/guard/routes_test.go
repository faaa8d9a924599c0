package guard

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRouteTable(t *testing.T) {
	table := DefaultRouteTable()

	assert.Equal(t, ClassPublic, table.Classify(LoginPath))
	assert.Equal(t, ClassPublic, table.Classify(RegisterPath))
	assert.Equal(t, ClassPublic, table.Classify(ForgotPasswordPath))
	assert.Equal(t, ClassProtected, table.Classify(DashboardPath))
	assert.Equal(t, ClassProtected, table.Classify(SettingsPath))

	// Classification is total: unregistered paths fail closed.
	assert.Equal(t, ClassProtected, table.Classify("/brand-new-page"))

	assert.Len(t, table.Paths(), 8)
}

func TestLoadOverrides(t *testing.T) {
	t.Run("merges new classifications", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "routes.yaml")
		require.NoError(t, os.WriteFile(path, []byte("public:\n  - /pricing\nprotected:\n  - /reports\n"), 0600))

		table := DefaultRouteTable()
		require.NoError(t, table.LoadOverrides(path))

		assert.Equal(t, ClassPublic, table.Classify("/pricing"))
		assert.Equal(t, ClassProtected, table.Classify("/reports"))
		assert.Equal(t, ClassPublic, table.Classify(LoginPath))
	})

	t.Run("rejects a path tagged with both classes", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "routes.yaml")
		require.NoError(t, os.WriteFile(path, []byte("public:\n  - /pricing\nprotected:\n  - /pricing\n"), 0600))

		table := DefaultRouteTable()
		require.Error(t, table.LoadOverrides(path))
	})
}
