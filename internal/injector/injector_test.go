package injector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeAppWithDefaults(t *testing.T) {
	app, err := InitializeApp("")
	require.NoError(t, err)

	assert.Equal(t, 60, app.Config.Match.TickRate)
	assert.NotEmpty(t, app.Match.ID())
	assert.NotNil(t, app.Server)
	assert.NotNil(t, app.Bus)
	assert.False(t, app.Server.IsRunning())
}

func TestInitializeAppFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pong.yaml")
	require.NoError(t, os.WriteFile(path, []byte("match:\n  max_score: 3\nlog:\n  level: warn\n"), 0o600))

	app, err := InitializeApp(ConfigPath(path))
	require.NoError(t, err)
	assert.Equal(t, 3, app.Config.Match.MaxScore)
	assert.Equal(t, "warn", app.Logger.GetLevel().String())
}

func TestInitializeAppRejectsBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pong.yaml")
	require.NoError(t, os.WriteFile(path, []byte("match:\n  tick_rate: -1\n"), 0o600))

	_, err := InitializeApp(ConfigPath(path))
	require.Error(t, err)
}
