package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "nerdpad", cfg.Name)
	assert.Equal(t, "https://emkc.org/api/v2/piston/execute", cfg.Execution.RemoteURL)
	assert.Equal(t, 10000, cfg.Execution.CompileTimeoutMS)
	assert.Equal(t, 3000, cfg.Execution.RunTimeoutMS)
	assert.Equal(t, int64(-1), cfg.Execution.CompileMemoryLimit)
	assert.Equal(t, "workspace.db", cfg.Storage.WorkspaceDB)
	assert.False(t, cfg.Logging.Debug)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
execution:
  remote_url: "http://localhost:2000/api/v2/execute"
  run_timeout_ms: 9000
  js_timeout: "2s"
logging:
  debug: true
  level: debug
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:2000/api/v2/execute", cfg.Execution.RemoteURL)
	assert.Equal(t, 9000, cfg.Execution.RunTimeoutMS)
	assert.Equal(t, 2*time.Second, cfg.JSTimeoutDuration())
	assert.True(t, cfg.Logging.Debug)

	// Fields the file omits keep their defaults.
	assert.Equal(t, 10000, cfg.Execution.CompileTimeoutMS)
	assert.Equal(t, "history.db", cfg.Storage.HistoryDB)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("execution: [not a map"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("NERDPAD_EXEC_URL", "http://exec.internal/run")
	t.Setenv("NERDPAD_TEMPLATES_URL", "http://templates.internal")
	t.Setenv("NERDPAD_DEBUG", "1")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://exec.internal/run", cfg.Execution.RemoteURL)
	assert.Equal(t, "http://templates.internal", cfg.Templates.RemoteURL)
	assert.True(t, cfg.Logging.Debug)
}

func TestEnvOverridesBeatFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
execution:
  remote_url: "http://from-file/execute"
`), 0644))
	t.Setenv("NERDPAD_EXEC_URL", "http://from-env/execute")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://from-env/execute", cfg.Execution.RemoteURL)
}

func TestResolveStorage(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.HistoryDB = "/var/lib/nerdpad/history.db"
	cfg.ResolveStorage("/home/u/.nerdpad")

	assert.Equal(t, filepath.Join("/home/u/.nerdpad", "workspace.db"), cfg.Storage.WorkspaceDB)
	// Absolute paths are left alone.
	assert.Equal(t, "/var/lib/nerdpad/history.db", cfg.Storage.HistoryDB)
}

func TestTimeoutDurations(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 5*time.Second, cfg.JSTimeoutDuration())
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeoutDuration())
	assert.Equal(t, 5*time.Second, cfg.TemplateTimeoutDuration())

	// Malformed and non-positive values fall back rather than erroring.
	cfg.Execution.JSTimeout = "soon"
	cfg.Execution.HTTPTimeout = "-3s"
	cfg.Templates.HTTPTimeout = ""
	assert.Equal(t, 5*time.Second, cfg.JSTimeoutDuration())
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeoutDuration())
	assert.Equal(t, 5*time.Second, cfg.TemplateTimeoutDuration())
}
