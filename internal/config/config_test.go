package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestDefault(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	cfg := Default()

	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, filepath.Join("/data", "tasklist"), cfg.Storage.Dir)
	assert.True(t, cfg.SampleData)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "tasklist.log", cfg.Logging.File)
	assert.Equal(t, ViewToday, cfg.UI.StartView)
	assert.Equal(t, ThemeTokyoNight, cfg.UI.Theme)
	assert.Empty(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")

	cfg, err := Load(newViper())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := strings.Join([]string{
		"storage:",
		"  backend: file",
		"  dir: /tmp/tasks",
		"sample_data: false",
		"logging:",
		"  level: debug",
		"  file: '-'",
		"ui:",
		"  start_view: flagged",
		"  theme: tokyo-day",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	v := newViper()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/tasks", cfg.Storage.Dir)
	assert.False(t, cfg.SampleData)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "", cfg.LogPath())
	assert.Equal(t, ViewFlagged, cfg.UI.StartView)
	assert.Equal(t, ThemeTokyoDay, cfg.UI.Theme)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("TASKLIST_STORAGE_BACKEND", "memory")

	v := newViper()
	v.SetEnvPrefix("TASKLIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
}

func TestLoad_Invalid(t *testing.T) {
	v := newViper()
	v.Set("storage.backend", "postgres")
	v.Set("logging.level", "loud")
	v.Set("ui.start_view", "someday")
	v.Set("ui.theme", "solarized")

	_, err := Load(v)
	require.Error(t, err)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 4)
	assert.Contains(t, err.Error(), "4 validation errors")
	assert.Contains(t, err.Error(), "storage.backend")
	assert.Contains(t, err.Error(), "ui.theme")
}

func TestValidate_DirRequiredUnlessMemory(t *testing.T) {
	cfg := Default()
	cfg.Storage.Dir = ""
	errs := cfg.Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, "storage.dir", errs[0].Field)

	cfg.Storage.Backend = BackendMemory
	assert.Empty(t, cfg.Validate())
}

func TestLogPath(t *testing.T) {
	cfg := Default()
	cfg.Storage.Dir = "/var/lib/tasklist"

	assert.Equal(t, filepath.Join("/var/lib/tasklist", "tasklist.log"), cfg.LogPath())

	cfg.Logging.File = "/var/log/tasks.log"
	assert.Equal(t, "/var/log/tasks.log", cfg.LogPath())

	cfg.Logging.File = StderrLog
	assert.Equal(t, "", cfg.LogPath())
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	assert.Equal(t, filepath.Join("/cfg", "tasklist"), ConfigDir())
	assert.Equal(t, filepath.Join("/cfg", "tasklist", "config.yaml"), ConfigFile())
}
