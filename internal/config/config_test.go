package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "deployment: esplanada\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "data/cartbook.db", cfg.Database.Path)
	assert.Equal(t, DefaultOpenings, cfg.Booking.Openings)
	assert.Equal(t, "Reservado", cfg.Booking.BookedSuffix)
	assert.Equal(t, 0, cfg.Booking.LookbackDays)
	assert.Equal(t, 30, cfg.Booking.HistoryLookbackDays)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL())
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("TEST_DB_PATH", "custom/cartbook.db")
	path := writeConfig(t, "database:\n  path: \"${TEST_DB_PATH}\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "custom/cartbook.db", cfg.Database.Path)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestResolveDeployment(t *testing.T) {
	t.Run("profile by name", func(t *testing.T) {
		cfg := &Config{Deployment: "esplanada"}
		dep := cfg.ResolveDeployment()
		assert.Equal(t, "esplanada", dep.Name)
		assert.Equal(t, "Esplanada", dep.SafeDeleteText)
		assert.True(t, dep.Auth)
		assert.Len(t, dep.Places, 7)
	})

	t.Run("override wins", func(t *testing.T) {
		cfg := &Config{
			Deployment:         "esplanada",
			DeploymentOverride: &Deployment{Name: "custom", SafeDeleteText: "Custom"},
		}
		dep := cfg.ResolveDeployment()
		assert.Equal(t, "custom", dep.Name)
	})

	t.Run("unknown name is unconfigured", func(t *testing.T) {
		cfg := &Config{Deployment: "elsewhere"}
		dep := cfg.ResolveDeployment()
		assert.Equal(t, "unconfigured", dep.Name)
		assert.Equal(t, "DEPLOY_NOT_SET", dep.SafeDeleteText)
		assert.Empty(t, dep.Devices)
	})
}

func TestDeploymentCatalogs(t *testing.T) {
	dep := Profile("aquarius")

	assert.True(t, dep.HasDevice("Carrinho 2"))
	assert.False(t, dep.HasDevice("Carrinho 1"))
	assert.True(t, dep.HasPlace("Todo Aquarius"))
	assert.False(t, dep.Auth)

	forced := Deployment{FixedPlaces: map[string]string{"Display 1": "Sesc"}}
	assert.Equal(t, "Sesc", forced.PlaceFor("Display 1"))
	assert.Empty(t, forced.PlaceFor("Carrinho 1"))
}

func TestLocationFallback(t *testing.T) {
	cfg := &Config{}
	cfg.Booking.Timezone = "Not/AZone"
	assert.Equal(t, time.UTC, cfg.Location())

	cfg.Booking.Timezone = "America/Sao_Paulo"
	assert.Equal(t, "America/Sao_Paulo", cfg.Location().String())
}
