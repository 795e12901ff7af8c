package controller

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigFromEnv(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := NewConfigFromEnv()
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("Overrides", func(t *testing.T) {
		t.Setenv("ARDUMOTO_SERIAL_PORT", "/dev/ttyACM0")
		t.Setenv("ARDUMOTO_BAUD_RATE", "9600")
		t.Setenv("ARDUMOTO_STEPS_PER_REV", "48")
		t.Setenv("ARDUMOTO_RPM", "30")
		t.Setenv("ARDUMOTO_TIMEOUT", "500ms")

		cfg, err := NewConfigFromEnv()
		require.NoError(t, err)
		assert.Equal(t, "/dev/ttyACM0", cfg.SerialPort)
		assert.Equal(t, 9600, cfg.BaudRate)
		assert.Equal(t, 48, cfg.StepsPerRevolution)
		assert.Equal(t, 30, cfg.RPM)
		assert.Equal(t, 500*time.Millisecond, cfg.Timeout)
	})

	t.Run("Profile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nema17.yaml")
		err := os.WriteFile(path, []byte("name: nema17\nsteps_per_revolution: 400\nrpm: 90\n"), 0o644)
		require.NoError(t, err)

		t.Setenv("ARDUMOTO_PROFILE", path)
		t.Setenv("ARDUMOTO_RPM", "30")

		cfg, err := NewConfigFromEnv()
		require.NoError(t, err)
		assert.Equal(t, 400, cfg.StepsPerRevolution)
		assert.Equal(t, 90, cfg.RPM)
	})

	t.Run("MissingProfile", func(t *testing.T) {
		t.Setenv("ARDUMOTO_PROFILE", filepath.Join(t.TempDir(), "missing.yaml"))

		_, err := NewConfigFromEnv()
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("InvalidSpeed", func(t *testing.T) {
		t.Setenv("ARDUMOTO_RPM", "0")

		_, err := NewConfigFromEnv()
		assert.ErrorIs(t, err, ErrInvalidSpeed)
	})

	t.Run("InvalidStepCount", func(t *testing.T) {
		t.Setenv("ARDUMOTO_STEPS_PER_REV", "-1")

		_, err := NewConfigFromEnv()
		assert.ErrorIs(t, err, ErrInvalidStepCount)
	})

	t.Run("NotANumber", func(t *testing.T) {
		t.Setenv("ARDUMOTO_RPM", "fast")

		_, err := NewConfigFromEnv()
		assert.Error(t, err)
	})
}

func TestProfileApply(t *testing.T) {
	cfg := DefaultConfig()
	Profile{Name: "partial", RPM: 12}.Apply(&cfg)

	assert.Equal(t, 200, cfg.StepsPerRevolution)
	assert.Equal(t, 12, cfg.RPM)
}

func TestLoadProfileInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rpm: [1, 2"), 0o644))

	_, err := LoadProfile(path)
	assert.Error(t, err)
}
