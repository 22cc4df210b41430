package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()

	assert.Equal(t, 50.0, c.Stack.Spacing)
	assert.Equal(t, 200.0, c.Stack.DragZ)
	assert.Equal(t, 190.0, c.Stack.AutoMoveZ)
	assert.Equal(t, 1000.0, c.Physics.OverlapSpeed)
	assert.Equal(t, 1.5, c.Homing.SearchRadiusFactor)
	assert.Equal(t, uint64(42), c.Seed)
}

func TestLoad_OverridesAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
card:
  width: 92
  height: 124
stack:
  spacing: 20
seed: 7
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 92.0, c.Card.Width)
	assert.Equal(t, 20.0, c.Stack.Spacing)
	assert.Equal(t, uint64(7), c.Seed)
	// Untouched fields fall back to defaults.
	assert.Equal(t, 2000.0, c.Homing.Speed)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
