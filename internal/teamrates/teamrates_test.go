package teamrates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultBlendedRate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.InDelta(t, 61.5, cfg.BlendedRate(), 1e-9)
}

func TestBlendedRateSkipsUnallocatedRoles(t *testing.T) {
	cfg := Config{Roles: []Role{
		{ID: "a", HourlyCost: 100, Allocation: 1},
		{ID: "b", HourlyCost: 40, Allocation: 3},
		{ID: "c", HourlyCost: 999, Allocation: 0},
	}}
	assert.InDelta(t, 55, cfg.BlendedRate(), 1e-9)
	assert.Equal(t, 0.0, Config{}.BlendedRate())
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadLayersOverDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "team.yaml")
	data := `
currency: eur
default_margin: 0.25
roles:
  - id: dev
    name: Developer
    hourly_cost: 80
    allocation: 0.75
  - id: design
    name: Designer
    hourly_cost: 60
    allocation: 0.25
personas:
  freelancer:
    hourly_rate: 95
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "EUR", cfg.Currency)
	assert.Equal(t, 0.25, cfg.DefaultMargin)
	require.Len(t, cfg.Roles, 2)
	assert.InDelta(t, 75, cfg.BlendedRate(), 1e-9)

	p, ok := cfg.Persona(Freelancer)
	require.True(t, ok)
	assert.Equal(t, 95.0, p.HourlyRate)

	agency, ok := cfg.Persona(Agency)
	require.True(t, ok, "unlisted personas keep their defaults")
	require.NotNil(t, agency.Margin)
	assert.Equal(t, 0.45, *agency.Margin)
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("roles: [\n"), 0o644))
	_, err := Load(bad)
	assert.Error(t, err)

	negative := filepath.Join(dir, "negative.yaml")
	require.NoError(t, os.WriteFile(negative, []byte("roles:\n  - id: dev\n    hourly_cost: -5\n    allocation: 1\n"), 0o644))
	_, err = Load(negative)
	assert.ErrorContains(t, err, "must not be negative")
}
