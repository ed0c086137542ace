package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
packets: 5000
min_size: 10
max_size: 20
seed: 77
kernels: [std, gopt]
oracles: [md5-simd]
verify: false
format: markdown
`)

	fc, err := loadConfigFile(path)
	require.NoError(t, err)

	require.NotNil(t, fc.Packets)
	assert.Equal(t, 5000, *fc.Packets)
	assert.Equal(t, 10, *fc.MinSize)
	assert.Equal(t, 20, *fc.MaxSize)
	assert.Equal(t, int64(77), *fc.Seed)
	assert.Equal(t, []string{"std", "gopt"}, fc.Kernels)
	assert.Equal(t, []string{"md5-simd"}, fc.Oracles)
	assert.False(t, *fc.Verify)
	assert.Equal(t, "markdown", fc.Format)
}

func TestLoadConfigFileEmpty(t *testing.T) {
	fc, err := loadConfigFile(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Nil(t, fc.Packets)
}

func TestLoadConfigFileUnknownKey(t *testing.T) {
	_, err := loadConfigFile(writeConfig(t, "packetz: 3\n"))
	assert.ErrorContains(t, err, "packetz")
}

func TestLoadConfigFileMissing(t *testing.T) {
	_, err := loadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "read config")
}

func TestApplyFile(t *testing.T) {
	packets, seed, verify := 10, int64(4), false
	fc := fileConfig{
		Packets: &packets,
		Seed:    &seed,
		Verify:  &verify,
		Kernels: []string{"std"},
		Format:  formatJSON,
	}

	cfg := defaultRunConfig()
	cfg.seed = 99

	changed := map[string]bool{"seed": true}
	cfg.applyFile(fc, func(name string) bool { return changed[name] })

	assert.Equal(t, 10, cfg.packets)
	assert.Equal(t, int64(99), cfg.seed, "explicit flag wins")
	assert.False(t, cfg.verify)
	assert.Equal(t, []string{"std"}, cfg.kernels)
	assert.Equal(t, formatJSON, cfg.format)
	assert.Equal(t, defaultRunConfig().minSize, cfg.minSize, "absent key keeps default")
}

func TestRunConfigValidate(t *testing.T) {
	cfg := defaultRunConfig()
	require.NoError(t, cfg.validate())

	cfg.format = "yaml"
	assert.ErrorContains(t, cfg.validate(), "unknown format")
}
