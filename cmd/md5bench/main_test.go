package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiihann/md5bench/harness"
	"github.com/weiihann/md5bench/kernel"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	root := newRootCmd(logger, new(slog.LevelVar))

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs(args)

	err := root.Execute()

	return out.String(), err
}

func TestRunConsole(t *testing.T) {
	out, err := execute(t, "run", "--packets", "300", "--seed", "7",
		"--kernels", "std,ghopt")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "crypto/md5: "))
	assert.True(t, strings.HasSuffix(lines[0], "ns"))
	assert.True(t, strings.HasPrefix(lines[1], "std: "))
	assert.True(t, strings.HasSuffix(lines[2], "%"))
	assert.True(t, strings.HasPrefix(lines[3], "ghopt: "))
}

func TestRunJSON(t *testing.T) {
	out, err := execute(t, "run", "--packets", "250", "--seed", "3",
		"--format", "json")
	require.NoError(t, err)

	var s harness.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &s))

	assert.Equal(t, 250, s.Workload.Packets)
	assert.Equal(t, int64(3), s.Workload.Seed)
	assert.Len(t, s.Fingerprint, 16)
	require.Len(t, s.Results, len(kernel.Names())+1)

	for _, r := range s.Results {
		assert.True(t, r.Verified, r.Candidate)
		assert.Zero(t, r.Mismatches, r.Candidate)
	}
}

func TestRunSameSeedSameFingerprint(t *testing.T) {
	args := []string{"run", "--packets", "100", "--seed", "11",
		"--kernels", "std", "--format", "json", "--verify=false"}

	first, err := execute(t, args...)
	require.NoError(t, err)
	second, err := execute(t, args...)
	require.NoError(t, err)

	var a, b harness.Summary
	require.NoError(t, json.Unmarshal([]byte(first), &a))
	require.NoError(t, json.Unmarshal([]byte(second), &b))
	assert.Equal(t, a.Fingerprint, b.Fingerprint)
	assert.Equal(t, a.Workload, b.Workload)
}

func TestRunMarkdown(t *testing.T) {
	out, err := execute(t, "run", "--packets", "100", "--seed", "5",
		"--kernels", "gopt", "--format", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "## MD5 Benchmark Results")
	assert.Contains(t, out, "all match")
	assert.Contains(t, out, "| gopt | kernel |")
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown kernel", []string{"run", "--kernels", "sse9"}, "unknown kernel"},
		{"unknown oracle", []string{"run", "--packets", "10", "--oracles", "openssl"}, "unknown oracle"},
		{"bad format", []string{"run", "--format", "xml"}, "unknown format"},
		{"bad size range", []string{"run", "--min-size", "50", "--max-size", "50"}, "must exceed"},
		{"zero packets", []string{"run", "--packets", "0"}, "must be positive"},
		{"bad log level", []string{"--log-level", "loud", "kernels"}, "invalid --log-level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestKernelsCommand(t *testing.T) {
	out, err := execute(t, "kernels")
	require.NoError(t, err)

	for _, name := range kernel.Names() {
		assert.Contains(t, out, name)
	}
}

func TestRunConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
packets: 120
seed: 9
kernels: [unrolled]
format: json
verify: false
`), 0o600))

	out, err := execute(t, "run", "--config", path, "--packets", "80")
	require.NoError(t, err)

	var s harness.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, 80, s.Workload.Packets, "flag overrides file")
	assert.Equal(t, int64(9), s.Workload.Seed)
	require.Len(t, s.Results, 2)
	assert.Equal(t, "unrolled", s.Results[1].Candidate)
	assert.False(t, s.Results[1].Verified)
}
