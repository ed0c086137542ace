package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/weiihann/md5bench/kernel"
	"github.com/weiihann/md5bench/workload"
)

const (
	formatConsole  = "console"
	formatMarkdown = "markdown"
	formatJSON     = "json"
)

type runConfig struct {
	packets    int
	minSize    int
	maxSize    int
	seed       int64
	kernels    []string
	oracles    []string
	verify     bool
	format     string
	configPath string
}

func defaultRunConfig() runConfig {
	return runConfig{
		packets: workload.DefaultCount,
		minSize: workload.DefaultMinSize,
		maxSize: workload.DefaultMaxSize,
		kernels: kernel.Names(),
		verify:  true,
		format:  formatConsole,
	}
}

func (c runConfig) validate() error {
	switch c.format {
	case formatConsole, formatMarkdown, formatJSON:
	default:
		return fmt.Errorf("unknown format %q (want %s, %s or %s)",
			c.format, formatConsole, formatMarkdown, formatJSON)
	}

	return nil
}

// fileConfig mirrors the run flags. Pointer fields distinguish "absent"
// from a zero value.
type fileConfig struct {
	Packets *int     `yaml:"packets"`
	MinSize *int     `yaml:"min_size"`
	MaxSize *int     `yaml:"max_size"`
	Seed    *int64   `yaml:"seed"`
	Kernels []string `yaml:"kernels"`
	Oracles []string `yaml:"oracles"`
	Verify  *bool    `yaml:"verify"`
	Format  string   `yaml:"format"`
}

func loadConfigFile(path string) (fileConfig, error) {
	var fc fileConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("read config %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fc, fmt.Errorf("parse config %s: %w", path, err)
	}

	return fc, nil
}

// applyFile copies values from fc into c unless the matching flag was set
// on the command line.
func (c *runConfig) applyFile(fc fileConfig, changed func(name string) bool) {
	if fc.Packets != nil && !changed("packets") {
		c.packets = *fc.Packets
	}
	if fc.MinSize != nil && !changed("min-size") {
		c.minSize = *fc.MinSize
	}
	if fc.MaxSize != nil && !changed("max-size") {
		c.maxSize = *fc.MaxSize
	}
	if fc.Seed != nil && !changed("seed") {
		c.seed = *fc.Seed
	}
	if fc.Kernels != nil && !changed("kernels") {
		c.kernels = fc.Kernels
	}
	if fc.Oracles != nil && !changed("oracles") {
		c.oracles = fc.Oracles
	}
	if fc.Verify != nil && !changed("verify") {
		c.verify = *fc.Verify
	}
	if fc.Format != "" && !changed("format") {
		c.format = fc.Format
	}
}
