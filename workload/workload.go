// Package workload generates the deterministic packet set and traversal
// order shared by every benchmark candidate. Packets and order are
// produced once per session and must not be modified afterwards.
package workload

import (
	"fmt"
	mrand "math/rand"
)

// Default workload shape: one million packets of
// 100 to 299 bytes.
const (
	DefaultCount   = 1_000_000
	DefaultMinSize = 100
	DefaultMaxSize = 300
)

// Packet is a single input buffer. It is owned by the workload and never
// shares backing memory with another packet.
type Packet struct {
	Data []byte
}

// Len returns the packet length in bytes.
func (p Packet) Len() int { return len(p.Data) }

// Summary contains statistics about the generated workload.
type Summary struct {
	Packets    int    `json:"packets"`
	TotalBytes uint64 `json:"total_bytes"`
	MinLen     int    `json:"min_len"`
	MaxLen     int    `json:"max_len"`
	Seed       int64  `json:"seed"`
}

// Config controls workload generation parameters. Packet lengths are drawn
// from [MinSize, MaxSize).
type Config struct {
	Count   int
	MinSize int
	MaxSize int
	Seed    int64
}

// DefaultConfig returns the default workload shape with the given seed.
func DefaultConfig(seed int64) Config {
	return Config{
		Count:   DefaultCount,
		MinSize: DefaultMinSize,
		MaxSize: DefaultMaxSize,
		Seed:    seed,
	}
}

// Validate reports whether the configuration describes a usable workload.
func (c Config) Validate() error {
	if c.Count <= 0 {
		return fmt.Errorf("packet count must be positive, got %d", c.Count)
	}

	if c.MinSize < 0 {
		return fmt.Errorf("minimum packet size must not be negative, got %d",
			c.MinSize)
	}

	if c.MaxSize <= c.MinSize {
		return fmt.Errorf("maximum packet size %d must exceed minimum %d",
			c.MaxSize, c.MinSize)
	}

	return nil
}

// Generator produces deterministic workloads from a Config. Packets and
// the traversal order draw from the same seeded source, so the sequence of
// calls matters: Packets first, then Permutation.
type Generator struct {
	cfg Config
	rng *mrand.Rand
}

// NewGenerator creates a Generator from the given Config.
func NewGenerator(cfg Config) *Generator {
	return &Generator{
		cfg: cfg,
		rng: mrand.New(mrand.NewSource(cfg.Seed)),
	}
}

// Packets generates cfg.Count packets with uniformly random lengths and
// contents.
func (g *Generator) Packets() []Packet {
	span := g.cfg.MaxSize - g.cfg.MinSize
	packets := make([]Packet, g.cfg.Count)

	for i := range packets {
		buf := make([]byte, g.cfg.MinSize+g.rng.Intn(span))
		g.rng.Read(buf)
		packets[i] = Packet{Data: buf}
	}

	return packets
}

// Permutation returns the integers [0, n) in uniformly random order.
func (g *Generator) Permutation(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}

	g.rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	return order
}

// Summarize computes statistics over packets.
func Summarize(packets []Packet, seed int64) Summary {
	s := Summary{Packets: len(packets), Seed: seed}
	if len(packets) == 0 {
		return s
	}

	s.MinLen = packets[0].Len()
	for _, p := range packets {
		s.TotalBytes += uint64(p.Len())
		s.MinLen = min(s.MinLen, p.Len())
		s.MaxLen = max(s.MaxLen, p.Len())
	}

	return s
}

// IsPermutation reports whether order contains every integer in [0, n)
// exactly once.
func IsPermutation(order []int, n int) bool {
	if len(order) != n {
		return false
	}

	seen := make([]bool, n)
	for _, idx := range order {
		if idx < 0 || idx >= n || seen[idx] {
			return false
		}

		seen[idx] = true
	}

	return true
}
