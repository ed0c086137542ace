package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/weiihann/md5bench/digest"
	"github.com/weiihann/md5bench/workload"
)

// Errors returned by Session.Run when the session or its candidates are
// malformed. No candidate is measured when one of these is returned.
var (
	ErrEmptyWorkload      = errors.New("workload has no packets")
	ErrInvalidOrder       = errors.New("traversal order is not a permutation of the packet indices")
	ErrNoBaseline         = errors.New("no baseline candidate")
	ErrBaselineNotFirst   = errors.New("baseline candidate must run first")
	ErrDuplicateCandidate = errors.New("duplicate candidate name")
)

// sink keeps the last digest of each run observable so the timed loop is
// not optimized away.
var sink [digest.Size]byte

// Session runs candidates over one workload and one traversal order.
// Packets and Order are read-only for the lifetime of the session.
type Session struct {
	Packets []workload.Packet
	Order   []int
	// Verify re-hashes every packet after each timed run and compares
	// against the baseline. It never runs inside the timed region.
	Verify bool
	Logger *slog.Logger

	now       func() time.Time
	reference [][digest.Size]byte
}

// NewSession creates a Session over packets visited in order.
func NewSession(
	packets []workload.Packet,
	order []int,
	verify bool,
	logger *slog.Logger,
) *Session {
	return &Session{
		Packets: packets,
		Order:   order,
		Verify:  verify,
		Logger:  logger,
		now:     time.Now,
	}
}

// Run measures every candidate in order and returns one Result each.
// The first candidate must be the baseline.
func (s *Session) Run(ctx context.Context, candidates []Candidate) ([]Result, error) {
	if err := s.validate(candidates); err != nil {
		return nil, err
	}

	// Packets may have changed since the last run; the baseline pass
	// rebuilds the reference digests.
	s.reference = nil

	if s.now == nil {
		s.now = time.Now
	}

	if s.Logger == nil {
		s.Logger = slog.Default()
	}

	var totalBytes uint64
	for _, p := range s.Packets {
		totalBytes += uint64(p.Len())
	}

	results := make([]Result, 0, len(candidates))

	var baselineElapsed time.Duration

	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("run %s: %w", c.Name, err)
		}

		logger := s.Logger.With(slog.String("candidate", c.Name))
		logger.InfoContext(ctx, "measuring candidate",
			slog.String("kind", string(c.Kind)),
			slog.Int("packets", len(s.Packets)),
		)

		elapsed := s.measure(c)
		if c.Kind == KindBaseline {
			baselineElapsed = elapsed
		}

		result := Result{
			Candidate:     c.Name,
			Kind:          c.Kind,
			Packets:       len(s.Packets),
			Bytes:         totalBytes,
			ElapsedNs:     elapsed.Nanoseconds(),
			AvgLatencyNs:  AverageLatency(elapsed, len(s.Packets)),
			ThroughputBps: Throughput(totalBytes, elapsed),
		}

		if c.Kind != KindBaseline {
			result.DeltaPercent = Delta(baselineElapsed, elapsed)
		}

		if s.Verify {
			result.Verified = true
			result.Mismatches = s.verify(c, logger)
		}

		logger.InfoContext(ctx, "candidate finished",
			slog.Duration("elapsed", elapsed),
			slog.Float64("avg_latency_ns", result.AvgLatencyNs),
			slog.Float64("delta_percent", result.DeltaPercent),
		)

		results = append(results, result)
	}

	return results, nil
}

func (s *Session) validate(candidates []Candidate) error {
	if len(s.Packets) == 0 {
		return ErrEmptyWorkload
	}

	if !workload.IsPermutation(s.Order, len(s.Packets)) {
		return ErrInvalidOrder
	}

	if len(candidates) == 0 {
		return ErrNoBaseline
	}

	seen := make(map[string]struct{}, len(candidates))
	baselines := 0

	for i, c := range candidates {
		if _, ok := seen[c.Name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateCandidate, c.Name)
		}
		seen[c.Name] = struct{}{}

		if (c.Compressor == nil) == (c.Oracle == nil) {
			return fmt.Errorf(
				"candidate %q: exactly one of compressor and oracle must be set",
				c.Name,
			)
		}

		if c.Kind == KindBaseline {
			if i != 0 {
				return ErrBaselineNotFirst
			}

			baselines++
		}
	}

	if baselines == 0 {
		return ErrNoBaseline
	}

	if candidates[0].Oracle == nil {
		return fmt.Errorf("baseline %q must be an oracle", candidates[0].Name)
	}

	return nil
}

// measure times one pass over the workload in traversal order. The
// elapsed time is at least one nanosecond.
func (s *Session) measure(c Candidate) time.Duration {
	sum := c.summer()

	var out [digest.Size]byte

	start := s.now()
	for _, idx := range s.Order {
		sum(s.Packets[idx].Data, &out)
	}
	elapsed := s.now().Sub(start)

	sink = out

	return max(elapsed, time.Nanosecond)
}

// verify compares c against the baseline digests for every packet and
// returns the number of mismatches. The first candidate verified is the
// baseline itself, which populates the reference set.
func (s *Session) verify(c Candidate, logger *slog.Logger) int {
	sum := c.summer()

	if s.reference == nil {
		s.reference = make([][digest.Size]byte, len(s.Packets))
		for i, p := range s.Packets {
			sum(p.Data, &s.reference[i])
		}

		return 0
	}

	var (
		out        [digest.Size]byte
		mismatches int
	)

	for i, p := range s.Packets {
		sum(p.Data, &out)
		if out == s.reference[i] {
			continue
		}

		if mismatches == 0 {
			logger.Warn("digest mismatch",
				slog.Int("packet", i),
				slog.Int("length", p.Len()),
				slog.String("got", fmt.Sprintf("%x", out)),
				slog.String("want", fmt.Sprintf("%x", s.reference[i])),
			)
		}

		mismatches++
	}

	return mismatches
}
