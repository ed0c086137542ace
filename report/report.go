// Package report formats benchmark results into console lines and
// comparison tables.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/weiihann/md5bench/harness"
)

// Console writes the plain per-candidate report: one line with the
// average latency for every candidate, and one line with the delta
// against the baseline for every other candidate.
func Console(w io.Writer, results []harness.Result) error {
	if len(results) == 0 {
		return fmt.Errorf("no results to report")
	}

	for _, r := range results {
		if _, err := fmt.Fprintf(w, "%s: %sns\n",
			r.Candidate, formatLatency(r.AvgLatencyNs)); err != nil {
			return err
		}

		if r.IsBaseline() {
			continue
		}

		if _, err := fmt.Fprintf(w, "%s: %s\n",
			r.Candidate, formatDelta(r.DeltaPercent)); err != nil {
			return err
		}
	}

	return nil
}

// Generate writes a markdown comparison table for the session.
func Generate(w io.Writer, s harness.Summary) error {
	if len(s.Results) == 0 {
		return fmt.Errorf("no results to report")
	}

	// Header.
	fmt.Fprintln(w, "## MD5 Benchmark Results")
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Host: %s, %d logical cores, %s/%s, %s\n",
		s.Host.CPU, s.Host.LogicalCores, s.Host.GOOS, s.Host.GOARCH,
		s.Host.GoVersion)

	if len(s.Host.Features) > 0 {
		fmt.Fprintf(w, "CPU features: %s\n", strings.Join(s.Host.Features, ", "))
	}

	fmt.Fprintf(w, "Workload: %s packets, %s, %d-%d bytes, seed %d, fingerprint %s\n",
		humanize.Comma(int64(s.Workload.Packets)),
		humanize.IBytes(s.Workload.TotalBytes),
		s.Workload.MinLen, s.Workload.MaxLen, s.Workload.Seed,
		s.Fingerprint,
	)
	fmt.Fprintln(w)

	// Digest check.
	switch checkDigests(s.Results) {
	case digestsMatch:
		fmt.Fprintln(w, "Digests: **all match**")
	case digestsUnverified:
		fmt.Fprintln(w, "Digests: not verified")
	default:
		fmt.Fprintln(w, "Digests: **MISMATCH**")

		for _, r := range s.Results {
			if r.Mismatches > 0 {
				fmt.Fprintf(w, "  - %s: %s of %s packets differ\n",
					r.Candidate,
					humanize.Comma(int64(r.Mismatches)),
					humanize.Comma(int64(r.Packets)))
			}
		}
	}

	fmt.Fprintln(w)

	// Table header.
	fmt.Fprintln(w, "| Candidate | Kind | Avg/packet | Elapsed "+
		"| Throughput | vs baseline |")
	fmt.Fprintln(w, "|-----------|------|------------|---------"+
		"|------------|-------------|")

	for _, r := range s.Results {
		delta := "-"
		if !r.IsBaseline() {
			delta = formatDelta(r.DeltaPercent)
		}

		fmt.Fprintf(w, "| %s | %s | %sns | %s | %s | %s |\n",
			r.Candidate,
			r.Kind,
			formatLatency(r.AvgLatencyNs),
			formatElapsed(r.Elapsed()),
			formatThroughput(r.ThroughputBps),
			delta,
		)
	}

	return nil
}

// GenerateJSON writes the session summary as JSON to w.
func GenerateJSON(w io.Writer, s harness.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(s)
}

type digestStatus int

const (
	digestsMatch digestStatus = iota
	digestsUnverified
	digestsMismatch
)

func checkDigests(results []harness.Result) digestStatus {
	status := digestsUnverified

	for _, r := range results {
		if !r.Verified {
			continue
		}

		if r.Mismatches > 0 {
			return digestsMismatch
		}

		status = digestsMatch
	}

	return status
}

func formatLatency(ns float64) string {
	return fmt.Sprintf("%.2f", ns)
}

func formatDelta(pct float64) string {
	return fmt.Sprintf("%+.2f%%", pct)
}

func formatElapsed(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.2fms", float64(d)/float64(time.Millisecond))
	}

	return fmt.Sprintf("%.2fs", d.Seconds())
}

func formatThroughput(bps float64) string {
	if bps <= 0 {
		return "-"
	}

	return humanize.IBytes(uint64(bps)) + "/s"
}
