// Package harness runs MD5 candidates over a shared workload and measures
// how long each one takes.
package harness

import (
	"time"

	"github.com/weiihann/md5bench/workload"
)

// Result holds the measurements for one candidate.
type Result struct {
	Candidate     string  `json:"candidate"`
	Kind          Kind    `json:"kind"`
	Packets       int     `json:"packets"`
	Bytes         uint64  `json:"bytes"`
	ElapsedNs     int64   `json:"elapsed_ns"`
	AvgLatencyNs  float64 `json:"avg_latency_ns"`
	DeltaPercent  float64 `json:"delta_percent"`
	ThroughputBps float64 `json:"throughput_bytes_per_sec"`
	Verified      bool    `json:"verified"`
	Mismatches    int     `json:"mismatches"`
}

// Elapsed returns the measured wall-clock time.
func (r Result) Elapsed() time.Duration {
	return time.Duration(r.ElapsedNs)
}

// IsBaseline reports whether r is the baseline measurement.
func (r Result) IsBaseline() bool {
	return r.Kind == KindBaseline
}

// Summary is everything a session produced, ready for reporting.
type Summary struct {
	Host        Host             `json:"host"`
	Workload    workload.Summary `json:"workload"`
	Fingerprint string           `json:"fingerprint"`
	Results     []Result         `json:"results"`
}

// AverageLatency returns the mean time per packet in nanoseconds.
func AverageLatency(elapsed time.Duration, packets int) float64 {
	if packets <= 0 {
		return 0
	}

	return float64(elapsed.Nanoseconds()) / float64(packets)
}

// Delta returns how much faster candidate was than baseline, as a
// percentage of baseline. Positive is faster, negative is slower.
func Delta(baseline, candidate time.Duration) float64 {
	if baseline <= 0 {
		return 0
	}

	return float64(baseline-candidate) / float64(baseline) * 100
}

// Throughput returns bytes processed per second.
func Throughput(bytes uint64, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}

	return float64(bytes) / elapsed.Seconds()
}
