package harness

import (
	"runtime"

	"github.com/klauspost/cpuid/v2"
	"github.com/samber/lo"
)

// Host describes the machine a session ran on. Kernel timings are only
// comparable between runs on the same Host.
type Host struct {
	CPU          string   `json:"cpu"`
	LogicalCores int      `json:"logical_cores"`
	Features     []string `json:"features"`
	GOOS         string   `json:"goos"`
	GOARCH       string   `json:"goarch"`
	GoVersion    string   `json:"go_version"`
}

var reportedFeatures = []cpuid.FeatureID{
	cpuid.SSE2, cpuid.SSE4, cpuid.AVX, cpuid.AVX2, cpuid.AVX512F,
	cpuid.BMI1, cpuid.BMI2, cpuid.ASIMD,
}

// DetectHost inspects the current CPU and runtime.
func DetectHost() Host {
	supported := lo.Filter(reportedFeatures, func(f cpuid.FeatureID, _ int) bool {
		return cpuid.CPU.Supports(f)
	})

	cpu := cpuid.CPU.BrandName
	if cpu == "" {
		cpu = "unknown"
	}

	return Host{
		CPU:          cpu,
		LogicalCores: cpuid.CPU.LogicalCores,
		Features: lo.Map(supported, func(f cpuid.FeatureID, _ int) string {
			return f.String()
		}),
		GOOS:      runtime.GOOS,
		GOARCH:    runtime.GOARCH,
		GoVersion: runtime.Version(),
	}
}
