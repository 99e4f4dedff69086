package local

import (
	"runtime"

	"github.com/klauspost/cpuid/v2"
	"github.com/rs/zerolog/log"
)

// Workers returns the number of featurisation workers.
// Acceleration needs AVX2 and then uses every logical core.
func Workers(accelerator bool) int {
	if !accelerator {
		return 1
	}
	if !cpuid.CPU.Supports(cpuid.AVX2) {
		log.Warn().
			Str("cpu", cpuid.CPU.BrandName).
			Msg("no AVX2 support, running on a single worker")
		return 1
	}
	cores := cpuid.CPU.LogicalCores
	if cores <= 0 {
		cores = runtime.NumCPU()
	}
	log.Info().
		Str("cpu", cpuid.CPU.BrandName).
		Int("workers", cores).
		Msg("accelerator enabled")
	return cores
}
