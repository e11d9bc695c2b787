package benchmarks

import (
	"runtime"
	"testing"
)

func BenchmarkMemoryFootprint(b *testing.B) {
	numAnimators := 1000
	var before runtime.MemStats
	runtime.ReadMemStats(&before)
	anims := make([]any, numAnimators)
	for i := 0; i < numAnimators; i++ {
		anims[i] = GenAnimator(8, 12)
	}
	runtime.GC()
	var after runtime.MemStats
	runtime.ReadMemStats(&after)
	bytesPerAnimator := (after.TotalAlloc - before.TotalAlloc) / uint64(numAnimators)
	b.ReportMetric(float64(bytesPerAnimator)/1024, "KB/animator")
	runtime.KeepAlive(anims)
}
