package benchmarks

import (
	"fmt"
	"testing"

	"github.com/comalice/spritefsm/realtime"
)

func BenchmarkRuntimeStep(b *testing.B) {
	for _, workers := range []int{1, 4} {
		for _, n := range []int{100, 1000} {
			b.Run(fmt.Sprintf("workers=%d/entities=%d", workers, n), func(b *testing.B) {
				rt := realtime.NewRuntime[string, Params, int](realtime.Config{Workers: workers})
				defer rt.Close()
				for i := 0; i < n; i++ {
					rt.Register(GenAnimator(4, 8))
				}
				b.ResetTimer()
				b.ReportAllocs()
				for i := 0; i < b.N; i++ {
					rt.Step(1.0 / 60)
				}
			})
		}
	}
}

func BenchmarkRuntimeMutations(b *testing.B) {
	rt := realtime.NewRuntime[string, Params, int](realtime.Config{MaxMutationsPerTick: 1 << 20})
	defer rt.Close()
	id := rt.Register(GenAnimator(4, 8))
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if err := rt.UpdateParameters(id, func(p *Params) { p.Speed = float64(i % 2) }); err != nil {
			b.Fatal(err)
		}
		rt.Step(0)
	}
}
