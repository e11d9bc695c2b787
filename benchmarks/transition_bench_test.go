package benchmarks

import (
	"fmt"
	"testing"
)

func BenchmarkUpdateNoTransition(b *testing.B) {
	sm := GenCycle(4, 1e9)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		sm.Update(1.0 / 60)
	}
}

// Each call completes the current state and takes one OnEnd rule.
func BenchmarkUpdateOnEnd(b *testing.B) {
	for _, n := range []int{2, 16, 128} {
		b.Run(fmt.Sprintf("states=%d", n), func(b *testing.B) {
			sm := GenCycle(n, 0.01)
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				sm.Update(0.01)
			}
		})
	}
}

func BenchmarkWideRules(b *testing.B) {
	for _, n := range []int{1, 10, 100} {
		b.Run(fmt.Sprintf("rules=%d", n), func(b *testing.B) {
			sm := GenWideRules(n)
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				sm.UpdateParameters(func(p *Params) { p.Mode = n })
				sm.UpdateParameters(func(p *Params) { p.Mode = 0 })
			}
		})
	}
}

func BenchmarkChainResolution(b *testing.B) {
	for _, depth := range []int{1, 8, 64} {
		b.Run(fmt.Sprintf("depth=%d", depth), func(b *testing.B) {
			sm := GenChain(depth)
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				sm.UpdateParameters(func(p *Params) { p.Speed = 1 })
				sm.UpdateParameters(func(p *Params) { p.Speed = 0 })
			}
		})
	}
}

func TestGeneratedMachines(t *testing.T) {
	sm := GenChain(8)
	sm.UpdateParameters(func(p *Params) { p.Speed = 1 })
	if got := sm.State().Key; got != "s7" {
		t.Fatalf("chain ended in %s, want s7", got)
	}
	sm.UpdateParameters(func(p *Params) { p.Speed = 0 })
	if got := sm.State().Key; got != "rest" {
		t.Fatalf("chain reset to %s, want rest", got)
	}

	wide := GenWideRules(10)
	wide.UpdateParameters(func(p *Params) { p.Mode = 10 })
	if got := wide.State().Key; got != "s9" {
		t.Fatalf("wide rules picked %s, want s9", got)
	}

	cycle := GenCycle(3, 0.5)
	cycle.Update(0.5)
	if got := cycle.State().Key; got != "s1" {
		t.Fatalf("cycle at %s, want s1", got)
	}
}
