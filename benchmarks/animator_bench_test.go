package benchmarks

import (
	"fmt"
	"testing"

	"github.com/comalice/spritefsm"
	"github.com/comalice/spritefsm/builder"
)

func BenchmarkFrameFor(b *testing.B) {
	for _, n := range []int{4, 32, 256} {
		b.Run(fmt.Sprintf("frames=%d", n), func(b *testing.B) {
			table, err := spritefsm.NewFrameTable([]string{"idle"}, map[string][]spritefsm.Frame[int]{
				"idle": builder.SpriteRange(0, n),
			})
			if err != nil {
				b.Fatal(err)
			}
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				table.FrameFor("idle", float64(i%1000)/1000)
			}
		})
	}
}

func BenchmarkAnimatorFrame(b *testing.B) {
	anim := GenAnimator(8, 12)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		anim.Update(1.0 / 60)
		_ = anim.Frame()
	}
}
