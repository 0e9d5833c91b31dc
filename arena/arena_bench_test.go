package arena

import (
	"math/rand"
	"testing"
)

// Benchmark_Alloc_SmallBlocks measures the split path on a fresh arena.
func Benchmark_Alloc_SmallBlocks(b *testing.B) {
	for _, s := range Strategies() {
		b.Run(s.String(), func(b *testing.B) {
			a := newTestArena(b, 1<<24, s)
			b.ReportAllocs()

			var refs []Ref
			for b.Loop() {
				ref, _, err := a.Alloc(32)
				if err != nil {
					b.StopTimer()
					for _, r := range refs {
						_ = a.Free(r)
					}
					refs = refs[:0]
					b.StartTimer()
					continue
				}
				refs = append(refs, ref)
			}
		})
	}
}

// Benchmark_AllocFree_SteadyState keeps about 500 live blocks of mixed size.
func Benchmark_AllocFree_SteadyState(b *testing.B) {
	for _, s := range Strategies() {
		b.Run(s.String(), func(b *testing.B) {
			a := newTestArena(b, 1<<21, s)
			rng := rand.New(rand.NewSource(42))

			allocated := make([]Ref, 0, 1000)
			for range 500 {
				ref, _, err := a.Alloc(64 + rng.Intn(512))
				if err != nil {
					b.Fatal(err)
				}
				allocated = append(allocated, ref)
			}
			b.ReportAllocs()

			for b.Loop() {
				shouldAlloc := len(allocated) < 500 || (len(allocated) < 700 && rng.Float32() < 0.5)
				if !shouldAlloc {
					idx := rng.Intn(len(allocated))
					if err := a.Free(allocated[idx]); err != nil {
						b.Fatal(err)
					}
					allocated[idx] = allocated[len(allocated)-1]
					allocated = allocated[:len(allocated)-1]
					continue
				}
				ref, _, err := a.Alloc(64 + rng.Intn(512))
				if err != nil {
					b.Fatal(err)
				}
				allocated = append(allocated, ref)
			}
		})
	}
}

// Benchmark_Free_Coalesce frees alternating blocks so every second free
// merges in both directions.
func Benchmark_Free_Coalesce(b *testing.B) {
	a := newTestArena(b, 1<<20, FirstFit)
	refs := make([]Ref, 0, 1024)

	for b.Loop() {
		b.StopTimer()
		refs = refs[:0]
		for range 1000 {
			ref, _, err := a.Alloc(40)
			if err != nil {
				b.Fatal(err)
			}
			refs = append(refs, ref)
		}
		b.StartTimer()

		for i := 0; i < len(refs); i += 2 {
			_ = a.Free(refs[i])
		}
		for i := 1; i < len(refs); i += 2 {
			_ = a.Free(refs[i])
		}
	}
}
