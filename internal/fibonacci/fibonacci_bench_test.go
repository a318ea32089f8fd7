package fibonacci

import (
	"fmt"
	"testing"
)

// BenchmarkAlgorithms compares the three algorithms at increasing n. The
// linear algorithm is skipped where it would dominate the run time.
func BenchmarkAlgorithms(b *testing.B) {
	sizes := []int64{1_000, 10_000, 100_000, 1_000_000}

	for _, n := range sizes {
		for _, algo := range Algorithms() {
			if algo == AlgorithmLinear && n > 100_000 {
				continue
			}
			b.Run(fmt.Sprintf("%s/N=%d", algo, n), func(b *testing.B) {
				b.ReportAllocs()
				for i := 0; i < b.N; i++ {
					if _, err := Compute(algo, n); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

// BenchmarkMatrixProduct compares the classic and Strassen-Winograd products
// around the default threshold.
func BenchmarkMatrixProduct(b *testing.B) {
	for _, k := range []uint64{2_000, 5_000, 50_000} {
		m1 := Base().Pow(k)
		m2 := Base().Pow(k + 1)

		classic := newMatrixOps(Options{StrassenThreshold: 1 << 30})
		strassen := newMatrixOps(Options{StrassenThreshold: 1})

		b.Run(fmt.Sprintf("Classic_%dbits", maxBitLenMatrix(m2)), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				classic.multiply(m1, m2)
			}
		})
		b.Run(fmt.Sprintf("Strassen_%dbits", maxBitLenMatrix(m2)), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				strassen.multiply(m1, m2)
			}
		})
	}
}

func BenchmarkStateAdvance(b *testing.B) {
	b.ReportAllocs()
	s := NewState()
	for i := 0; i < b.N; i++ {
		s.Advance()
	}
}
