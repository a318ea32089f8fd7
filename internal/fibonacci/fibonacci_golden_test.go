package fibonacci

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"testing"
)

// GoldenData represents the structure of our golden file entries
type GoldenData struct {
	N      uint64 `json:"n"`
	Result string `json:"result"`
}

func loadGolden(t *testing.T) []GoldenData {
	t.Helper()
	goldenPath := filepath.Join("testdata", "fibonacci_golden.json")
	file, err := os.Open(goldenPath)
	if err != nil {
		t.Fatalf("Failed to open golden file: %v. Did you run 'go run ./cmd/generate-golden'?", err)
	}
	defer file.Close()

	var cases []GoldenData
	if err := json.NewDecoder(file).Decode(&cases); err != nil {
		t.Fatalf("Failed to decode golden file: %v", err)
	}
	if len(cases) == 0 {
		t.Fatal("golden file is empty")
	}
	return cases
}

func TestCalculatorsAgainstGoldenFile(t *testing.T) {
	cases := loadGolden(t)
	ctx := context.Background()

	for _, name := range GlobalFactory().List() {
		calc := GlobalFactory().MustGet(name)
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			for _, tc := range cases {
				tc := tc
				t.Run(fmt.Sprintf("N=%d", tc.N), func(t *testing.T) {
					t.Parallel()

					expected, ok := new(big.Int).SetString(tc.Result, 10)
					if !ok {
						t.Fatalf("bad golden value for N=%d", tc.N)
					}

					got, err := calc.Calculate(ctx, nil, 0, tc.N, Options{})
					if err != nil {
						t.Fatalf("Calculation failed for N=%d: %v", tc.N, err)
					}
					if got.Cmp(expected) != 0 {
						t.Errorf("Mismatch for N=%d.\nExpected: %s\nGot:      %s", tc.N, expected, got)
					}
				})
			}
		})
	}
}

// TestF10000 pins the 2090-digit value of F(10000) on the default entry
// point.
func TestF10000(t *testing.T) {
	t.Parallel()
	for _, tc := range loadGolden(t) {
		if tc.N != 10000 {
			continue
		}
		got := Fibonacci(10000).String()
		if len(got) != 2090 {
			t.Errorf("F(10000) has %d digits, want 2090", len(got))
		}
		if got != tc.Result {
			t.Errorf("F(10000) does not match the golden digit string")
		}
		return
	}
	t.Fatal("golden file has no entry for N=10000")
}
