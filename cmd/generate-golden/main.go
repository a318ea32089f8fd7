// Command generate-golden writes the reference values used by the fibonacci
// package tests. The linear algorithm is the oracle; every value is checked
// against the matrix algorithm before the file is written.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"

	"github.com/agbru/fibmatrix/internal/fibonacci"
)

// GoldenData is one entry of the golden file.
type GoldenData struct {
	N      uint64 `json:"n"`
	Result string `json:"result"`
}

// targets covers the base cases, the uint64 overflow boundary, both sides
// of several powers of two (which drive the hybrid split) and F(10000).
var targets = []uint64{
	0, 1, 2, 3, 10, 64, 93, 94, 100,
	127, 128, 129, 1000, 1023, 1024, 1025,
	4096, 10000, 25000,
}

func main() {
	outputDir := flag.String("out", "internal/fibonacci/testdata", "Output directory for the golden file")
	flag.Parse()

	if err := run(*outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "generate-golden: %v\n", err)
		os.Exit(1)
	}
}

func run(outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	data := make([]GoldenData, 0, len(targets))
	for _, n := range targets {
		want := fibonacci.LinearFibonacci(int64(n))
		if got := fibonacci.MatrixFibonacci(int64(n)); got.Cmp(want) != 0 {
			return fmt.Errorf("F(%d): linear and matrix results differ", n)
		}
		data = append(data, GoldenData{N: n, Result: want.String()})
		fmt.Printf("Generated F(%d) (%d digits)\n", n, len(data[len(data)-1].Result))
	}

	filename := filepath.Join(outputDir, "fibonacci_golden.json")
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer file.Close()

	encoder := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}

	fmt.Printf("Successfully generated golden file at %s\n", filename)
	return nil
}
