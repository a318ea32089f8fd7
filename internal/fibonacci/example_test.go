package fibonacci_test

import (
	"fmt"
	"math/big"

	"github.com/agbru/fibmatrix/internal/fibonacci"
)

func ExampleFibonacci() {
	fmt.Println(fibonacci.Fibonacci(100))
	// Output: 354224848179261915075
}

func ExampleCompute() {
	for _, algo := range fibonacci.Algorithms() {
		f, _ := fibonacci.Compute(algo, 30)
		fmt.Printf("%s: %s\n", algo, f)
	}
	// Output:
	// linear: 832040
	// matrix: 832040
	// hybrid: 832040
}

func ExampleSplitPowerOfTwo() {
	split, _ := fibonacci.SplitPowerOfTwo(1000)
	fmt.Println(split.Power, split.Value, split.Remaining)
	// Output: 9 512 488
}

func ExampleMatrix_Pow() {
	m := fibonacci.Base().Pow(10)
	fmt.Println(m)
	fmt.Println(m.LowerRight())
	// Output:
	// [[34 55] [55 89]]
	// 89
}

func ExampleLowerRight() {
	rows := [][]*big.Int{
		{big.NewInt(1), big.NewInt(2)},
		{big.NewInt(3), big.NewInt(4)},
	}
	v, ok := fibonacci.LowerRight(rows)
	fmt.Println(v, ok)

	_, ok = fibonacci.LowerRight(nil)
	fmt.Println(ok)
	// Output:
	// 4 true
	// false
}

func ExampleState() {
	s := fibonacci.NewState()
	for i := 0; i < 4; i++ {
		fmt.Println(s.Advance())
	}
	// Output:
	// 0,1,=>1
	// 1,1,=>2
	// 1,2,=>3
	// 2,3,=>5
}
