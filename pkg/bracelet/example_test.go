package bracelet_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/jeweler/pkg/bracelet"
)

func ExampleEnumerate() {
	words, err := bracelet.Enumerate(context.Background(), bracelet.NewSpec(2, 2), bracelet.Bracelet)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, w := range words {
		fmt.Println(w)
	}
	// Output:
	// [0 1 0 1]
	// [0 0 1 1]
}

func ExampleStream() {
	total := 0
	err := bracelet.Stream(context.Background(), bracelet.NewSpec(3, 3), bracelet.LyndonWord, func(w []int) error {
		total++
		return nil
	})
	fmt.Println(total, err)
	// Output:
	// 3 <nil>
}

func ExampleCount() {
	spec := bracelet.NewSpec(3, 2, 1)
	for _, mode := range bracelet.Modes() {
		n, _ := bracelet.Count(context.Background(), spec, mode)
		fmt.Printf("%s: %d\n", mode, n)
	}
	// Output:
	// bracelet: 6
	// necklace: 10
	// lyndon: 10
	// lyndon-bracelet: 6
}

func ExampleSpec_Validate() {
	err := bracelet.Spec{N: 3, Counts: []int{1, 1}}.Validate()
	fmt.Println(err)
	// Output:
	// INVALID_SPEC: counts sum to 2, want n = 3
}
