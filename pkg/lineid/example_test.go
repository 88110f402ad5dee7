package lineid_test

import (
	"fmt"

	"github.com/phn/lineid-plot/pkg/lineid"
)

func ExampleAdjustBoxes() {
	res, err := lineid.AdjustBoxes(
		[]float64{10.0, 10.1},
		[]float64{0.5, 0.5},
		0, 20,
	)
	if err != nil {
		panic(err)
	}

	fmt.Printf("%.3f\n", res.Positions)
	fmt.Println("changed:", res.Changed, "converged:", res.Converged)
	// Output:
	// [10.000 10.625]
	// changed: true converged: true
}

func ExampleUniqueLabels() {
	ids := lineid.UniqueLabels([]string{"N V", "Si II", "Si II", "Si II"})
	fmt.Printf("%q\n", ids)
	fmt.Printf("%q\n", lineid.ConnectorIDs(ids[:2]))
	// Output:
	// ["N V" "Si II_num_3" "Si II_num_2" "Si II_num_1"]
	// ["N V_line" "Si II_num_3_line"]
}
