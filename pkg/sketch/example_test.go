package sketch_test

import (
	"fmt"

	"github.com/matzehuels/etchgrid/pkg/sketch"
)

func ExampleController_Fill() {
	c, _ := sketch.NewWithSize(4)
	_ = c.SetMode(sketch.ModeGreyscale)

	for i := 0; i < 3; i++ {
		color, _ := c.Fill(0, 0)
		fmt.Println(color)
	}
	// Output:
	// rgb(229, 229, 229)
	// rgb(203, 203, 203)
	// rgb(177, 177, 177)
}

func ExampleController_ChangeSize() {
	c := sketch.New()
	answers := []string{"1", "100", "8"}
	p := sketch.PrompterFunc(func(string) (string, bool) {
		a := answers[0]
		answers = answers[1:]
		return a, true
	})

	changed, _ := c.ChangeSize(p)
	fmt.Println(changed, c.Size(), c.Len())
	// Output:
	// true 8 64
}

func ExampleController_Dispatch() {
	c := sketch.New()
	_ = c.Dispatch(sketch.HoverEvent{Row: 2, Col: 3})
	color, _ := c.At(2, 3)
	fmt.Println(color.Hex())

	_ = c.Dispatch(sketch.ClearEvent{})
	color, _ = c.At(2, 3)
	fmt.Println(color.Hex())
	// Output:
	// #000000
	// #ffffff
}
