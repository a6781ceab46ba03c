package sentnet

import (
	"fmt"
	"math"
)

// CorrectRound reports whether every output rounds to its target: values
// below 0.5 count as 0, values above as 1. It is the correctness condition
// for sigmoid outputs with binary targets.
//
// assumes len(outs) == len(targets)
func CorrectRound(outs, targets []float64) bool {
	for i := range outs {
		if math.Round(outs[i]) != targets[i] {
			return false
		}
	}

	return true
}

// TrainUntil returns a function that satisfies TrainArgs.RunCondition,
// stopping after the given number of iterations.
func TrainUntil(maxIterations int) func(int) bool {
	return func(iteration int) bool {
		return iteration < maxIterations
	}
}

// EndEvery returns a function that is true whenever the iteration is a
// positive multiple of 'frequency'. It satisfies DataSupplier.BatchEnded and
// DataSupplier.DoneTesting, in units of processed samples.
func EndEvery(frequency int) func(int) bool {
	if frequency == 1 {
		return func(iteration int) bool {
			return true
		}
	}

	return func(iteration int) bool {
		return iteration != 0 && iteration%frequency == 0
	}
}

// Every returns a function that satisfies TrainArgs.SendStatus or
// TrainArgs.ShouldTest. 'frequency' is in units of iterations.
func Every(frequency int) func(int) bool {
	return func(iteration int) bool {
		return iteration%frequency == 0
	}
}

// PrintResult returns an Update function for TrainArgs that prints each
// Result as a row, plus a closing function that finishes the table.
func PrintResult() (update func(Result), final func()) {
	header := false

	update = func(r Result) {
		if !header {
			fmt.Println("Iteration, Cost, % Correct, Is Test")
			header = true
		}

		t := 0
		if r.IsTest {
			t = 1
		}

		fmt.Printf("%d, %.5f, %.2f, %d\n", r.Iteration, r.Cost, 100*r.Correct, t)
	}

	final = func() {
		if header {
			fmt.Println()
		}
	}

	return
}
