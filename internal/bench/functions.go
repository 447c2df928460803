package bench

import (
	"github.com/born-ml/gradtape/internal/autodiff"
	"github.com/born-ml/gradtape/internal/control"
)

// Loop sizes.
const (
	SmallLoopIterations = 8
	LoopIterations      = 100
)

// OneOperation returns a * 2.
func OneOperation(a autodiff.Var) autodiff.Var {
	return a.MulConst(2)
}

func oneOperationHelper(a autodiff.Var) autodiff.Var {
	return autodiff.ConstDiv(3, a)
}

// ThreeOverTimesTwo returns 3 / a * 2.
func ThreeOverTimesTwo(a autodiff.Var) autodiff.Var {
	return autodiff.ConstDiv(3, a).MulConst(2)
}

// SixteenOperations applies 3 / a * 2 eight times.
func SixteenOperations(a autodiff.Var) autodiff.Var {
	for range 8 {
		a = ThreeOverTimesTwo(a)
	}
	return a
}

// TwoComposedOperations returns 3 / (a * 2) through two helper calls.
func TwoComposedOperations(a autodiff.Var) autodiff.Var {
	return oneOperationHelper(OneOperation(a))
}

// SixteenComposedOperations alternates the two helpers sixteen times.
func SixteenComposedOperations(a autodiff.Var) autodiff.Var {
	for range 8 {
		a = oneOperationHelper(OneOperation(a))
	}
	return a
}

// Looped returns a function that applies body perIter times in each of
// iterations loop iterations.
func Looped(iterations, perIter int, body func(autodiff.Var) autodiff.Var) func(autodiff.Var) autodiff.Var {
	return func(a autodiff.Var) autodiff.Var {
		return control.Repeat(iterations, a, func(_ int, a autodiff.Var) autodiff.Var {
			for range perIter {
				a = body(a)
			}
			return a
		})
	}
}
