package train

import "gorgonia.org/vecf32"

// valueMSE computes a quick scalar MSE between predicted and target value
// vectors for progress logging, using gorgonia's vecf32 elementwise helpers
// instead of building a throwaway graph node for a number that's only ever
// printed, not backpropagated.
func valueMSE(predicted, target []float32) float32 {
	if len(predicted) != len(target) || len(predicted) == 0 {
		return 0
	}
	diff := make([]float32, len(predicted))
	copy(diff, predicted)
	vecf32.Sub(diff, target)
	vecf32.Mul(diff, diff)
	return vecf32.Sum(diff) / float32(len(diff))
}
