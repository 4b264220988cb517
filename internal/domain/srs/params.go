package srs

import "fmt"

// Weights is the calibrated parameter vector of the memory model.
//
//	w[0..3]   initial stability per rating
//	w[4..7]   difficulty
//	w[8..10]  stability growth after recall
//	w[11..14] stability after a lapse
//	w[15..16] hard penalty, easy bonus
//	w[17..19] same-day reviews
//	w[20]     forgetting-curve decay
type Weights [21]float64

// DefaultWeights are the published FSRS-6 defaults.
var DefaultWeights = Weights{
	0.212, 1.2931, 2.3065, 8.2956,
	6.4133, 0.8334, 3.0194, 0.001,
	1.8722, 0.1666, 0.796, 1.4835,
	0.0614, 0.2629, 1.6483, 0.6014,
	1.8729, 0.5425, 0.0912, 0.0658,
	0.1542,
}

var (
	weightsLower = Weights{
		0.001, 0.001, 0.001, 0.001,
		1.0, 0.001, 0.001, 0.001,
		0.0, 0.0, 0.001, 0.001,
		0.001, 0.001, 0.0, 0.0,
		1.0, 0.0, 0.0, 0.0,
		0.1,
	}
	weightsUpper = Weights{
		100.0, 100.0, 100.0, 100.0,
		10.0, 4.0, 4.0, 0.75,
		4.5, 0.8, 3.5, 5.0,
		0.25, 0.9, 4.0, 1.0,
		6.0, 2.0, 2.0, 0.8,
		0.8,
	}
)

// Validate checks every weight against its allowed range.
func (w Weights) Validate() error {
	for i := range w {
		if w[i] < weightsLower[i] || w[i] > weightsUpper[i] {
			return fmt.Errorf("%w: w[%d] = %g outside [%g, %g]",
				ErrInvalidWeights, i, w[i], weightsLower[i], weightsUpper[i])
		}
	}
	return nil
}
