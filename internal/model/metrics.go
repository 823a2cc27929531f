package model

import "math"

// evaluate computes RMSE, MAE and R² of predictions against observations.
func evaluate(predicted, observed []float64) Metrics {
	n := float64(len(observed))
	if n == 0 {
		return Metrics{}
	}

	var sumSqErr, sumAbsErr, sumObs float64
	for i := range observed {
		err := predicted[i] - observed[i]
		sumSqErr += err * err
		sumAbsErr += math.Abs(err)
		sumObs += observed[i]
	}
	mean := sumObs / n

	var totalSS float64
	for _, o := range observed {
		d := o - mean
		totalSS += d * d
	}

	r2 := 0.0
	if totalSS > 0 {
		r2 = 1 - sumSqErr/totalSS
	}
	return Metrics{
		RMSE: math.Sqrt(sumSqErr / n),
		MAE:  sumAbsErr / n,
		R2:   r2,
	}
}
