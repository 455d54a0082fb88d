package physics

import "math"

// WeightedVelocity estimates velocity from consecutive samples. The delta
// ending at sample i is weighted by (i/(n-1))^2, so the final movement of a
// flick dominates stale samples. Pairs with non-increasing timestamps are
// skipped. It returns 0 for fewer than two samples.
func WeightedVelocity(samples []Sample) float64 {
	n := len(samples)
	if n < 2 {
		return 0
	}

	var sum, total float64
	for i := 1; i < n; i++ {
		dt := samples[i].At.Sub(samples[i-1].At).Seconds()
		if dt <= 0 {
			continue
		}
		v := (samples[i].Position - samples[i-1].Position) / dt
		w := math.Pow(float64(i)/float64(n-1), 2)
		sum += v * w
		total += w
	}
	if total == 0 {
		return 0
	}
	return sum / total
}
