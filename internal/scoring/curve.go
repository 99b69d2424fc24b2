package scoring

import "github.com/jonathan/candidate-evaluator/internal/config"

// interpolate evaluates a piecewise-linear curve at x. Points must have strictly
// increasing ratios; values outside the range take the nearest end point.
func interpolate(points []config.CurvePoint, x float64) float64 {
	if len(points) == 0 {
		return 0
	}
	if x <= points[0].Ratio {
		return points[0].Score
	}
	last := points[len(points)-1]
	if x >= last.Ratio {
		return last.Score
	}
	for i := 1; i < len(points); i++ {
		lo, hi := points[i-1], points[i]
		if x <= hi.Ratio {
			t := (x - lo.Ratio) / (hi.Ratio - lo.Ratio)
			return lo.Score + t*(hi.Score-lo.Score)
		}
	}
	return last.Score
}
