package systems

// Clamp functions for common value ranges

// clampFloat clamps a value between min and max.
func clampFloat(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// clamp01 clamps a value to the [0, 1] range.
func clamp01(v float64) float64 {
	return clampFloat(v, 0, 1)
}

// Distance functions

// distanceSq returns the squared distance between two points.
func distanceSq(x1, y1, x2, y2 float64) float64 {
	dx := x1 - x2
	dy := y1 - y2
	return dx*dx + dy*dy
}

// Normalize maps v from [start, end] onto [0, 1] without clamping.
func Normalize(start, end, v float64) float64 {
	return (v - start) / (end - start)
}
