package neural

import "math"

// DistancePenaltyScale divides the distance to the gap center in Fitness.
const DistancePenaltyScale = 10.0

// Fitness scores a bird from its survival score and its signed, normalized
// distances to the nearest pipe gap. Birds closer to the gap center score
// higher for the same survival.
func Fitness(score, horizontal, vertical float64) float64 {
	return score - math.Sqrt(horizontal*horizontal+vertical*vertical)/DistancePenaltyScale
}
