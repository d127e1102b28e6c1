package appearanceservice

import (
	appearancedb "github.com/barberscore/scoring-api/app/modules/appearance/infrastructure/repositories"
)

// varianceFlagged reports whether any scoring category's official scores for
// one song spread past the threshold. Two tests apply per category: the range
// between the highest and lowest score, and any single score's distance from
// the category mean. Either past the threshold flags the song.
func varianceFlagged(scores []appearancedb.Score, threshold int) bool {
	for _, category := range scoringCategories {
		var points []int
		for _, sc := range scores {
			if sc.Kind != appearancedb.ScoreKindOfficial || sc.Category != category || sc.Points == nil {
				continue
			}
			points = append(points, *sc.Points)
		}
		if len(points) < 2 {
			continue
		}

		minP, maxP, sum := points[0], points[0], 0
		for _, p := range points {
			if p < minP {
				minP = p
			}
			if p > maxP {
				maxP = p
			}
			sum += p
		}
		if maxP-minP > threshold {
			return true
		}

		mean := float64(sum) / float64(len(points))
		for _, p := range points {
			if diff := float64(p) - mean; diff > float64(threshold) || -diff > float64(threshold) {
				return true
			}
		}
	}
	return false
}
