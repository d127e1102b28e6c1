package appearanceservice

import (
	"math"

	appearancedb "github.com/barberscore/scoring-api/app/modules/appearance/infrastructure/repositories"
)

// scoringCategories in canonical order.
var scoringCategories = []appearancedb.ScoreCategory{
	appearancedb.ScoreCategoryMusic,
	appearancedb.ScoreCategoryPerformance,
	appearancedb.ScoreCategorySinging,
}

// categoryPoints holds summed official points per category. Complete is false
// while any official score is still unset; no aggregate may be derived from
// an incomplete set.
type categoryPoints struct {
	Mus, Per, Sng int
	Complete      bool
}

// Tot is the sum across categories.
func (p categoryPoints) Tot() int { return p.Mus + p.Per + p.Sng }

// sumOfficial sums official points per category for one song's scores.
func sumOfficial(scores []appearancedb.Score) categoryPoints {
	p := categoryPoints{Complete: true}
	for _, sc := range scores {
		if sc.Kind != appearancedb.ScoreKindOfficial || !sc.Category.Scored() {
			continue
		}
		if sc.Points == nil {
			p.Complete = false
			continue
		}
		switch sc.Category {
		case appearancedb.ScoreCategoryMusic:
			p.Mus += *sc.Points
		case appearancedb.ScoreCategoryPerformance:
			p.Per += *sc.Points
		case appearancedb.ScoreCategorySinging:
			p.Sng += *sc.Points
		}
	}
	return p
}

// derivedScore converts raw points to the published percentage: points over
// the panel size times the song-category multiplier, rounded to one decimal.
func derivedScore(points, panelSize, multiplier int) float64 {
	raw := float64(points) / float64(panelSize*multiplier)
	return math.Round(raw*10) / 10
}

// applySongAggregates writes the song's point and score fields from its
// summed official points. Multiplier 1 per category, 3 for the total.
func applySongAggregates(song *appearancedb.Song, p categoryPoints, panelSize int) {
	mus, per, sng, tot := p.Mus, p.Per, p.Sng, p.Tot()
	song.MusPoints, song.PerPoints, song.SngPoints, song.TotPoints = &mus, &per, &sng, &tot

	musScore := derivedScore(mus, panelSize, 1)
	perScore := derivedScore(per, panelSize, 1)
	sngScore := derivedScore(sng, panelSize, 1)
	totScore := derivedScore(tot, panelSize, 3)
	song.MusScore, song.PerScore, song.SngScore, song.TotScore = &musScore, &perScore, &sngScore, &totScore
}

// applyAppearanceAggregates writes the appearance's point and score fields
// summed over its songs. Multiplier 2 per category (two songs), 6 for the
// total.
func applyAppearanceAggregates(appearance *appearancedb.Appearance, songPoints []categoryPoints, panelSize int) {
	var mus, per, sng int
	for _, p := range songPoints {
		mus += p.Mus
		per += p.Per
		sng += p.Sng
	}
	tot := mus + per + sng
	appearance.MusPoints, appearance.PerPoints, appearance.SngPoints, appearance.TotPoints = &mus, &per, &sng, &tot

	musScore := derivedScore(mus, panelSize, appearancedb.SongsPerAppearance)
	perScore := derivedScore(per, panelSize, appearancedb.SongsPerAppearance)
	sngScore := derivedScore(sng, panelSize, appearancedb.SongsPerAppearance)
	totScore := derivedScore(tot, panelSize, appearancedb.SongsPerAppearance*3)
	appearance.MusScore, appearance.PerScore, appearance.SngScore, appearance.TotScore = &musScore, &perScore, &sngScore, &totScore
}
