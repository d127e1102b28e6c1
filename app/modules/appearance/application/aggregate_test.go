package appearanceservice

import (
	"testing"

	appearancedb "github.com/barberscore/scoring-api/app/modules/appearance/infrastructure/repositories"
	"github.com/barberscore/scoring-api/app/shared/types"
)

func TestSumOfficial(t *testing.T) {
	songID := types.NewSongID()

	t.Run("practice and unscored categories are ignored", func(t *testing.T) {
		scores := scoreSet(songID, intPtr(80), intPtr(82), intPtr(84))
		scores = append(scores,
			appearancedb.Score{Kind: appearancedb.ScoreKindPractice, Category: appearancedb.ScoreCategoryMusic, Points: intPtr(99)},
			appearancedb.Score{Kind: appearancedb.ScoreKindOfficial, Category: appearancedb.ScoreCategoryCA, Points: intPtr(99)},
		)
		p := sumOfficial(scores)
		if !p.Complete {
			t.Fatal("expected complete set")
		}
		if p.Mus != 80 || p.Per != 82 || p.Sng != 84 || p.Tot() != 246 {
			t.Errorf("unexpected sums: %+v", p)
		}
	})

	t.Run("one unset official score marks the set incomplete", func(t *testing.T) {
		p := sumOfficial(scoreSet(songID, intPtr(80), nil, intPtr(84)))
		if p.Complete {
			t.Fatal("expected incomplete set")
		}
	})
}

func TestDerivedScore(t *testing.T) {
	tests := []struct {
		name       string
		points     int
		panelSize  int
		multiplier int
		want       float64
	}{
		{"song category single panel", 85, 1, 1, 85.0},
		{"song total single panel", 255, 1, 3, 85.0},
		{"appearance total single panel", 510, 1, 6, 85.0},
		{"three-judge panel rounds to one decimal", 742, 3, 3, 82.4},
		{"exact division", 765, 3, 3, 85.0},
		{"rounds half up", 1531, 6, 3, 85.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := derivedScore(tt.points, tt.panelSize, tt.multiplier)
			if got != tt.want {
				t.Errorf("derivedScore(%d, %d, %d) = %v, want %v", tt.points, tt.panelSize, tt.multiplier, got, tt.want)
			}
		})
	}
}

func TestVarianceFlagged(t *testing.T) {
	songID := types.NewSongID()
	official := func(category appearancedb.ScoreCategory, points int) appearancedb.Score {
		return appearancedb.Score{SongID: songID, Kind: appearancedb.ScoreKindOfficial, Category: category, Points: intPtr(points)}
	}

	tests := []struct {
		name   string
		scores []appearancedb.Score
		want   bool
	}{
		{
			name: "tight spread passes",
			scores: []appearancedb.Score{
				official(appearancedb.ScoreCategoryMusic, 84),
				official(appearancedb.ScoreCategoryMusic, 86),
				official(appearancedb.ScoreCategoryMusic, 88),
			},
			want: false,
		},
		{
			name: "range past threshold flags",
			scores: []appearancedb.Score{
				official(appearancedb.ScoreCategoryMusic, 80),
				official(appearancedb.ScoreCategoryMusic, 86),
			},
			want: true,
		},
		{
			name: "spread across categories does not flag",
			scores: []appearancedb.Score{
				official(appearancedb.ScoreCategoryMusic, 70),
				official(appearancedb.ScoreCategorySinging, 90),
			},
			want: false,
		},
		{
			name: "single score per category never flags",
			scores: []appearancedb.Score{
				official(appearancedb.ScoreCategoryMusic, 70),
			},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := varianceFlagged(tt.scores, 5); got != tt.want {
				t.Errorf("varianceFlagged = %v, want %v", got, tt.want)
			}
		})
	}
}
