package reddit

import (
	"sort"

	"github.com/minjae/threadlens/internal/domain"
)

// Strategy is the volume-aware comment sampling decision. MaxComments of
// zero means no cap.
type Strategy struct {
	Name        string
	MaxComments int
}

const (
	StrategyAll             = "all"
	StrategyTopPlusSampling = "top_plus_sampling"
	StrategyTopClustering   = "top_clustering"
)

// DetermineSamplingStrategy picks the strategy from the post's reported
// comment count. Small threads are taken whole; larger ones are capped so
// downstream enrichment stays bounded.
func DetermineSamplingStrategy(commentCount int) Strategy {
	switch {
	case commentCount < 50:
		return Strategy{Name: StrategyAll}
	case commentCount < 500:
		return Strategy{Name: StrategyTopPlusSampling, MaxComments: 100}
	default:
		return Strategy{Name: StrategyTopClustering, MaxComments: 200}
	}
}

// sampleByScore trims a top-level comment list down to maxComments: the top
// 70% by score, plus an even stride over the remainder so low-scored voices
// still appear.
func sampleByScore(comments []domain.Comment, maxComments int) []domain.Comment {
	if len(comments) <= maxComments {
		return comments
	}

	sorted := make([]domain.Comment, len(comments))
	copy(sorted, comments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	topCount := int(float64(maxComments) * 0.7)
	sampled := make([]domain.Comment, 0, maxComments)
	sampled = append(sampled, sorted[:topCount]...)

	remaining := sorted[topCount:]
	quota := maxComments - topCount
	if len(remaining) > 0 && quota > 0 {
		step := len(remaining) / quota
		if step < 1 {
			step = 1
		}
		for i := 0; i < len(remaining) && len(sampled) < maxComments; i += step {
			sampled = append(sampled, remaining[i])
		}
	}
	return sampled
}
