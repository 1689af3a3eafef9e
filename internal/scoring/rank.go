package scoring

import (
	"context"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nper79/styleai/pkg/models"
)

// RankedOutfit pairs a candidate with its score and its original position
// in the generation order.
type RankedOutfit struct {
	Index    int                    `json:"index"`
	OutfitID string                 `json:"outfit_id,omitempty"`
	Analysis *models.OutfitAnalysis `json:"analysis,omitempty"`
	OutfitScore
}

// Candidate is one outfit submitted for ranking.
type Candidate struct {
	OutfitID string                 `json:"outfit_id,omitempty"`
	Analysis *models.OutfitAnalysis `json:"analysis"`
}

// RankOutfits scores every candidate against the profile, drops vetoed
// candidates and those at or below the drop threshold, and returns the
// survivors sorted descending by score. Ties keep generation order.
//
// Scoring is read-only on the profile, so candidates are scored in
// parallel; the sequential-ingestion discipline applies only to feedback.
func (e *Engine) RankOutfits(ctx context.Context, profile *models.UserProfile, candidates []Candidate, now time.Time) ([]RankedOutfit, error) {
	scored := make([]RankedOutfit, len(candidates))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			scored[i] = RankedOutfit{
				Index:       i,
				OutfitID:    c.OutfitID,
				Analysis:    c.Analysis,
				OutfitScore: e.ScoreOutfitForUser(profile, c.Analysis, now),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	kept := scored[:0]
	for _, r := range scored {
		if r.ShouldAvoid || r.Score <= e.config.DropThreshold {
			continue
		}
		kept = append(kept, r)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Score > kept[j].Score
	})

	return kept, nil
}
