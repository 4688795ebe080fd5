package services

import (
	"sort"

	"techknowledgepills/domain/core/entities"
	"techknowledgepills/domain/core/valueobjects"
)

// RecommendationPolicy picks what a user should read next
type RecommendationPolicy struct {
	limit int
}

// NewRecommendationPolicy creates a policy returning at most limit items
func NewRecommendationPolicy(limit int) *RecommendationPolicy {
	if limit <= 0 {
		limit = 10
	}
	return &RecommendationPolicy{limit: limit}
}

// EffectiveLevel treats a user with no readings as Medium
func EffectiveLevel(latest *entities.StressIndicator) valueobjects.StressLevel {
	if latest == nil {
		return valueobjects.StressLevelMedium
	}
	return latest.Level
}

// Recommend filters out completed pills, drops quizzes under elevated stress,
// and returns the newest first. The input slice is not modified.
func (p *RecommendationPolicy) Recommend(all []*entities.Content, completed map[string]bool, level valueobjects.StressLevel) []*entities.Content {
	out := make([]*entities.Content, 0, len(all))
	for _, c := range all {
		if completed[c.ID] {
			continue
		}
		if level.IsElevated() && !c.Type.IsLowEffort() {
			continue
		}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if len(out) > p.limit {
		out = out[:p.limit]
	}
	return out
}
