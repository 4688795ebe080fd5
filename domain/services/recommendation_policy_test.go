package services

import (
	"testing"
	"time"

	"techknowledgepills/domain/core/entities"
	"techknowledgepills/domain/core/valueobjects"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func pill(id string, typ valueobjects.ContentType, age time.Duration) *entities.Content {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return &entities.Content{ID: id, Title: id, Type: typ, CreatedAt: base.Add(-age)}
}

func ids(cs []*entities.Content) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}

func TestRecommendationPolicy(t *testing.T) {
	all := []*entities.Content{
		pill("old-article", valueobjects.ContentTypeArticle, 72*time.Hour),
		pill("quiz", valueobjects.ContentTypeQuiz, time.Hour),
		pill("video", valueobjects.ContentTypeVideo, 2*time.Hour),
		pill("new-article", valueobjects.ContentTypeArticle, 0),
	}

	t.Run("orders newest first and keeps quizzes at normal stress", func(t *testing.T) {
		p := NewRecommendationPolicy(10)
		got := p.Recommend(all, nil, valueobjects.StressLevelMedium)
		want := []string{"new-article", "quiz", "video", "old-article"}
		if diff := cmp.Diff(want, ids(got)); diff != "" {
			t.Errorf("unexpected order (-want +got):\n%s", diff)
		}
	})

	t.Run("drops quizzes under elevated stress", func(t *testing.T) {
		p := NewRecommendationPolicy(10)
		for _, level := range []valueobjects.StressLevel{valueobjects.StressLevelHigh, valueobjects.StressLevelCritical} {
			got := p.Recommend(all, nil, level)
			assert.Equal(t, []string{"new-article", "video", "old-article"}, ids(got))
		}
	})

	t.Run("excludes completed pills", func(t *testing.T) {
		p := NewRecommendationPolicy(10)
		got := p.Recommend(all, map[string]bool{"new-article": true, "quiz": true}, valueobjects.StressLevelLow)
		assert.Equal(t, []string{"video", "old-article"}, ids(got))
	})

	t.Run("caps the result", func(t *testing.T) {
		p := NewRecommendationPolicy(2)
		got := p.Recommend(all, nil, valueobjects.StressLevelLow)
		assert.Len(t, got, 2)
		assert.Equal(t, "old-article", all[0].ID, "input must not be reordered")
	})
}

func TestEffectiveLevel(t *testing.T) {
	assert.Equal(t, valueobjects.StressLevelMedium, EffectiveLevel(nil))
	assert.Equal(t, valueobjects.StressLevelCritical, EffectiveLevel(&entities.StressIndicator{Level: valueobjects.StressLevelCritical}))
}
