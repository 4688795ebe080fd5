package queries

import pkgerrors "techknowledgepills/pkg/errors"

// RecommendationsCacheKey is shared with the writers that invalidate it
func RecommendationsCacheKey(userID string) string {
	return "recommendations:" + userID
}

// RecommendationsQuery returns what a user should read next
type RecommendationsQuery struct {
	UserID string
}

func (q RecommendationsQuery) Validate() error {
	if q.UserID == "" {
		return pkgerrors.NewValidationError("user id is required")
	}
	return nil
}

func (q RecommendationsQuery) CacheKey() string { return RecommendationsCacheKey(q.UserID) }
