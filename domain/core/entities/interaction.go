package entities

import (
	"time"

	"techknowledgepills/domain/config"
	"techknowledgepills/domain/events"
	pkgerrors "techknowledgepills/pkg/errors"
)

// Interaction records that a user completed a pill
type Interaction struct {
	ID          string
	UserID      string
	ContentID   string
	Rating      *int
	CompletedAt time.Time

	events []events.DomainEvent
}

// NewInteraction builds a completion record. Rating is optional.
func NewInteraction(id, userID, contentID string, rating *int, now time.Time, cfg *config.DomainConfig) (*Interaction, error) {
	if userID == "" || contentID == "" {
		return nil, pkgerrors.NewValidationError("user id and content id are required")
	}
	if rating != nil && (*rating < cfg.MinRating || *rating > cfg.MaxRating) {
		return nil, pkgerrors.ErrInvalidRating
	}

	i := &Interaction{
		ID:          id,
		UserID:      userID,
		ContentID:   contentID,
		Rating:      rating,
		CompletedAt: now.UTC(),
	}
	i.events = append(i.events, events.NewContentCompleted(id, userID, contentID, rating, i.CompletedAt))
	return i, nil
}

// GetUncommittedEvents returns events raised since the last commit
func (i *Interaction) GetUncommittedEvents() []events.DomainEvent {
	return i.events
}

// MarkEventsAsCommitted clears pending events
func (i *Interaction) MarkEventsAsCommitted() {
	i.events = nil
}
