package sqlite

import (
	"context"
	"database/sql"

	"techknowledgepills/application/ports"
	"techknowledgepills/domain/core/entities"
	pkgerrors "techknowledgepills/pkg/errors"
)

type interactionStore struct {
	db *sql.DB
}

var _ ports.InteractionRepository = (*interactionStore)(nil)

func (s *interactionStore) Save(ctx context.Context, i *entities.Interaction) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO interactions (id, user_id, content_id, rating, completed_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, content_id) DO UPDATE SET
			rating = excluded.rating,
			completed_at = excluded.completed_at
	`, i.ID, i.UserID, i.ContentID, nullInt(i.Rating), formatTime(i.CompletedAt))
	if err != nil {
		return pkgerrors.NewDatabaseError("save interaction", err)
	}
	return nil
}

func (s *interactionStore) CompletedContentIDs(ctx context.Context, userID string) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT content_id FROM interactions WHERE user_id = ?`, userID)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("query interactions", err)
	}
	defer rows.Close()

	done := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, pkgerrors.NewDatabaseError("scan interaction", err)
		}
		done[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.NewDatabaseError("iterate interactions", err)
	}
	return done, nil
}
