package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"techknowledgepills/application/ports"
	"techknowledgepills/domain/core/entities"
	"techknowledgepills/domain/core/valueobjects"
	pkgerrors "techknowledgepills/pkg/errors"
)

const insertStress = `
	INSERT INTO stress_indicators (id, user_id, level, timestamp, notes, source)
	VALUES (?, ?, ?, ?, ?, ?)
`

type stressStore struct {
	db *sql.DB
}

var _ ports.StressIndicatorRepository = (*stressStore)(nil)

func (s *stressStore) Save(ctx context.Context, si *entities.StressIndicator) error {
	if _, err := s.db.ExecContext(ctx, insertStress, stressArgs(si)...); err != nil {
		return pkgerrors.NewDatabaseError("save stress indicator", err)
	}
	return nil
}

func (s *stressStore) SaveBatch(ctx context.Context, indicators []*entities.StressIndicator) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, insertStress)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, si := range indicators {
		if _, err := stmt.ExecContext(ctx, stressArgs(si)...); err != nil {
			return pkgerrors.NewDatabaseError("save stress indicator", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *stressStore) ListByUser(ctx context.Context, userID string) ([]*entities.StressIndicator, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, level, timestamp, notes, source
		FROM stress_indicators WHERE user_id = ?
		ORDER BY timestamp DESC, id
	`, userID)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("query stress indicators", err)
	}
	defer rows.Close()

	out := []*entities.StressIndicator{}
	for rows.Next() {
		si, err := scanStress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, si)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.NewDatabaseError("iterate stress indicators", err)
	}
	return out, nil
}

func (s *stressStore) LatestByUser(ctx context.Context, userID string) (*entities.StressIndicator, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, level, timestamp, notes, source
		FROM stress_indicators WHERE user_id = ?
		ORDER BY timestamp DESC, id LIMIT 1
	`, userID)
	si, err := scanStress(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkgerrors.ErrStressIndicatorNotFound
	}
	return si, err
}

func stressArgs(si *entities.StressIndicator) []any {
	return []any{si.ID, si.UserID, int(si.Level), formatTime(si.Timestamp), nullString(si.Notes), string(si.Source)}
}

func scanStress(row scanner) (*entities.StressIndicator, error) {
	var (
		si     entities.StressIndicator
		level  int
		ts     string
		notes  sql.NullString
		source string
	)
	if err := row.Scan(&si.ID, &si.UserID, &level, &ts, &notes, &source); err != nil {
		return nil, err
	}
	si.Level = valueobjects.StressLevel(level)
	si.Notes = stringPtr(notes)
	si.Source = entities.StressSource(source)

	var err error
	if si.Timestamp, err = parseTime(ts); err != nil {
		return nil, fmt.Errorf("stress indicator %s: %w", si.ID, err)
	}
	return &si, nil
}
