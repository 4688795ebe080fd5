package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"techknowledgepills/application/ports"
	"techknowledgepills/domain/core/entities"
	"techknowledgepills/domain/core/valueobjects"
	pkgerrors "techknowledgepills/pkg/errors"
)

const contentColumns = `id, title, type, body, video_url, quiz_data, tags, created_at, updated_at`

type contentStore struct {
	db *sql.DB
}

var _ ports.ContentRepository = (*contentStore)(nil)

const upsertContent = `
	INSERT INTO contents (` + contentColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		title = excluded.title,
		type = excluded.type,
		body = excluded.body,
		video_url = excluded.video_url,
		quiz_data = excluded.quiz_data,
		tags = excluded.tags,
		updated_at = excluded.updated_at
`

func (s *contentStore) Save(ctx context.Context, c *entities.Content) error {
	if _, err := s.db.ExecContext(ctx, upsertContent, contentArgs(c)...); err != nil {
		return pkgerrors.NewDatabaseError("save content", err)
	}
	return nil
}

func (s *contentStore) SaveBatch(ctx context.Context, contents []*entities.Content) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, upsertContent)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, c := range contents {
		if _, err := stmt.ExecContext(ctx, contentArgs(c)...); err != nil {
			return pkgerrors.NewDatabaseError("save content", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *contentStore) GetByID(ctx context.Context, id string) (*entities.Content, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+contentColumns+` FROM contents WHERE id = ?`, id)
	c, err := scanContent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkgerrors.ErrContentNotFound
	}
	return c, err
}

func (s *contentStore) List(ctx context.Context) ([]*entities.Content, error) {
	return s.query(ctx, `SELECT `+contentColumns+` FROM contents ORDER BY created_at DESC, id`)
}

func (s *contentStore) ListByType(ctx context.Context, t valueobjects.ContentType) ([]*entities.Content, error) {
	return s.query(ctx, `SELECT `+contentColumns+` FROM contents WHERE type = ? ORDER BY created_at DESC, id`, int(t))
}

func (s *contentStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM contents WHERE id = ?`, id); err != nil {
		return pkgerrors.NewDatabaseError("delete content", err)
	}
	return nil
}

func (s *contentStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contents`).Scan(&n); err != nil {
		return 0, pkgerrors.NewDatabaseError("count content", err)
	}
	return n, nil
}

func (s *contentStore) query(ctx context.Context, q string, args ...any) ([]*entities.Content, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("query content", err)
	}
	defer rows.Close()

	out := []*entities.Content{}
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.NewDatabaseError("iterate content", err)
	}
	return out, nil
}

func contentArgs(c *entities.Content) []any {
	return []any{
		c.ID, c.Title, int(c.Type), c.Body, c.VideoURL, c.QuizData,
		strings.Join(c.Tags, ","), formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
	}
}

func scanContent(row scanner) (*entities.Content, error) {
	var (
		c                    entities.Content
		typ                  int
		tags                 string
		createdAt, updatedAt string
	)
	if err := row.Scan(&c.ID, &c.Title, &typ, &c.Body, &c.VideoURL, &c.QuizData, &tags, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	c.Type = valueobjects.ContentType(typ)
	c.Tags = entities.SplitTags(tags)

	var err error
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("content %s: %w", c.ID, err)
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("content %s: %w", c.ID, err)
	}
	return &c, nil
}
