package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"techknowledgepills/application/ports"
	"techknowledgepills/domain/core/entities"
	pkgerrors "techknowledgepills/pkg/errors"
)

const cipherColumns = `id, user_id, key_name, encrypted_data, description, algorithm, is_active, created_at, updated_at`

type cipherStore struct {
	db *sql.DB
}

var _ ports.CipherRepository = (*cipherStore)(nil)

func (s *cipherStore) Save(ctx context.Context, c *entities.Cipher) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ciphers (`+cipherColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			key_name = excluded.key_name,
			encrypted_data = excluded.encrypted_data,
			description = excluded.description,
			algorithm = excluded.algorithm,
			is_active = excluded.is_active,
			updated_at = excluded.updated_at
	`, c.ID, c.UserID, c.KeyName, c.EncryptedData, nullString(c.Description), c.Algorithm,
		c.IsActive, formatTime(c.CreatedAt), formatNullTime(c.UpdatedAt))
	if isUniqueViolation(err) {
		return pkgerrors.ErrDuplicateCipher
	}
	if err != nil {
		return pkgerrors.NewDatabaseError("save cipher", err)
	}
	return nil
}

func (s *cipherStore) GetByID(ctx context.Context, userID, id string) (*entities.Cipher, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+cipherColumns+` FROM ciphers WHERE user_id = ? AND id = ?`, userID, id)
	return scanCipherRow(row)
}

func (s *cipherStore) GetByKeyName(ctx context.Context, userID, keyName string) (*entities.Cipher, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+cipherColumns+` FROM ciphers WHERE user_id = ? AND key_name = ?`, userID, keyName)
	return scanCipherRow(row)
}

func (s *cipherStore) ListByUser(ctx context.Context, userID string) ([]*entities.Cipher, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+cipherColumns+` FROM ciphers
		WHERE user_id = ? ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("query ciphers", err)
	}
	defer rows.Close()

	out := []*entities.Cipher{}
	for rows.Next() {
		c, err := scanCipher(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.NewDatabaseError("iterate ciphers", err)
	}
	return out, nil
}

func (s *cipherStore) Delete(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM ciphers WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return pkgerrors.NewDatabaseError("delete cipher", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return pkgerrors.ErrCipherNotFound
	}
	return nil
}

func scanCipherRow(row *sql.Row) (*entities.Cipher, error) {
	c, err := scanCipher(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkgerrors.ErrCipherNotFound
	}
	return c, err
}

func scanCipher(row scanner) (*entities.Cipher, error) {
	var (
		c           entities.Cipher
		description sql.NullString
		createdAt   string
		updatedAt   sql.NullString
	)
	if err := row.Scan(&c.ID, &c.UserID, &c.KeyName, &c.EncryptedData, &description,
		&c.Algorithm, &c.IsActive, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	c.Description = stringPtr(description)

	var err error
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("cipher %s: %w", c.ID, err)
	}
	if c.UpdatedAt, err = parseNullTime(updatedAt); err != nil {
		return nil, fmt.Errorf("cipher %s: %w", c.ID, err)
	}
	return &c, nil
}
