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

type userStore struct {
	db *sql.DB
}

var _ ports.UserRepository = (*userStore)(nil)

func (s *userStore) Create(ctx context.Context, u *entities.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, created_at, last_login)
		VALUES (?, ?, ?, ?, ?)
	`, u.ID, u.Email, u.PasswordHash, formatTime(u.CreatedAt), formatNullTime(u.LastLogin))
	if isUniqueViolation(err) {
		return pkgerrors.ErrEmailTaken
	}
	if err != nil {
		return pkgerrors.NewDatabaseError("create user", err)
	}
	return nil
}

func (s *userStore) GetByID(ctx context.Context, id string) (*entities.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at, last_login FROM users WHERE id = ?
	`, id)
	return scanUser(row)
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at, last_login FROM users WHERE email = ?
	`, entities.NormalizeEmail(email))
	return scanUser(row)
}

func (s *userStore) Update(ctx context.Context, u *entities.User) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET password_hash = ?, last_login = ? WHERE id = ?
	`, u.PasswordHash, formatNullTime(u.LastLogin), u.ID)
	if err != nil {
		return pkgerrors.NewDatabaseError("update user", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return pkgerrors.ErrUserNotFound
	}
	return nil
}

func scanUser(row scanner) (*entities.User, error) {
	var (
		u         entities.User
		createdAt string
		lastLogin sql.NullString
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &createdAt, &lastLogin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkgerrors.ErrUserNotFound
	}
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("scan user", err)
	}
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("user %s: %w", u.ID, err)
	}
	if u.LastLogin, err = parseNullTime(lastLogin); err != nil {
		return nil, fmt.Errorf("user %s: %w", u.ID, err)
	}
	return &u, nil
}
