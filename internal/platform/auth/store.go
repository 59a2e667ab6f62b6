package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type User struct {
	UserID       string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
}

type AccountStore interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, userID string) (*User, error)
	Create(ctx context.Context, u *User) error
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) AccountStore {
	return &Store{db: db}
}

// 見つからなければ (nil, nil) を返す（呼び出し側で存在チェックに使う）
func (s *Store) GetByEmail(ctx context.Context, email string) (*User, error) {
	const q = `
SELECT user_id, name, email, password_hash, role, is_active, created_at
FROM users
WHERE email = ?
LIMIT 1
`
	return s.scanOne(s.db.QueryRowContext(ctx, q, email))
}

func (s *Store) GetByID(ctx context.Context, userID string) (*User, error) {
	const q = `
SELECT user_id, name, email, password_hash, role, is_active, created_at
FROM users
WHERE user_id = ?
LIMIT 1
`
	return s.scanOne(s.db.QueryRowContext(ctx, q, userID))
}

func (s *Store) Create(ctx context.Context, u *User) error {
	const q = `
INSERT INTO users (user_id, name, email, password_hash, role, is_active, created_at)
VALUES (?, ?, ?, ?, ?, 1, ?)
`
	_, err := s.db.ExecContext(ctx, q, u.UserID, u.Name, u.Email, u.PasswordHash, u.Role, u.CreatedAt)
	return err
}

func (s *Store) scanOne(row *sql.Row) (*User, error) {
	var u User
	var isActiveInt int
	err := row.Scan(
		&u.UserID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&isActiveInt,
		&u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.IsActive = isActiveInt != 0
	return &u, nil
}
