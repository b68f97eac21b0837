package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// hashCost はテストで下げられるよう変数にしています。
var hashCost = bcrypt.DefaultCost

// User は登録済みのユーザーです。パスワードのハッシュは含みません。
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreateUser はパスワードをbcryptでハッシュ化してユーザーを登録します。
func (s *Store) CreateUser(ctx context.Context, name, email, password string) (User, error) {
	email = strings.TrimSpace(email)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return User{}, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM users WHERE email = ?`, email).Scan(&exists)
	if err != nil {
		return User{}, fmt.Errorf("failed to check email: %w", err)
	}
	if exists > 0 {
		return User{}, ErrEmailTaken
	}

	res, err := tx.ExecContext(ctx, `INSERT INTO users (name, email, password) VALUES (?, ?, ?)`, name, email, string(hash))
	if err != nil {
		return User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return User{}, fmt.Errorf("failed to read user id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return User{}, fmt.Errorf("failed to commit user: %w", err)
	}
	return User{ID: id, Name: name, Email: email}, nil
}

// Authenticate はメールアドレスとパスワードを照合します。
func (s *Store) Authenticate(ctx context.Context, email, password string) (User, error) {
	var u User
	var hash string
	err := s.db.QueryRowContext(ctx, `SELECT id, name, email, password FROM users WHERE email = ?`, strings.TrimSpace(email)).
		Scan(&u.ID, &u.Name, &u.Email, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("failed to query user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return User{}, ErrWrongPassword
	}
	return u, nil
}

// IsRegistered はメールアドレスが登録済みかを返します。空文字は常に false です。
func (s *Store) IsRegistered(ctx context.Context, email string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return false, nil
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM users WHERE email = ?`, email).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to query user: %w", err)
	}
	return n > 0, nil
}
