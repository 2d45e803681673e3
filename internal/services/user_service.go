package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AnshRaj112/journal-backend/internal/models"
	"github.com/AnshRaj112/journal-backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// uniqueViolation is the Postgres SQLSTATE for a duplicate key.
const uniqueViolation = "23505"

// UserStore manages accounts in Postgres. Usernames are stored lowercased and
// compared case-insensitively.
type UserStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db, now: time.Now}
}

// Register creates an account. The username and password must already be validated.
func (s *UserStore) Register(ctx context.Context, username, password string) (*models.User, error) {
	normalized := utils.NormalizeUsername(username)

	var existing string
	err := s.db.QueryRowContext(ctx,
		"SELECT username FROM users WHERE LOWER(username) = $1",
		normalized,
	).Scan(&existing)
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:        uuid.New(),
		Username:  normalized,
		CreatedAt: s.now().UTC(),
		IsActive:  true,
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, password_hash, created_at, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
	`, user.ID, user.Username, hash, user.CreatedAt)
	if err != nil {
		// a concurrent signup took the name between the check and the insert
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Authenticate checks the credentials and returns the account.
func (s *UserStore) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user := &models.User{Username: utils.NormalizeUsername(username)}
	var passwordHash string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, password_hash, created_at, is_active
		FROM users
		WHERE LOWER(username) = $1
	`, user.Username).Scan(&user.ID, &passwordHash, &user.CreatedAt, &user.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	valid, err := utils.VerifyPassword(password, passwordHash)
	if err != nil || !valid {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}
	return user, nil
}
