package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account in the users table. Only public profile data lives here.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	IsActive  bool      `json:"-"`
}
