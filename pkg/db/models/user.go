package models

import "time"

// User is a local user record resolved from a forge identity.
type User struct {
	ID        int64     `db:"id"`
	RemoteID  int64     `db:"remote_id"`
	Login     string    `db:"login"`
	AvatarURL string    `db:"avatar_url"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
