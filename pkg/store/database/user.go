package database

import (
	"context"

	"github.com/gitscope/gitscope/pkg/db"
	"github.com/gitscope/gitscope/pkg/db/models"
	"github.com/gitscope/gitscope/pkg/store"
)

type userStore struct{}

var _ store.UserStore = (*userStore)(nil)

// GetUserByID implements store.UserStore.
func (*userStore) GetUserByID(ctx context.Context, h db.Handler, id int64) (models.User, error) {
	var user models.User
	query := h.Rebind("SELECT * FROM users WHERE id = ?;")
	err := h.GetContext(ctx, &user, query, id)
	return user, db.WrapError(err)
}

// FindUserByRemoteID implements store.UserStore.
func (*userStore) FindUserByRemoteID(ctx context.Context, h db.Handler, remoteID int64) (models.User, error) {
	var user models.User
	query := h.Rebind("SELECT * FROM users WHERE remote_id = ?;")
	err := h.GetContext(ctx, &user, query, remoteID)
	return user, db.WrapError(err)
}

// GetAllUsers implements store.UserStore.
func (*userStore) GetAllUsers(ctx context.Context, h db.Handler) ([]models.User, error) {
	var users []models.User
	query := h.Rebind("SELECT * FROM users ORDER BY login;")
	err := h.SelectContext(ctx, &users, query)
	return users, db.WrapError(err)
}

// CreateUser implements store.UserStore.
func (*userStore) CreateUser(ctx context.Context, h db.Handler, remoteID int64, login string, avatarURL string) (int64, error) {
	var id int64
	query := h.Rebind(`INSERT INTO users (remote_id, login, avatar_url, updated_at)
			VALUES (?, ?, ?, CURRENT_TIMESTAMP) RETURNING id;`)
	err := h.GetContext(ctx, &id, query, remoteID, login, avatarURL)
	return id, db.WrapError(err)
}

// UpdateUserByRemoteID implements store.UserStore.
func (*userStore) UpdateUserByRemoteID(ctx context.Context, h db.Handler, remoteID int64, login string, avatarURL string) error {
	query := h.Rebind("UPDATE users SET login = ?, avatar_url = ?, updated_at = CURRENT_TIMESTAMP WHERE remote_id = ?;")
	_, err := h.ExecContext(ctx, query, login, avatarURL, remoteID)
	return db.WrapError(err)
}
