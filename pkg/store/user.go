package store

import (
	"context"

	"github.com/gitscope/gitscope/pkg/db"
	"github.com/gitscope/gitscope/pkg/db/models"
)

// UserStore is an interface for managing local user records.
type UserStore interface {
	GetUserByID(ctx context.Context, h db.Handler, id int64) (models.User, error)
	FindUserByRemoteID(ctx context.Context, h db.Handler, remoteID int64) (models.User, error)
	GetAllUsers(ctx context.Context, h db.Handler) ([]models.User, error)
	CreateUser(ctx context.Context, h db.Handler, remoteID int64, login string, avatarURL string) (int64, error)
	UpdateUserByRemoteID(ctx context.Context, h db.Handler, remoteID int64, login string, avatarURL string) error
}
