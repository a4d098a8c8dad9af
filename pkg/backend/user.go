package backend

import (
	"context"
	"errors"

	"github.com/gitscope/gitscope/pkg/db"
	"github.com/gitscope/gitscope/pkg/db/models"
	"github.com/gitscope/gitscope/pkg/forge"
)

// ResolveUser maps a forge identity to a local user record, creating it on
// first sight and refreshing the login and avatar when they changed upstream.
// It returns the local user id. Resolutions are cached per remote id.
func (b *Backend) ResolveUser(ctx context.Context, identity forge.Identity) (int64, error) {
	if id, ok := b.users.Get(identity.RemoteID); ok {
		return id, nil
	}

	var id int64
	if err := b.db.TransactionContext(ctx, func(tx *db.Tx) error {
		user, err := b.store.FindUserByRemoteID(ctx, tx, identity.RemoteID)
		if err != nil {
			if !errors.Is(err, db.ErrRecordNotFound) {
				return err
			}

			id, err = b.store.CreateUser(ctx, tx, identity.RemoteID, identity.Login, identity.AvatarURL)
			if err != nil {
				return err
			}

			b.logger.Debug("created user", "remote_id", identity.RemoteID, "login", identity.Login)
			return nil
		}

		id = user.ID
		if user.Login != identity.Login || user.AvatarURL != identity.AvatarURL {
			return b.store.UpdateUserByRemoteID(ctx, tx, identity.RemoteID, identity.Login, identity.AvatarURL)
		}

		return nil
	}); err != nil {
		return 0, err
	}

	b.users.Add(identity.RemoteID, id)
	return id, nil
}

// User returns the local user with the given id.
func (b *Backend) User(ctx context.Context, id int64) (models.User, error) {
	user, err := b.store.GetUserByID(ctx, b.db, id)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}

	return user, nil
}

// Users returns all local user records ordered by login.
func (b *Backend) Users(ctx context.Context) ([]models.User, error) {
	return b.store.GetAllUsers(ctx, b.db)
}
