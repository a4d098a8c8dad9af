package database

import (
	"errors"
	"testing"

	"github.com/gitscope/gitscope/pkg/db"
	"github.com/matryer/is"
)

func TestCreateAndFindUser(t *testing.T) {
	is := is.New(t)
	ctx, dbx, s := setupTestDB(t)

	id, err := s.CreateUser(ctx, dbx, 42, "ada", "https://example.com/a.png")
	is.NoErr(err)
	is.True(id > 0)

	user, err := s.FindUserByRemoteID(ctx, dbx, 42)
	is.NoErr(err)
	is.Equal(user.ID, id)
	is.Equal(user.Login, "ada")

	byID, err := s.GetUserByID(ctx, dbx, id)
	is.NoErr(err)
	is.Equal(byID.RemoteID, int64(42))
}

func TestFindUserNotFound(t *testing.T) {
	is := is.New(t)
	ctx, dbx, s := setupTestDB(t)

	_, err := s.FindUserByRemoteID(ctx, dbx, 999)
	is.True(errors.Is(err, db.ErrRecordNotFound))
}

func TestCreateUserDuplicateRemoteID(t *testing.T) {
	is := is.New(t)
	ctx, dbx, s := setupTestDB(t)

	_, err := s.CreateUser(ctx, dbx, 42, "ada", "")
	is.NoErr(err)
	_, err = s.CreateUser(ctx, dbx, 42, "ada2", "")
	is.Equal(err, db.ErrDuplicateKey)
}

func TestUpdateUserByRemoteID(t *testing.T) {
	is := is.New(t)
	ctx, dbx, s := setupTestDB(t)

	_, err := s.CreateUser(ctx, dbx, 42, "ada", "old.png")
	is.NoErr(err)
	is.NoErr(s.UpdateUserByRemoteID(ctx, dbx, 42, "lovelace", "new.png"))

	user, err := s.FindUserByRemoteID(ctx, dbx, 42)
	is.NoErr(err)
	is.Equal(user.Login, "lovelace")
	is.Equal(user.AvatarURL, "new.png")
}
