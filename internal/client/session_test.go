package client

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kelfit/internal/model"
)

func TestSessionStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")
	store := openStore(t, path)

	empty, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Session{}, empty)

	require.NoError(t, store.Save(ctx, Session{
		Token:        "a",
		RefreshToken: "r",
		User:         &model.User{ID: 1, Email: "a@x.com", Language: model.LanguageEN},
	}))
	require.NoError(t, store.Save(ctx, Session{Token: "b", RefreshToken: "r"}))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", got.Token)
	assert.Nil(t, got.User, "saving without a user drops the stored one")

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))

	got, err = store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, got.LoggedIn())
}

func TestSessionStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")

	first, err := OpenSessionStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Save(ctx, Session{
		Token: "a",
		User:  &model.User{ID: 3, Email: "c@x.com", Name: "Carla"},
	}))
	require.NoError(t, first.Close())

	second := openStore(t, path)
	got, err := second.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Token)
	require.NotNil(t, got.User)
	assert.Equal(t, "Carla", got.User.Name)
}
