package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareit/internal/domain"
	"shareit/internal/models"
)

func TestUserService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ann, err := env.users.CreateUser(ctx, &models.User{Name: "Ann", Email: "ann@example.com"})
	require.NoError(t, err)
	assert.NotZero(t, ann.ID)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := env.users.CreateUser(ctx, &models.User{Name: "Other", Email: "ann@example.com"})
		requireKind(t, err, domain.KindConflict)
	})

	t.Run("invalid email", func(t *testing.T) {
		for _, email := range []string{"", "plain", "a@", "a b@c.d"} {
			_, err := env.users.CreateUser(ctx, &models.User{Name: "X", Email: email})
			requireKind(t, err, domain.KindValidation)
		}
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := env.users.CreateUser(ctx, &models.User{Email: "noname@example.com"})
		requireKind(t, err, domain.KindValidation)
	})

	t.Run("partial update", func(t *testing.T) {
		name := "Anna"
		u, err := env.users.UpdateUser(ctx, ann.ID, models.UserPatch{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "Anna", u.Name)
		assert.Equal(t, "ann@example.com", u.Email)

		got, err := env.users.GetUser(ctx, ann.ID)
		require.NoError(t, err)
		assert.Equal(t, "Anna", got.Name)
	})

	t.Run("blank name in patch", func(t *testing.T) {
		blank := "   "
		_, err := env.users.UpdateUser(ctx, ann.ID, models.UserPatch{Name: &blank})
		requireKind(t, err, domain.KindValidation)

		got, err := env.users.GetUser(ctx, ann.ID)
		require.NoError(t, err)
		assert.Equal(t, "Anna", got.Name)
	})

	t.Run("malformed email in patch", func(t *testing.T) {
		bad := "nope"
		_, err := env.users.UpdateUser(ctx, ann.ID, models.UserPatch{Email: &bad})
		requireKind(t, err, domain.KindValidation)
	})

	t.Run("update to taken email", func(t *testing.T) {
		bob, err := env.users.CreateUser(ctx, &models.User{Name: "Bob", Email: "bob@example.com"})
		require.NoError(t, err)
		taken := "ann@example.com"
		_, err = env.users.UpdateUser(ctx, bob.ID, models.UserPatch{Email: &taken})
		requireKind(t, err, domain.KindConflict)

		// Re-submitting one's own email is not a conflict.
		own := "bob@example.com"
		_, err = env.users.UpdateUser(ctx, bob.ID, models.UserPatch{Email: &own})
		assert.NoError(t, err)
	})

	t.Run("update missing user", func(t *testing.T) {
		_, err := env.users.UpdateUser(ctx, 999, models.UserPatch{})
		requireKind(t, err, domain.KindNotFound)
	})

	t.Run("list and delete", func(t *testing.T) {
		users, err := env.users.ListUsers(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 2)

		require.NoError(t, env.users.DeleteUser(ctx, ann.ID))
		require.NoError(t, env.users.DeleteUser(ctx, ann.ID))

		_, err = env.users.GetUser(ctx, ann.ID)
		requireKind(t, err, domain.KindNotFound)
	})
}

func TestDeleteUserWithItemsConflicts(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "owner")
	env.item(t, owner.ID, "Drill", true)

	err := env.users.DeleteUser(context.Background(), owner.ID)
	requireKind(t, err, domain.KindConflict)
}

func TestUserLookupsFillCache(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ann, err := env.users.CreateUser(ctx, &models.User{Name: "Ann", Email: "ann@example.com"})
	require.NoError(t, err)
	assert.Zero(t, env.db.CachedUsers())

	_, err = env.users.GetUser(ctx, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, env.db.CachedUsers())

	name := "Anna"
	_, err = env.users.UpdateUser(ctx, ann.ID, models.UserPatch{Name: &name})
	require.NoError(t, err)
	assert.Zero(t, env.db.CachedUsers(), "written user stays out of the cache")

	_, err = env.items.ListOwnerItems(ctx, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, env.db.CachedUsers())

	got, err := env.users.GetUser(ctx, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anna", got.Name)
}
