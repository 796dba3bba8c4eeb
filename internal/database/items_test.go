package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareit/internal/models"
)

func TestItemCRUD(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	owner := mustCreateUser(t, db, "Owner", "owner@example.com")

	item := mustCreateItem(t, db, owner.ID, "Drill", "Cordless drill", true)
	assert.NotZero(t, item.ID)

	found, err := db.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Drill", found.Name)
	assert.True(t, found.Available)
	assert.Nil(t, found.RequestID)

	found.Available = false
	found.Description = "Broken drill"
	require.NoError(t, db.UpdateItem(ctx, found))

	found, err = db.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, found.Available)
	assert.Equal(t, "Broken drill", found.Description)

	_, err = db.GetItem(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListItemsByOwner(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	a := mustCreateUser(t, db, "A", "a@example.com")
	b := mustCreateUser(t, db, "B", "b@example.com")

	first := mustCreateItem(t, db, a.ID, "Saw", "Hand saw", true)
	mustCreateItem(t, db, b.ID, "Ladder", "Tall ladder", true)
	second := mustCreateItem(t, db, a.ID, "Tent", "Two person tent", false)

	items, err := db.ListItemsByOwner(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, first.ID, items[0].ID)
	assert.Equal(t, second.ID, items[1].ID)
}

func TestSearchItems(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	owner := mustCreateUser(t, db, "Owner", "owner@example.com")

	drill := mustCreateItem(t, db, owner.ID, "Power DRILL", "makes holes", true)
	mustCreateItem(t, db, owner.ID, "Hammer", "for nails and drilling jokes", false)
	mustCreateItem(t, db, owner.ID, "100% cotton sheet", "bedding", true)

	items, err := db.SearchItems(ctx, "dRiLl", true)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, drill.ID, items[0].ID)

	items, err = db.SearchItems(ctx, "drill", false)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = db.SearchItems(ctx, "   ", false)
	require.NoError(t, err)
	assert.Empty(t, items)

	// Wildcards in the query are matched literally.
	items, err = db.SearchItems(ctx, "%", false)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "100% cotton sheet", items[0].Name)
}

func TestListItemsByRequests(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	requestor := mustCreateUser(t, db, "Req", "req@example.com")
	owner := mustCreateUser(t, db, "Owner", "owner@example.com")

	req := &models.ItemRequest{Description: "need a kayak", RequestorID: requestor.ID, Created: time.Now()}
	require.NoError(t, db.CreateItemRequest(ctx, req))

	answer := &models.Item{Name: "Kayak", Description: "single", Available: true, OwnerID: owner.ID, RequestID: &req.ID}
	require.NoError(t, db.CreateItem(ctx, answer))
	mustCreateItem(t, db, owner.ID, "Paddle", "spare", true)

	items, err := db.ListItemsByRequests(ctx, []int64{req.ID})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, answer.ID, items[0].ID)
	assert.Equal(t, owner.ID, items[0].OwnerID)
	assert.Equal(t, req.ID, items[0].RequestID)

	items, err = db.ListItemsByRequests(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}
