package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"

	"shareit/internal/models"
)

var itemColumns = []interface{}{"id", "name", "description", "available", "owner_id", "request_id"}

func (db *DB) CreateItem(ctx context.Context, item *models.Item) error {
	query := db.q.Rebind(`INSERT INTO items (name, description, available, owner_id, request_id)
			VALUES (?, ?, ?, ?, ?) RETURNING id`)
	err := sqlx.GetContext(ctx, db.q, &item.ID, query,
		item.Name,
		item.Description,
		item.Available,
		item.OwnerID,
		item.RequestID,
	)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

func (db *DB) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	var item models.Item
	query := db.q.Rebind(`SELECT id, name, description, available, owner_id, request_id FROM items WHERE id = ?`)
	if err := sqlx.GetContext(ctx, db.q, &item, query, id); err != nil {
		return nil, fmt.Errorf("failed to get item: %w", notFound(err))
	}
	return &item, nil
}

func (db *DB) UpdateItem(ctx context.Context, item *models.Item) error {
	query := db.q.Rebind(`UPDATE items SET name = ?, description = ?, available = ? WHERE id = ?`)
	result, err := db.q.ExecContext(ctx, query, item.Name, item.Description, item.Available, item.ID)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) ListItemsByOwner(ctx context.Context, ownerID int64) ([]*models.Item, error) {
	ds := db.dialect.From("items").
		Select(itemColumns...).
		Where(goqu.C("owner_id").Eq(ownerID)).
		Order(goqu.C("id").Asc())
	return db.selectItems(ctx, ds)
}

// SearchItems matches text case-insensitively against name or description.
// Blank text matches nothing.
func (db *DB) SearchItems(ctx context.Context, text string, availableOnly bool) ([]*models.Item, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []*models.Item{}, nil
	}
	pattern := "%" + escapeLike(strings.ToLower(text)) + "%"

	ds := db.dialect.From("items").
		Select(itemColumns...).
		Where(goqu.Or(
			goqu.L(`LOWER(name) LIKE ? ESCAPE '\'`, pattern),
			goqu.L(`LOWER(description) LIKE ? ESCAPE '\'`, pattern),
		)).
		Order(goqu.C("id").Asc())
	if availableOnly {
		ds = ds.Where(goqu.C("available").IsTrue())
	}
	return db.selectItems(ctx, ds)
}

func (db *DB) ListItemsByRequests(ctx context.Context, requestIDs []int64) ([]*models.RequestedItem, error) {
	if len(requestIDs) == 0 {
		return []*models.RequestedItem{}, nil
	}
	ds := db.dialect.From("items").
		Select("id", "name", "owner_id", "request_id").
		Where(goqu.C("request_id").In(requestIDs)).
		Order(goqu.C("id").Asc())

	query, args, err := toSQL(ds)
	if err != nil {
		return nil, err
	}
	var items []*models.RequestedItem
	if err := sqlx.SelectContext(ctx, db.q, &items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list requested items: %w", err)
	}
	return items, nil
}

func (db *DB) selectItems(ctx context.Context, ds *goqu.SelectDataset) ([]*models.Item, error) {
	query, args, err := toSQL(ds)
	if err != nil {
		return nil, err
	}
	items := []*models.Item{}
	if err := sqlx.SelectContext(ctx, db.q, &items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
