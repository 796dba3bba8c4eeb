package database

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jmoiron/sqlx"

	"shareit/internal/models"
)

func (db *DB) CreateItemRequest(ctx context.Context, req *models.ItemRequest) error {
	req.Created = dbTime(req.Created)
	query := db.q.Rebind(`INSERT INTO item_requests (description, requestor_id, created) VALUES (?, ?, ?) RETURNING id`)
	if err := sqlx.GetContext(ctx, db.q, &req.ID, query, req.Description, req.RequestorID, req.Created); err != nil {
		return fmt.Errorf("failed to create item request: %w", err)
	}
	return nil
}

func (db *DB) GetItemRequest(ctx context.Context, id int64) (*models.ItemRequest, error) {
	var req models.ItemRequest
	query := db.q.Rebind(`SELECT id, description, requestor_id, created FROM item_requests WHERE id = ?`)
	if err := sqlx.GetContext(ctx, db.q, &req, query, id); err != nil {
		return nil, fmt.Errorf("failed to get item request: %w", notFound(err))
	}
	return &req, nil
}

func (db *DB) ListItemRequestsByRequestor(ctx context.Context, requestorID int64) ([]*models.ItemRequest, error) {
	return db.listItemRequests(ctx, goqu.C("requestor_id").Eq(requestorID))
}

// ListItemRequestsExcept returns everyone else's requests.
func (db *DB) ListItemRequestsExcept(ctx context.Context, requestorID int64) ([]*models.ItemRequest, error) {
	return db.listItemRequests(ctx, goqu.C("requestor_id").Neq(requestorID))
}

func (db *DB) listItemRequests(ctx context.Context, where exp.Expression) ([]*models.ItemRequest, error) {
	ds := db.dialect.From("item_requests").
		Select("id", "description", "requestor_id", "created").
		Where(where).
		Order(goqu.C("created").Desc(), goqu.C("id").Desc())

	query, args, err := toSQL(ds)
	if err != nil {
		return nil, err
	}
	reqs := []*models.ItemRequest{}
	if err := sqlx.SelectContext(ctx, db.q, &reqs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list item requests: %w", err)
	}
	return reqs, nil
}
