package database

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"

	"shareit/internal/models"
)

func (db *DB) CreateComment(ctx context.Context, comment *models.Comment) error {
	comment.Created = dbTime(comment.Created)
	query := db.q.Rebind(`INSERT INTO comments (text, item_id, author_id, created) VALUES (?, ?, ?, ?) RETURNING id`)
	err := sqlx.GetContext(ctx, db.q, &comment.ID, query,
		comment.Text,
		comment.ItemID,
		comment.AuthorID,
		comment.Created,
	)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// ListCommentsByItem returns an item's comments in insertion order with author names.
func (db *DB) ListCommentsByItem(ctx context.Context, itemID int64) ([]*models.Comment, error) {
	ds := db.dialect.From(goqu.T("comments").As("c")).
		LeftJoin(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("c.author_id")))).
		Select(
			goqu.I("c.id").As("id"),
			goqu.I("c.text").As("text"),
			goqu.I("c.item_id").As("item_id"),
			goqu.I("c.author_id").As("author_id"),
			goqu.COALESCE(goqu.I("u.name"), "").As("author_name"),
			goqu.I("c.created").As("created"),
		).
		Where(goqu.I("c.item_id").Eq(itemID)).
		Order(goqu.I("c.id").Asc())

	query, args, err := toSQL(ds)
	if err != nil {
		return nil, err
	}
	comments := []*models.Comment{}
	if err := sqlx.SelectContext(ctx, db.q, &comments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}
