package models

import "time"

type Comment struct {
	ID         int64     `db:"id"`
	Text       string    `db:"text"`
	ItemID     int64     `db:"item_id"`
	AuthorID   int64     `db:"author_id"`
	AuthorName string    `db:"author_name"`
	Created    time.Time `db:"created"`
}
