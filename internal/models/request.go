package models

import "time"

type ItemRequest struct {
	ID          int64     `db:"id"`
	Description string    `db:"description" validate:"notblank"`
	RequestorID int64     `db:"requestor_id"`
	Created     time.Time `db:"created"`
}

// RequestedItem is an item listed in answer to a request.
type RequestedItem struct {
	ID        int64  `db:"id"`
	Name      string `db:"name"`
	OwnerID   int64  `db:"owner_id"`
	RequestID int64  `db:"request_id"`
}

type ItemRequestView struct {
	ItemRequest
	Items []*RequestedItem
}
