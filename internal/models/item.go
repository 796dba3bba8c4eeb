package models

type Item struct {
	ID          int64  `db:"id" yaml:"id"`
	Name        string `db:"name" yaml:"name" validate:"notblank"`
	Description string `db:"description" yaml:"description" validate:"notblank"`
	Available   bool   `db:"available" yaml:"available"`
	OwnerID     int64  `db:"owner_id" yaml:"owner_id"`
	RequestID   *int64 `db:"request_id" yaml:"request_id"`
}

// ItemPatch carries a partial item update; nil fields are left unchanged.
type ItemPatch struct {
	Name        *string `validate:"omitempty,notblank"`
	Description *string `validate:"omitempty,notblank"`
	Available   *bool
}

// BookingShort is the reduced booking shown on an owner's item view.
type BookingShort struct {
	ID       int64 `db:"id"`
	BookerID int64 `db:"booker_id"`
}

// ItemView is an item enriched for presentation to a particular viewer.
type ItemView struct {
	Item
	LastBooking *BookingShort
	NextBooking *BookingShort
	Comments    []*Comment
}
