package models

import (
	"strings"
	"time"
)

type BookingStatus string

const (
	StatusWaiting  BookingStatus = "WAITING"
	StatusApproved BookingStatus = "APPROVED"
	StatusRejected BookingStatus = "REJECTED"
)

func (s BookingStatus) String() string { return string(s) }

// IsTerminal reports whether no further transition is allowed.
func (s BookingStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

type Booking struct {
	ID       int64         `db:"id"`
	ItemID   int64         `db:"item_id"`
	BookerID int64         `db:"booker_id"`
	Start    time.Time     `db:"start_at"`
	End      time.Time     `db:"end_at"`
	Status   BookingStatus `db:"status"`

	// Joined from items on read.
	ItemName    string `db:"item_name"`
	ItemOwnerID int64  `db:"item_owner_id"`
}

// VisibleTo reports whether userID may see the booking: its booker or the item owner.
func (b *Booking) VisibleTo(userID int64) bool {
	return b.BookerID == userID || b.ItemOwnerID == userID
}

// BookingState selects a temporal or status slice of a user's bookings.
type BookingState int

const (
	StateAll BookingState = iota
	StateCurrent
	StatePast
	StateFuture
	StateWaiting
	StateRejected
)

var bookingStateNames = map[BookingState]string{
	StateAll:      "ALL",
	StateCurrent:  "CURRENT",
	StatePast:     "PAST",
	StateFuture:   "FUTURE",
	StateWaiting:  "WAITING",
	StateRejected: "REJECTED",
}

func (s BookingState) String() string {
	if name, ok := bookingStateNames[s]; ok {
		return name
	}
	return bookingStateNames[StateAll]
}

// ParseBookingState matches case-insensitively and falls back to StateAll.
func ParseBookingState(raw string) BookingState {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "CURRENT":
		return StateCurrent
	case "PAST":
		return StatePast
	case "FUTURE":
		return StateFuture
	case "WAITING":
		return StateWaiting
	case "REJECTED":
		return StateRejected
	default:
		return StateAll
	}
}

// Matches classifies a booking against now. It mirrors the store's query predicates.
func (s BookingState) Matches(b *Booking, now time.Time) bool {
	switch s {
	case StateCurrent:
		return !b.Start.After(now) && !b.End.Before(now)
	case StatePast:
		return b.End.Before(now)
	case StateFuture:
		return b.Start.After(now)
	case StateWaiting:
		return b.Status == StatusWaiting
	case StateRejected:
		return b.Status == StatusRejected
	default:
		return true
	}
}
