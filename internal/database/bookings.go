package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jmoiron/sqlx"

	"shareit/internal/domain"
	"shareit/internal/models"
)

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	booking.Start = dbTime(booking.Start)
	booking.End = dbTime(booking.End)
	if booking.Status == "" {
		booking.Status = models.StatusWaiting
	}

	query := db.q.Rebind(`INSERT INTO bookings (item_id, booker_id, start_at, end_at, status)
			VALUES (?, ?, ?, ?, ?) RETURNING id`)
	err := sqlx.GetContext(ctx, db.q, &booking.ID, query,
		booking.ItemID,
		booking.BookerID,
		booking.Start,
		booking.End,
		string(booking.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// bookingView selects bookings joined with the item name and owner.
func (db *DB) bookingView() *goqu.SelectDataset {
	return db.dialect.From(goqu.T("bookings").As("b")).
		Join(goqu.T("items").As("i"), goqu.On(goqu.I("i.id").Eq(goqu.I("b.item_id")))).
		Select(
			goqu.I("b.id").As("id"),
			goqu.I("b.item_id").As("item_id"),
			goqu.I("b.booker_id").As("booker_id"),
			goqu.I("b.start_at").As("start_at"),
			goqu.I("b.end_at").As("end_at"),
			goqu.I("b.status").As("status"),
			goqu.I("i.name").As("item_name"),
			goqu.I("i.owner_id").As("item_owner_id"),
		)
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query, args, err := toSQL(db.bookingView().Where(goqu.I("b.id").Eq(id)))
	if err != nil {
		return nil, err
	}
	var booking models.Booking
	if err := sqlx.GetContext(ctx, db.q, &booking, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", notFound(err))
	}
	return &booking, nil
}

// ListBookings returns bookings matching filter ordered by start descending.
func (db *DB) ListBookings(ctx context.Context, filter domain.BookingFilter) ([]*models.Booking, error) {
	ds := db.bookingView()
	if filter.BookerID != 0 {
		ds = ds.Where(goqu.I("b.booker_id").Eq(filter.BookerID))
	}
	if filter.OwnerID != 0 {
		ds = ds.Where(goqu.I("i.owner_id").Eq(filter.OwnerID))
	}

	now := dbTime(filter.Now)
	switch filter.State {
	case models.StateCurrent:
		ds = ds.Where(goqu.I("b.start_at").Lte(now), goqu.I("b.end_at").Gte(now))
	case models.StatePast:
		ds = ds.Where(goqu.I("b.end_at").Lt(now))
	case models.StateFuture:
		ds = ds.Where(goqu.I("b.start_at").Gt(now))
	case models.StateWaiting:
		ds = ds.Where(goqu.I("b.status").Eq(string(models.StatusWaiting)))
	case models.StateRejected:
		ds = ds.Where(goqu.I("b.status").Eq(string(models.StatusRejected)))
	}
	ds = ds.Order(goqu.I("b.start_at").Desc(), goqu.I("b.id").Desc())

	query, args, err := toSQL(ds)
	if err != nil {
		return nil, err
	}
	bookings := []*models.Booking{}
	if err := sqlx.SelectContext(ctx, db.q, &bookings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (db *DB) CompareAndSetStatus(ctx context.Context, id int64, from, to models.BookingStatus) (bool, error) {
	query := db.q.Rebind(`UPDATE bookings SET status = ? WHERE id = ? AND status = ?`)
	result, err := db.q.ExecContext(ctx, query, string(to), id, string(from))
	if err != nil {
		return false, fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return rows == 1, nil
}

// LastApprovedBooking is the approved booking with the greatest start not after now.
func (db *DB) LastApprovedBooking(ctx context.Context, itemID int64, now time.Time) (*models.BookingShort, error) {
	return db.approvedBooking(ctx, itemID, goqu.C("start_at").Lte(dbTime(now)), goqu.C("start_at").Desc())
}

// NextApprovedBooking is the approved booking with the smallest start after now.
func (db *DB) NextApprovedBooking(ctx context.Context, itemID int64, now time.Time) (*models.BookingShort, error) {
	return db.approvedBooking(ctx, itemID, goqu.C("start_at").Gt(dbTime(now)), goqu.C("start_at").Asc())
}

func (db *DB) approvedBooking(
	ctx context.Context, itemID int64, bound exp.Expression, order exp.OrderedExpression,
) (*models.BookingShort, error) {
	ds := db.dialect.From("bookings").
		Select("id", "booker_id").
		Where(
			goqu.C("item_id").Eq(itemID),
			goqu.C("status").Eq(string(models.StatusApproved)),
			bound,
		).
		Order(order).
		Limit(1)

	query, args, err := toSQL(ds)
	if err != nil {
		return nil, err
	}
	var short models.BookingShort
	if err := sqlx.GetContext(ctx, db.q, &short, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get approved booking: %w", err)
	}
	return &short, nil
}

// HasApprovedBookingEndedBefore reports whether bookerID holds an approved booking of itemID that ended before the given time.
func (db *DB) HasApprovedBookingEndedBefore(ctx context.Context, bookerID, itemID int64, before time.Time) (bool, error) {
	query := db.q.Rebind(`SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE booker_id = ? AND item_id = ? AND status = ? AND end_at < ?
		)`)
	var exists bool
	err := sqlx.GetContext(ctx, db.q, &exists, query, bookerID, itemID, string(models.StatusApproved), dbTime(before))
	if err != nil {
		return false, fmt.Errorf("failed to check completed booking: %w", err)
	}
	return exists, nil
}
