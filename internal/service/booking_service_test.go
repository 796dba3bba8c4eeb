package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"
)

func TestCreateBooking(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	booker := env.user(t, "booker")
	item := env.item(t, owner.ID, "Drill", true)
	closed := env.item(t, owner.ID, "Tent", false)

	start := env.now.Add(time.Hour)
	end := env.now.Add(2 * time.Hour)

	t.Run("success", func(t *testing.T) {
		b, err := env.bookings.CreateBooking(ctx, booker.ID, item.ID, start, end)
		require.NoError(t, err)
		assert.NotZero(t, b.ID)
		assert.Equal(t, models.StatusWaiting, b.Status)
		assert.Equal(t, booker.ID, b.BookerID)
		assert.Equal(t, "Drill", b.ItemName)
		assert.Contains(t, env.bus.published(), events.EventBookingCreated)
	})

	tests := []struct {
		name    string
		userID  int64
		itemID  int64
		start   time.Time
		end     time.Time
		kind    domain.Kind
		message string
	}{
		{"unknown user", 999, item.ID, start, end, domain.KindNotFound, "user not found"},
		{"unknown item", booker.ID, 999, start, end, domain.KindNotFound, "item not found"},
		{"unavailable item", booker.ID, closed.ID, start, end, domain.KindValidation, "item not available for booking"},
		{"owner books own item", owner.ID, item.ID, start, end, domain.KindNotFound, "owner cannot book own item"},
		{"missing start", booker.ID, item.ID, time.Time{}, end, domain.KindValidation, ""},
		{"missing end", booker.ID, item.ID, start, time.Time{}, domain.KindValidation, ""},
		{"end before start", booker.ID, item.ID, end, start, domain.KindValidation, ""},
		{"end equals start", booker.ID, item.ID, start, start, domain.KindValidation, ""},
		{"start in the past", booker.ID, item.ID, env.now.Add(-time.Minute), end, domain.KindValidation, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.bookings.CreateBooking(ctx, tt.userID, tt.itemID, tt.start, tt.end)
			requireKind(t, err, tt.kind)
			if tt.message != "" {
				assert.EqualError(t, err, tt.message)
			}
		})
	}
}

func TestCreateBooking_UnavailableBeatsDates(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "owner")
	booker := env.user(t, "booker")
	closed := env.item(t, owner.ID, "Tent", false)

	// Bad dates do not mask the availability failure.
	_, err := env.bookings.CreateBooking(context.Background(), booker.ID, closed.ID, env.now.Add(-time.Hour), env.now.Add(-2*time.Hour))
	requireKind(t, err, domain.KindValidation)
	assert.EqualError(t, err, "item not available for booking")
}

func TestApproveBooking(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	booker := env.user(t, "booker")
	item := env.item(t, owner.ID, "Drill", true)

	b, err := env.bookings.CreateBooking(ctx, booker.ID, item.ID, env.now.Add(time.Hour), env.now.Add(2*time.Hour))
	require.NoError(t, err)

	_, err = env.bookings.ApproveBooking(ctx, booker.ID, b.ID, true)
	requireKind(t, err, domain.KindValidation)

	_, err = env.bookings.ApproveBooking(ctx, owner.ID, 999, true)
	requireKind(t, err, domain.KindNotFound)

	approved, err := env.bookings.ApproveBooking(ctx, owner.ID, b.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, approved.Status)
	assert.Contains(t, env.bus.published(), events.EventBookingApproved)

	_, err = env.bookings.ApproveBooking(ctx, owner.ID, b.ID, false)
	requireKind(t, err, domain.KindValidation)
	assert.EqualError(t, err, "booking already processed")

	got, err := env.bookings.GetBooking(ctx, booker.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)
}

func TestRejectBooking(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	booker := env.user(t, "booker")
	item := env.item(t, owner.ID, "Drill", true)

	b, err := env.bookings.CreateBooking(ctx, booker.ID, item.ID, env.now.Add(time.Hour), env.now.Add(2*time.Hour))
	require.NoError(t, err)

	rejected, err := env.bookings.ApproveBooking(ctx, owner.ID, b.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status)
	assert.Contains(t, env.bus.published(), events.EventBookingRejected)
}

func TestConcurrentApprove(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	booker := env.user(t, "booker")
	item := env.item(t, owner.ID, "Drill", true)

	b, err := env.bookings.CreateBooking(ctx, booker.ID, item.ID, env.now.Add(time.Hour), env.now.Add(2*time.Hour))
	require.NoError(t, err)

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(approve bool) {
			defer wg.Done()
			_, err := env.bookings.ApproveBooking(ctx, owner.ID, b.ID, approve)
			errs <- err
		}(i%2 == 0)
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		requireKind(t, err, domain.KindValidation)
		assert.EqualError(t, err, "booking already processed")
	}
	assert.Equal(t, 1, succeeded)
}

func TestGetBookingVisibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	booker := env.user(t, "booker")
	stranger := env.user(t, "stranger")
	item := env.item(t, owner.ID, "Drill", true)

	b, err := env.bookings.CreateBooking(ctx, booker.ID, item.ID, env.now.Add(time.Hour), env.now.Add(2*time.Hour))
	require.NoError(t, err)

	for _, viewer := range []int64{owner.ID, booker.ID} {
		got, err := env.bookings.GetBooking(ctx, viewer, b.ID)
		require.NoError(t, err)
		assert.Equal(t, b.ID, got.ID)
	}

	_, err = env.bookings.GetBooking(ctx, stranger.ID, b.ID)
	requireKind(t, err, domain.KindNotFound)
}

func TestListBookings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	booker := env.user(t, "booker")
	item := env.item(t, owner.ID, "Drill", true)

	past := env.approvedBooking(t, item.ID, booker.ID, env.now.Add(-48*time.Hour), env.now.Add(-24*time.Hour))
	current := env.approvedBooking(t, item.ID, booker.ID, env.now.Add(-time.Hour), env.now.Add(time.Hour))
	future, err := env.bookings.CreateBooking(ctx, booker.ID, item.ID, env.now.Add(24*time.Hour), env.now.Add(48*time.Hour))
	require.NoError(t, err)
	rejected, err := env.bookings.CreateBooking(ctx, booker.ID, item.ID, env.now.Add(72*time.Hour), env.now.Add(96*time.Hour))
	require.NoError(t, err)
	_, err = env.bookings.ApproveBooking(ctx, owner.ID, rejected.ID, false)
	require.NoError(t, err)

	tests := []struct {
		state string
		want  []int64
	}{
		{"ALL", []int64{rejected.ID, future.ID, current.ID, past.ID}},
		{"current", []int64{current.ID}},
		{"Past", []int64{past.ID}},
		{"FUTURE", []int64{rejected.ID, future.ID}},
		{"WAITING", []int64{future.ID}},
		{"REJECTED", []int64{rejected.ID}},
		{"bogus", []int64{rejected.ID, future.ID, current.ID, past.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			state := models.ParseBookingState(tt.state)

			mine, err := env.bookings.ListBookerBookings(ctx, booker.ID, state)
			require.NoError(t, err)
			assert.Equal(t, tt.want, bookingIDs(mine))

			owned, err := env.bookings.ListOwnerBookings(ctx, owner.ID, state)
			require.NoError(t, err)
			assert.Equal(t, tt.want, bookingIDs(owned))
		})
	}

	_, err = env.bookings.ListBookerBookings(ctx, 999, models.StateAll)
	requireKind(t, err, domain.KindNotFound)

	none, err := env.bookings.ListOwnerBookings(ctx, booker.ID, models.StateAll)
	require.NoError(t, err)
	assert.Empty(t, none)
}

// The end-to-end scenario: book, approve, let the rental end, then comment.
func TestBookingToCommentScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	booker := env.user(t, "booker")
	item := env.item(t, owner.ID, "Drill", true)

	start := env.now.Add(time.Hour)
	end := env.now.Add(2 * time.Hour)
	b, err := env.bookings.CreateBooking(ctx, booker.ID, item.ID, start, end)
	require.NoError(t, err)
	_, err = env.bookings.ApproveBooking(ctx, owner.ID, b.ID, true)
	require.NoError(t, err)

	_, err = env.items.CreateComment(ctx, booker.ID, item.ID, "great drill")
	requireKind(t, err, domain.KindValidation)

	env.setNow(end.Add(time.Second))
	_, err = env.items.CreateComment(ctx, booker.ID, item.ID, "great drill")
	requireKind(t, err, domain.KindValidation)

	env.setNow(end.Add(2 * time.Second))
	c, err := env.items.CreateComment(ctx, booker.ID, item.ID, "great drill")
	require.NoError(t, err)
	assert.Equal(t, "booker", c.AuthorName)

	view, err := env.items.GetItem(ctx, owner.ID, item.ID)
	require.NoError(t, err)
	require.Len(t, view.Comments, 1)
	assert.Equal(t, "great drill", view.Comments[0].Text)
	require.NotNil(t, view.LastBooking)
	assert.Equal(t, b.ID, view.LastBooking.ID)
	assert.Nil(t, view.NextBooking)
}

func bookingIDs(bookings []*models.Booking) []int64 {
	out := make([]int64, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, b.ID)
	}
	return out
}
