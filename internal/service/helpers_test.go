package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/models"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishJSON(eventType string, payload interface{}) error {
	return m.Called(eventType, payload).Error(0)
}

// published returns the event types seen so far, in order.
func (m *mockPublisher) published() []string {
	var out []string
	for _, call := range m.Calls {
		out = append(out, call.Arguments.String(0))
	}
	return out
}

type testEnv struct {
	db       *database.DB
	bus      *mockPublisher
	bookings *BookingService
	items    *ItemService
	users    *UserService
	requests *RequestService
	now      time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zerolog.Nop()
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	bus := &mockPublisher{}
	bus.On("PublishJSON", mock.Anything, mock.Anything).Return(nil)

	env := &testEnv{
		db:       db,
		bus:      bus,
		bookings: NewBookingService(db, bus, &logger),
		items:    NewItemService(db, bus, time.Second, &logger),
		users:    NewUserService(db, &logger),
		requests: NewRequestService(db, bus, &logger),
		now:      time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	env.setNow(env.now)
	return env
}

func (e *testEnv) setNow(now time.Time) {
	e.now = now
	clock := func() time.Time { return e.now }
	e.bookings.SetClock(clock)
	e.items.SetClock(clock)
	e.requests.SetClock(clock)
}

func (e *testEnv) user(t *testing.T, name string) *models.User {
	t.Helper()
	u, err := e.users.CreateUser(context.Background(), &models.User{Name: name, Email: name + "@example.com"})
	require.NoError(t, err)
	return u
}

func (e *testEnv) item(t *testing.T, ownerID int64, name string, available bool) *models.Item {
	t.Helper()
	item, err := e.items.CreateItem(context.Background(), ownerID, &models.Item{
		Name:        name,
		Description: name + " description",
		Available:   available,
	})
	require.NoError(t, err)
	return item
}

// approvedBooking inserts an approved booking directly, bypassing the past-start check.
func (e *testEnv) approvedBooking(t *testing.T, itemID, bookerID int64, start, end time.Time) *models.Booking {
	t.Helper()
	b := &models.Booking{ItemID: itemID, BookerID: bookerID, Start: start, End: end, Status: models.StatusApproved}
	require.NoError(t, e.db.CreateBooking(context.Background(), b))
	return b
}

func requireKind(t *testing.T, err error, kind domain.Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, domain.KindOf(err), "unexpected error: %v", err)
}
