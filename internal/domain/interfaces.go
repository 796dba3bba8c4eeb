package domain

import (
	"context"
	"time"

	"shareit/internal/models"
)

// Store opens transactional units of work against the entity store.
type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
	Ping(ctx context.Context) error
}

// Tx is the set of repositories bound to one transaction.
type Tx interface {
	UserRepository
	ItemRepository
	RequestRepository
	BookingRepository
	CommentRepository
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id int64) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type ItemRepository interface {
	CreateItem(ctx context.Context, item *models.Item) error
	GetItem(ctx context.Context, id int64) (*models.Item, error)
	UpdateItem(ctx context.Context, item *models.Item) error
	ListItemsByOwner(ctx context.Context, ownerID int64) ([]*models.Item, error)
	SearchItems(ctx context.Context, text string, availableOnly bool) ([]*models.Item, error)
	ListItemsByRequests(ctx context.Context, requestIDs []int64) ([]*models.RequestedItem, error)
}

type RequestRepository interface {
	CreateItemRequest(ctx context.Context, req *models.ItemRequest) error
	GetItemRequest(ctx context.Context, id int64) (*models.ItemRequest, error)
	ListItemRequestsByRequestor(ctx context.Context, requestorID int64) ([]*models.ItemRequest, error)
	ListItemRequestsExcept(ctx context.Context, requestorID int64) ([]*models.ItemRequest, error)
}

// BookingFilter selects bookings by booker or by item owner (exactly one is set).
type BookingFilter struct {
	BookerID int64
	OwnerID  int64
	State    models.BookingState
	Now      time.Time
}

type BookingRepository interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	ListBookings(ctx context.Context, filter BookingFilter) ([]*models.Booking, error)
	// CompareAndSetStatus moves a booking from one status to another and reports whether it did.
	CompareAndSetStatus(ctx context.Context, id int64, from, to models.BookingStatus) (bool, error)
	LastApprovedBooking(ctx context.Context, itemID int64, now time.Time) (*models.BookingShort, error)
	NextApprovedBooking(ctx context.Context, itemID int64, now time.Time) (*models.BookingShort, error)
	HasApprovedBookingEndedBefore(ctx context.Context, bookerID, itemID int64, before time.Time) (bool, error)
}

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	ListCommentsByItem(ctx context.Context, itemID int64) ([]*models.Comment, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// RateLimiter counts requests per user in fixed windows.
type RateLimiter interface {
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

type BookingService interface {
	CreateBooking(ctx context.Context, userID, itemID int64, start, end time.Time) (*models.Booking, error)
	ApproveBooking(ctx context.Context, userID, bookingID int64, approved bool) (*models.Booking, error)
	GetBooking(ctx context.Context, userID, bookingID int64) (*models.Booking, error)
	ListBookerBookings(ctx context.Context, userID int64, state models.BookingState) ([]*models.Booking, error)
	ListOwnerBookings(ctx context.Context, userID int64, state models.BookingState) ([]*models.Booking, error)
}

type ItemService interface {
	CreateItem(ctx context.Context, userID int64, item *models.Item) (*models.Item, error)
	UpdateItem(ctx context.Context, userID, itemID int64, patch models.ItemPatch) (*models.Item, error)
	GetItem(ctx context.Context, userID, itemID int64) (*models.ItemView, error)
	ListOwnerItems(ctx context.Context, userID int64) ([]*models.ItemView, error)
	Search(ctx context.Context, userID int64, text string) ([]*models.Item, error)
	SearchListings(ctx context.Context, userID int64, text string) ([]*models.ItemView, error)
	CreateComment(ctx context.Context, userID, itemID int64, text string) (*models.Comment, error)
}

type UserService interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type RequestService interface {
	CreateRequest(ctx context.Context, userID int64, description string) (*models.ItemRequest, error)
	ListOwnRequests(ctx context.Context, userID int64) ([]*models.ItemRequestView, error)
	ListOtherRequests(ctx context.Context, userID int64) ([]*models.ItemRequestView, error)
	GetRequest(ctx context.Context, userID, requestID int64) (*models.ItemRequestView, error)
}
