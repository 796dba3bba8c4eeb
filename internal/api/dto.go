package api

import (
	"fmt"
	"strings"
	"time"

	"shareit/internal/models"
)

// timeLayout is the ISO local date-time used on the wire.
const timeLayout = "2006-01-02T15:04:05"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime accepts timeLayout (optionally with fractional seconds) or RFC 3339.
func parseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(timeLayout, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q, expected %s", raw, timeLayout)
}

// jsonTime decodes either accepted time form; null or absent leaves it zero.
type jsonTime time.Time

func (t *jsonTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		return nil
	}
	parsed, err := parseTime(raw)
	if err != nil {
		return err
	}
	*t = jsonTime(parsed)
	return nil
}

func (t jsonTime) Time() time.Time { return time.Time(t) }

type createUserRequest struct {
	Name  *string `json:"name" validate:"required,notblank"`
	Email *string `json:"email" validate:"required,email"`
}

type updateUserRequest struct {
	Name  *string `json:"name" validate:"omitempty,notblank"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type userResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

type createItemRequest struct {
	Name        *string `json:"name" validate:"required,notblank"`
	Description *string `json:"description" validate:"required,notblank"`
	Available   *bool   `json:"available" validate:"required"`
	RequestID   *int64  `json:"requestId"`
}

type updateItemRequest struct {
	Name        *string `json:"name" validate:"omitempty,notblank"`
	Description *string `json:"description" validate:"omitempty,notblank"`
	Available   *bool   `json:"available"`
}

type itemResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	RequestID   *int64 `json:"requestId"`
}

func toItemResponse(item *models.Item) itemResponse {
	return itemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Available:   item.Available,
		RequestID:   item.RequestID,
	}
}

type bookingShortResponse struct {
	ID       int64 `json:"id"`
	BookerID int64 `json:"bookerId"`
}

type itemViewResponse struct {
	ID          int64                 `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Available   bool                  `json:"available"`
	RequestID   *int64                `json:"requestId"`
	LastBooking *bookingShortResponse `json:"lastBooking"`
	NextBooking *bookingShortResponse `json:"nextBooking"`
	Comments    []commentResponse     `json:"comments"`
}

func toBookingShort(b *models.BookingShort) *bookingShortResponse {
	if b == nil {
		return nil
	}
	return &bookingShortResponse{ID: b.ID, BookerID: b.BookerID}
}

func toItemViewResponse(view *models.ItemView) itemViewResponse {
	comments := make([]commentResponse, 0, len(view.Comments))
	for _, c := range view.Comments {
		comments = append(comments, toCommentResponse(c))
	}
	return itemViewResponse{
		ID:          view.ID,
		Name:        view.Name,
		Description: view.Description,
		Available:   view.Available,
		RequestID:   view.RequestID,
		LastBooking: toBookingShort(view.LastBooking),
		NextBooking: toBookingShort(view.NextBooking),
		Comments:    comments,
	}
}

type commentRequest struct {
	Text string `json:"text" validate:"notblank"`
}

type commentResponse struct {
	ID         int64  `json:"id"`
	Text       string `json:"text"`
	AuthorName string `json:"authorName"`
	Created    string `json:"created"`
}

func toCommentResponse(c *models.Comment) commentResponse {
	return commentResponse{ID: c.ID, Text: c.Text, AuthorName: c.AuthorName, Created: formatTime(c.Created)}
}

type bookingRequest struct {
	ItemID *int64   `json:"itemId" validate:"required"`
	Start  jsonTime `json:"start"`
	End    jsonTime `json:"end"`
}

type idRef struct {
	ID int64 `json:"id"`
}

type itemRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type bookingResponse struct {
	ID     int64   `json:"id"`
	Start  string  `json:"start"`
	End    string  `json:"end"`
	Status string  `json:"status"`
	Booker idRef   `json:"booker"`
	Item   itemRef `json:"item"`
}

func toBookingResponse(b *models.Booking) bookingResponse {
	return bookingResponse{
		ID:     b.ID,
		Start:  formatTime(b.Start),
		End:    formatTime(b.End),
		Status: b.Status.String(),
		Booker: idRef{ID: b.BookerID},
		Item:   itemRef{ID: b.ItemID, Name: b.ItemName},
	}
}

func toBookingResponses(bookings []*models.Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResponse(b))
	}
	return out
}

type itemRequestRequest struct {
	Description string `json:"description" validate:"notblank"`
}

type requestedItemResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	OwnerID int64  `json:"ownerId"`
}

type itemRequestResponse struct {
	ID          int64                   `json:"id"`
	Description string                  `json:"description"`
	RequestorID int64                   `json:"requestorId"`
	Created     string                  `json:"created"`
	Items       []requestedItemResponse `json:"items"`
}

func toItemRequestResponse(req *models.ItemRequest, items []*models.RequestedItem) itemRequestResponse {
	out := itemRequestResponse{
		ID:          req.ID,
		Description: req.Description,
		RequestorID: req.RequestorID,
		Created:     formatTime(req.Created),
		Items:       make([]requestedItemResponse, 0, len(items)),
	}
	for _, it := range items {
		out.Items = append(out.Items, requestedItemResponse{ID: it.ID, Name: it.Name, OwnerID: it.OwnerID})
	}
	return out
}
