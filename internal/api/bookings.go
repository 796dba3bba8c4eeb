package api

import (
	"net/http"
	"strconv"

	"shareit/internal/models"
)

func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request, userID int64) {
	var body bookingRequest
	if !s.readBody(w, r, &body) {
		return
	}

	booking, err := s.svc.Bookings.CreateBooking(r.Context(), userID, *body.ItemID, body.Start.Time(), body.End.Time())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponse(booking))
}

func (s *HTTPServer) handleApproveBooking(w http.ResponseWriter, r *http.Request, userID int64) {
	bookingID, ok := pathID(w, r, "bookingId")
	if !ok {
		return
	}
	approved, err := strconv.ParseBool(r.URL.Query().Get("approved"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "approved must be true or false")
		return
	}

	booking, err := s.svc.Bookings.ApproveBooking(r.Context(), userID, bookingID, approved)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponse(booking))
}

func (s *HTTPServer) handleGetBooking(w http.ResponseWriter, r *http.Request, userID int64) {
	bookingID, ok := pathID(w, r, "bookingId")
	if !ok {
		return
	}
	booking, err := s.svc.Bookings.GetBooking(r.Context(), userID, bookingID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponse(booking))
}

func (s *HTTPServer) handleListBookerBookings(w http.ResponseWriter, r *http.Request, userID int64) {
	state := models.ParseBookingState(r.URL.Query().Get("state"))
	bookings, err := s.svc.Bookings.ListBookerBookings(r.Context(), userID, state)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponses(bookings))
}

func (s *HTTPServer) handleListOwnerBookings(w http.ResponseWriter, r *http.Request, userID int64) {
	state := models.ParseBookingState(r.URL.Query().Get("state"))
	bookings, err := s.svc.Bookings.ListOwnerBookings(r.Context(), userID, state)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponses(bookings))
}
