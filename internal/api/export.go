package api

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"shareit/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	bookingsSheet = "Bookings"
	xlsxMIME      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var bookingColumns = []string{"Booking ID", "Item ID", "Item", "Booker ID", "Start", "End", "Status"}

func (s *HTTPServer) handleExportOwnerBookings(w http.ResponseWriter, r *http.Request, userID int64) {
	state := models.ParseBookingState(r.URL.Query().Get("state"))
	bookings, err := s.svc.Bookings.ListOwnerBookings(r.Context(), userID, state)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	fileName := fmt.Sprintf("owner_%d_bookings_%s.xlsx", userID, strings.ToLower(state.String()))
	w.Header().Set("Content-Type", xlsxMIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	if err := writeBookingsWorkbook(w, bookings); err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("write bookings workbook")
	}
}

// writeBookingsWorkbook renders one row per booking under a styled header row.
func writeBookingsWorkbook(out io.Writer, bookings []*models.Booking) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(bookingsSheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	for i, title := range bookingColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(bookingsSheet, cell, title)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		lastHeader, _ := excelize.CoordinatesToCellName(len(bookingColumns), 1)
		_ = f.SetCellStyle(bookingsSheet, "A1", lastHeader, headerStyle)
	}

	for i, b := range bookings {
		row := []interface{}{b.ID, b.ItemID, b.ItemName, b.BookerID, formatTime(b.Start), formatTime(b.End), b.Status.String()}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(bookingsSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(bookingsSheet, "A", "B", 12)
	_ = f.SetColWidth(bookingsSheet, "C", "C", 25)
	_ = f.SetColWidth(bookingsSheet, "D", "D", 12)
	_ = f.SetColWidth(bookingsSheet, "E", "G", 20)
	_ = f.DeleteSheet("Sheet1")

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
