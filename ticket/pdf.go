package ticket

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"

	"bdbus-backend/model"
)

// Render produces the e-ticket PDF for a persisted booking.
func Render(booking model.Booking) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, booking.BusData.Bus.Operator)
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, booking.BusData.Bus.Name)
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Route          : %s", strings.Join(booking.BusData.Bus.Route, " - ")),
		fmt.Sprintf("Transaction ID : %s", booking.TransactionID),
		fmt.Sprintf("Destination    : %s - %s", booking.BusData.From, booking.BusData.To),
		fmt.Sprintf("Date and time  : %s [ %s ]", booking.BusData.Date, booking.BusData.DepartureTime),
		fmt.Sprintf("Passengers     : %d", len(booking.Persons)),
		fmt.Sprintf("Seats          : %s", seatList(booking)),
		fmt.Sprintf("Contact email  : %s", booking.PassengerDetails.Email),
		fmt.Sprintf("Contact phone  : %s", booking.PassengerDetails.Phone),
		fmt.Sprintf("Total fare     : %.2f", booking.BusData.Cost*float64(len(booking.Persons))),
	}
	for _, line := range lines {
		pdf.Cell(0, 8, line)
		pdf.Ln(8)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("cannot render ticket pdf: %v", err)
	}
	return buf.Bytes(), nil
}

func seatList(booking model.Booking) string {
	seats := make([]string, 0, len(booking.Persons))
	for _, seat := range booking.SeatNumbers() {
		seats = append(seats, fmt.Sprint(seat))
	}
	return strings.Join(seats, ", ")
}
