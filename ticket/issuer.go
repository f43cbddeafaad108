package ticket

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"bdbus-backend/gateway"
	"bdbus-backend/model"
)

// Issuer performs the post-booking ticket step: render the PDF, upload it,
// mail the confirmation with the ticket link. The step is best-effort and
// must never fail the paid booking it consumes.
type Issuer struct {
	Mail  gateway.MailClient
	Files gateway.FilesClient

	MaxAttempts int
	RetryDelay  time.Duration
}

func NewIssuer(mail gateway.MailClient, files gateway.FilesClient) *Issuer {
	return &Issuer{
		Mail:        mail,
		Files:       files,
		MaxAttempts: 3,
		RetryDelay:  5 * time.Second,
	}
}

// Issue runs one issuance attempt for a persisted booking.
func (i *Issuer) Issue(ctx context.Context, booking model.Booking) error {
	content, err := Render(booking)
	if err != nil {
		return err
	}

	fileName := fmt.Sprintf("%s-ticket.pdf", booking.TransactionID)
	fileId, err := i.Files.Upload(ctx, fileName, content)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Payment confirmation for %s", booking.BusData.Bus.Operator)
	return i.Mail.Send(ctx, booking.PassengerDetails.Email, subject,
		confirmationBody(booking, fileId),
		gateway.Attachment{Name: fileName, ContentType: "application/pdf", Content: content})
}

// IssueAsync retries Issue in the background. Failures are logged and
// dropped after MaxAttempts; the booking stays untouched either way.
func (i *Issuer) IssueAsync(booking model.Booking) {
	go func() {
		log := logrus.WithField("transaction_id", booking.TransactionID)
		for attempt := 1; attempt <= i.MaxAttempts; attempt++ {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			err := i.Issue(ctx, booking)
			cancel()
			if err == nil {
				return
			}
			log.WithError(err).Warnf("ticket issuance attempt %d failed", attempt)
			time.Sleep(i.RetryDelay)
		}
		log.Error("giving up on ticket issuance")
	}()
}

func confirmationBody(booking model.Booking, fileId string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<body>
    <p>Dear %s,</p>
    <p><h3>Congratulations!</h3> Your seat booking for <b>%s to %s</b> is confirmed.
    Please keep your transaction id (<b>%s</b>) safe.</p>
    <p>Your ticket is attached and stored as <b>%s</b>.</p>
    <p><b>Thank you for choosing us.</b></p>
    <h4>Your travel information:</h4>
    <ol>
       <li><b>Total passengers: %d</b></li>
       <li><b>Departure: %s (%s)</b></li>
       <li><b>Fare: %.2f</b></li>
       <li><b>Contact email: %s</b></li>
    </ol>
</body>
</html>`,
		firstPassengerName(booking),
		booking.BusData.From, booking.BusData.To,
		booking.TransactionID,
		fileId,
		len(booking.Persons),
		booking.BusData.From, booking.BusData.DepartureTime,
		booking.BusData.Cost*float64(len(booking.Persons)),
		booking.PassengerDetails.Email)
}

func firstPassengerName(booking model.Booking) string {
	if len(booking.Persons) == 0 {
		return "traveler"
	}
	return booking.Persons[0].Name
}
