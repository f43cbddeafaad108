package ticket

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bdbus-backend/gateway"
	"bdbus-backend/model"
)

func sampleBooking() model.Booking {
	return model.Booking{
		Id:            primitive.NewObjectID(),
		TransactionID: "tx-1",
		BusData: model.BusSnapshot{
			Bus: model.BusSummary{
				Id:       primitive.NewObjectID(),
				Operator: "Green Line",
				Name:     "GL-101",
				Route:    []string{"X", "Y", "Z"},
			},
			Date:          "2026-09-01",
			From:          "X",
			To:            "Z",
			DepartureTime: "08:30",
			Cost:          450,
		},
		Persons: []model.Person{
			{Name: "Test Rider", Gender: "male", Age: 30, SeatNo: 2},
			{Name: "Second Rider", Gender: "female", Age: 28, SeatNo: 3},
		},
		PassengerDetails: model.PassengerDetails{
			Email: "rider@example.com",
			Phone: "01700000000",
		},
	}
}

func TestRenderProducesPdf(t *testing.T) {
	content, err := Render(sampleBooking())

	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "%PDF"))
	assert.Greater(t, len(content), 500)
}

func TestIssueUploadsTicketAndMailsConfirmation(t *testing.T) {
	mail := &gateway.MailClientMock{}
	files := &gateway.FilesClientMock{}
	issuer := NewIssuer(mail, files)

	err := issuer.Issue(context.Background(), sampleBooking())
	assert.NoError(t, err)

	assert.True(t, files.Has("tx-1-ticket.pdf"))
	assert.Equal(t, 1, mail.SentCount())

	sent := mail.LastSent()
	assert.Equal(t, "rider@example.com", sent.Recipient)
	assert.Contains(t, sent.Subject, "Green Line")
	assert.Contains(t, sent.HtmlBody, "tx-1")
	assert.Contains(t, sent.HtmlBody, "Test Rider")
	if assert.Len(t, sent.Attachments, 1) {
		assert.Equal(t, "tx-1-ticket.pdf", sent.Attachments[0].Name)
		assert.Equal(t, "application/pdf", sent.Attachments[0].ContentType)
	}
}

func TestIssueStopsBeforeMailWhenUploadFails(t *testing.T) {
	mail := &gateway.MailClientMock{}
	files := &gateway.FilesClientMock{Err: errors.New("storage down")}
	issuer := NewIssuer(mail, files)

	err := issuer.Issue(context.Background(), sampleBooking())

	assert.Error(t, err)
	assert.Equal(t, 0, mail.SentCount())
}

func TestIssuePropagatesMailFailure(t *testing.T) {
	mail := &gateway.MailClientMock{Err: errors.New("smtp down")}
	files := &gateway.FilesClientMock{}
	issuer := NewIssuer(mail, files)

	err := issuer.Issue(context.Background(), sampleBooking())

	assert.Error(t, err)
	assert.True(t, files.Has("tx-1-ticket.pdf"))
}
