package main

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"bdbus-backend/config"
	"bdbus-backend/database"
	"bdbus-backend/gateway"
	"bdbus-backend/handlers"
	"bdbus-backend/router"
	"bdbus-backend/ticket"
)

func main() {
	connString, err := config.GetSecret("MONGODB_CONNSTRING")
	if err != nil {
		logrus.Fatal("cannot find connection string for DB in the environment")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := database.Open(ctx, connString)
	cancel()
	if err != nil {
		logrus.Fatalf("cannot open store: %v", err)
	}
	defer store.Close(context.Background())

	paymentKey, _ := config.GetSecret("PAYMENT_SECRET_KEY")
	mailKey, _ := config.GetSecret("SMTP_ELASTIC_API_KEY")
	mailFrom, _ := config.GetSecret("SMTP_MAIL")
	vonageKey, _ := config.GetSecret("VONAGE_API_KEY")
	vonageSecret, _ := config.GetSecret("VONAGE_SECRET_KEY")
	filesURL, _ := config.GetSecret("FILES_API_URL")
	filesToken, _ := config.GetSecret("FILES_API_TOKEN")

	mail := gateway.NewElasticEmailClient(mailKey, mailFrom)
	files := gateway.NewHTTPFilesClient(filesURL, filesToken)

	h := handlers.New(store,
		gateway.NewStripePaymentClient(paymentKey),
		mail,
		gateway.NewVonageOTPClient(vonageKey, vonageSecret, "BDBUS"),
		ticket.NewIssuer(mail, files))

	app := fiber.New()
	router.SetupRoutes(app, h)

	port, err := config.GetSecret("PORT")
	if err != nil {
		port = config.DEFAULT_PORT
	}
	if err := app.Listen(":" + port); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}
