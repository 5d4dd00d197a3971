package notify

import (
	"context"
	"log"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// Sender delivers a push notification to a single device token.
type Sender interface {
	Send(ctx context.Context, token string, notification *messaging.Notification, data map[string]string) error
}

// FirebaseSender sends through Firebase Cloud Messaging using the Admin
// SDK. GOOGLE_APPLICATION_CREDENTIALS should be set in the environment.
type FirebaseSender struct{}

func (FirebaseSender) Send(ctx context.Context, token string, notification *messaging.Notification, data map[string]string) error {
	var app *firebase.App
	var err error

	if creds := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); creds != "" {
		app, err = firebase.NewApp(ctx, nil, option.WithCredentialsFile(creds))
	} else {
		app, err = firebase.NewApp(ctx, nil)
	}
	if err != nil {
		return err
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return err
	}

	response, err := client.Send(ctx, &messaging.Message{
		Notification: notification,
		Data:         data,
		Token:        token,
	})
	if err != nil {
		return err
	}
	log.Printf("Sent push message: %s", response)
	return nil
}
