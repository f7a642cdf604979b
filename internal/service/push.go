package service

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

type fcmSender struct {
	client *messaging.Client
}

// NewFCMSender initializes the Firebase app from a service account
// credentials file and returns a sender backed by Cloud Messaging.
func NewFCMSender(ctx context.Context, credentialsFile string) (PushSender, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase messaging: %w", err)
	}
	return &fcmSender{client: client}, nil
}

func (s *fcmSender) Send(ctx context.Context, deviceToken, title, body string, data map[string]string) error {
	msg := &messaging.Message{
		Token: deviceToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}
	if _, err := s.client.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send push notification: %w", err)
	}
	return nil
}
