package push

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// Message is the payload handed to the push collaborator.
type Message struct {
	Title string
	Body  string
	Data  map[string]string
	Link  string
}

// Report summarizes a multicast send. InvalidTokens lists registration
// tokens the provider no longer recognizes; callers should deactivate them.
type Report struct {
	SuccessCount  int
	FailureCount  int
	InvalidTokens []string
}

type Sender interface {
	SendToTokens(ctx context.Context, msg Message, tokens []string) (*Report, error)
	SendToTopic(ctx context.Context, topic string, msg Message) error
}

type fcmSender struct {
	client *messaging.Client
}

// NewFCMSender initializes the Firebase app from a service-account
// credentials file and returns a Sender over Cloud Messaging.
func NewFCMSender(ctx context.Context, credentialsFile string) (Sender, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize messaging client: %w", err)
	}

	return &fcmSender{client: client}, nil
}

func (s *fcmSender) buildNotification(msg Message) *messaging.Notification {
	return &messaging.Notification{
		Title: msg.Title,
		Body:  msg.Body,
	}
}

func (s *fcmSender) buildWebpush(msg Message) *messaging.WebpushConfig {
	if msg.Link == "" {
		return nil
	}
	return &messaging.WebpushConfig{
		FCMOptions: &messaging.WebpushFCMOptions{Link: msg.Link},
	}
}

func (s *fcmSender) SendToTokens(ctx context.Context, msg Message, tokens []string) (*Report, error) {
	if len(tokens) == 0 {
		return &Report{}, nil
	}

	batch, err := s.client.SendEachForMulticast(ctx, &messaging.MulticastMessage{
		Tokens:       tokens,
		Notification: s.buildNotification(msg),
		Data:         msg.Data,
		Webpush:      s.buildWebpush(msg),
	})
	if err != nil {
		return nil, fmt.Errorf("multicast send failed: %w", err)
	}

	report := &Report{
		SuccessCount: batch.SuccessCount,
		FailureCount: batch.FailureCount,
	}
	for i, resp := range batch.Responses {
		if resp.Error != nil && messaging.IsUnregistered(resp.Error) {
			report.InvalidTokens = append(report.InvalidTokens, tokens[i])
		}
	}
	return report, nil
}

func (s *fcmSender) SendToTopic(ctx context.Context, topic string, msg Message) error {
	_, err := s.client.Send(ctx, &messaging.Message{
		Topic:        topic,
		Notification: s.buildNotification(msg),
		Data:         msg.Data,
		Webpush:      s.buildWebpush(msg),
	})
	if err != nil {
		return fmt.Errorf("topic send failed: %w", err)
	}
	return nil
}
