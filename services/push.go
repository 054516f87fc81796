package services

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/igRoy3/SmartWasteManagement/pkg/apperr"
)

// FCMService sends push notifications through Firebase Cloud Messaging.
// Without a credentials file it stays in a disabled state: every send is a
// logged no-op, matching the fire-and-forget contract of the fanout.
type FCMService struct {
	client *messaging.Client
	log    zerolog.Logger
}

func NewFCMService(ctx context.Context, credentialsPath string, log zerolog.Logger) *FCMService {
	s := &FCMService{log: log.With().Str("component", "push").Logger()}

	if credentialsPath == "" {
		s.log.Warn().Msg("no FCM credentials configured, push notifications disabled")
		return s
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		s.log.Error().Err(err).Msg("firebase init failed, push notifications disabled")
		return s
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("firebase messaging client failed, push notifications disabled")
		return s
	}

	s.client = client
	s.log.Info().Msg("push notifications enabled")
	return s
}

func (s *FCMService) Enabled() bool {
	return s.client != nil
}

func (s *FCMService) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	if s.client == nil {
		return apperr.ErrTransportUnavailable
	}
	_, err := s.client.Send(ctx, &messaging.Message{
		Notification: &messaging.Notification{Title: title, Body: body},
		Data:         data,
		Token:        token,
	})
	return err
}

func (s *FCMService) SendToTopic(ctx context.Context, topic, title, body string, data map[string]string) error {
	if s.client == nil {
		return apperr.ErrTransportUnavailable
	}
	_, err := s.client.Send(ctx, &messaging.Message{
		Notification: &messaging.Notification{Title: title, Body: body},
		Data:         data,
		Topic:        topic,
	})
	return err
}

// SendMulticast delivers to up to 500 device tokens in one batch and
// returns the success count.
func (s *FCMService) SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) (int, error) {
	if s.client == nil {
		return 0, apperr.ErrTransportUnavailable
	}
	if len(tokens) == 0 {
		return 0, nil
	}
	res, err := s.client.SendEachForMulticast(ctx, &messaging.MulticastMessage{
		Notification: &messaging.Notification{Title: title, Body: body},
		Data:         data,
		Tokens:       tokens,
	})
	if err != nil {
		return 0, err
	}
	if res.FailureCount > 0 {
		s.log.Warn().Int("failed", res.FailureCount).Int("ok", res.SuccessCount).Msg("multicast partially failed")
	}
	return res.SuccessCount, nil
}
