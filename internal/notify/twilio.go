package notify

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/nimbuslabs/waitlist-service/internal/log"
)

// TwilioConfig holds the credentials and routing for SMS notifications.
type TwilioConfig struct {
	AccountSid          string
	AuthToken           string
	MessagingServiceSid string
	To                  string
}

// TwilioNotifier delivers notifications as SMS to an operator number.
type TwilioNotifier struct {
	client *twilio.RestClient
	config TwilioConfig
	logger *log.Logger
}

func NewTwilioNotifier(cfg TwilioConfig, logger *log.Logger) *TwilioNotifier {
	client := twilio.NewRestClientWithParams(twilio.RestClientParams{
		Username: cfg.AccountSid,
		Password: cfg.AuthToken,
	})

	return &TwilioNotifier{client: client, config: cfg, logger: logger}
}

func (n *TwilioNotifier) Notify(ctx context.Context, notification Notification) error {
	params := &openapi.CreateMessageParams{}
	params.SetMessagingServiceSid(n.config.MessagingServiceSid)
	params.SetTo(n.config.To)
	params.SetBody(fmt.Sprintf("[%s] %s: %s", notification.Severity, notification.Title, notification.Description))

	resp, err := n.client.ApiV2010.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio send: %w", err)
	}

	if resp.ErrorMessage != nil && *resp.ErrorMessage != "" {
		return fmt.Errorf("twilio send: %s", *resp.ErrorMessage)
	}

	log.FromContext(ctx, n.logger).Debug("SMS notification sent", "to", n.config.To)

	return nil
}
