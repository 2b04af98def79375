package notify

import (
	"github.com/nimbuslabs/waitlist-service/internal/log"
	"github.com/nimbuslabs/waitlist-service/pkg/utils"
)

// FromEnv selects the notification sink. Twilio SMS when fully configured,
// the structured log otherwise.
func FromEnv(logger *log.Logger) Notifier {
	cfg := TwilioConfig{
		AccountSid:          utils.GetEnvTrimmed("TWILIO_ACCOUNT_SID"),
		AuthToken:           utils.GetEnvTrimmed("TWILIO_AUTH_TOKEN"),
		MessagingServiceSid: utils.GetEnvTrimmed("TWILIO_MESSAGING_SERVICE_SID"),
		To:                  utils.GetEnvTrimmed("WAITLIST_NOTIFY_PHONE"),
	}

	if cfg.AccountSid != "" && cfg.AuthToken != "" && cfg.MessagingServiceSid != "" && cfg.To != "" {
		logger.Info("Notifications will be delivered via Twilio SMS")
		return NewTwilioNotifier(cfg, logger)
	}

	logger.Info("Notifications will be written to the log (Twilio not configured)")
	return NewLogNotifier(logger)
}
