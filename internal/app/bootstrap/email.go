package bootstrap

import (
	appconfig "github.com/wolfman30/coaching-intake/internal/config"
	"github.com/wolfman30/coaching-intake/internal/notify"
	"github.com/wolfman30/coaching-intake/pkg/logging"
)

// BuildEmailSender picks the coach notification transport from
// EMAIL_PROVIDER. A provider that is not fully configured falls back to the
// stub sender, which only logs. The second return names the chosen provider.
func BuildEmailSender(cfg *appconfig.Config, ses notify.SESAPI, logger *logging.Logger) (notify.EmailSender, string) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg == nil {
		return notify.NewStubEmailSender(logger), "stub"
	}

	switch cfg.EmailProvider {
	case "sendgrid":
		if sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); sender != nil {
			return sender, "sendgrid"
		}
		logger.Warn("sendgrid selected but SENDGRID_API_KEY is empty; using stub sender")
	case "ses":
		if sender := notify.NewSESSender(ses, notify.SESConfig{
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); sender != nil {
			return sender, "ses"
		}
		logger.Warn("ses selected but no SES client is available; using stub sender")
	case "stub", "":
	default:
		logger.Warn("unknown email provider; using stub sender", "provider", cfg.EmailProvider)
	}
	return notify.NewStubEmailSender(logger), "stub"
}
