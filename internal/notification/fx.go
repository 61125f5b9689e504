package notification

import (
	"github.com/axel-paillaud/ticketsync/internal/config"
	userdomain "github.com/axel-paillaud/ticketsync/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("notification",
	fx.Provide(NewFromConfig),
	fx.Provide(NewRecipientResolver),
	fx.Provide(NewNotifier),
	fx.Provide(func(m Mailer) userdomain.InvitationMailer { return m }),
)

func NewFromConfig(cfg config.Config, log *zap.Logger) Mailer {
	if !cfg.MailEnabled {
		log.Named("notification").Info("mail delivery disabled, using no-op mailer")
		return NoOpMailer{}
	}
	return NewSMTPMailer(SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		FromName: cfg.SMTPFromName,
	})
}
