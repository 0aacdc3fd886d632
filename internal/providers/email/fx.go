package email

import (
	appconfig "github.com/quimicinter/billing/internal/config"
	"go.uber.org/fx"
)

func newProvider(cfg appconfig.Config) Provider {
	return NewSMTP(Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
}

var Module = fx.Module("email",
	fx.Provide(newProvider),
)
