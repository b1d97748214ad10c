package config

import (
	"time"

	"github.com/zubinqayam/zq-portfolio/internal/form"
	"github.com/zubinqayam/zq-portfolio/internal/store"
)

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() *Config {
	return &Config{
		Port:      "8080",
		Mode:      "release",
		Database:  "data/portfolio.db",
		LogLevel:  "info",
		LogFormat: "json",
		Contact: ContactConfig{
			Variant:   VariantMailto,
			Address:   form.DefaultAddress,
			Signature: form.DefaultSignature,
		},
		Simulated: SimulatedConfig{
			Delay:       form.DefaultSimulatedDelay,
			SuccessRate: form.DefaultSuccessRate,
		},
		Newsletter: NewsletterConfig{
			Delay: form.DefaultNewsletterDelay,
		},
		SMTP: SMTPConfig{
			Host: "smtp.gmail.com",
			Port: "587",
			To:   form.DefaultAddress,
		},
		Admin: AdminConfig{
			Username: "admin",
		},
		Privacy: PrivacyConfig{
			VisitorRetention: store.DefaultVisitorRetention,
		},
	}
}

// AdminEnabled reports whether admin credentials were configured.
func (c *Config) AdminEnabled() bool {
	return c.Admin.Username != "" && c.Admin.Password != ""
}

// VisitorRetention falls back to the store default.
func (c *Config) VisitorRetention() time.Duration {
	if c.Privacy.VisitorRetention <= 0 {
		return store.DefaultVisitorRetention
	}
	return c.Privacy.VisitorRetention
}
