// Package config loads the site configuration from defaults, an optional
// YAML file and PORTFOLIO_* environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override. A double underscore
// separates nested keys: PORTFOLIO_SMTP__HOST -> smtp.host.
const EnvPrefix = "PORTFOLIO_"

// Variant selects how the contact form is delivered.
type Variant string

const (
	VariantMailto    Variant = "mailto"
	VariantSimulated Variant = "simulated"
	VariantSMTP      Variant = "smtp"
)

type Config struct {
	Port     string `koanf:"port" yaml:"port"`
	Mode     string `koanf:"mode" yaml:"mode"`
	Database string `koanf:"database" yaml:"database"`
	LogLevel string `koanf:"log_level" yaml:"log_level"`
	// LogFormat is json or text.
	LogFormat string `koanf:"log_format" yaml:"log_format"`
	// ResumePath points at the resume PDF; empty serves the built-in placeholder.
	ResumePath string `koanf:"resume_path" yaml:"resume_path"`

	Contact    ContactConfig    `koanf:"contact" yaml:"contact"`
	Simulated  SimulatedConfig  `koanf:"simulated" yaml:"simulated"`
	Newsletter NewsletterConfig `koanf:"newsletter" yaml:"newsletter"`
	SMTP       SMTPConfig       `koanf:"smtp" yaml:"smtp"`
	Admin      AdminConfig      `koanf:"admin" yaml:"admin"`
	CORS       CORSConfig       `koanf:"cors" yaml:"cors"`
	Privacy    PrivacyConfig    `koanf:"privacy" yaml:"privacy"`
}

type ContactConfig struct {
	Variant   Variant `koanf:"variant" yaml:"variant"`
	Address   string  `koanf:"address" yaml:"address"`
	Signature string  `koanf:"signature" yaml:"signature"`
}

type SimulatedConfig struct {
	Delay       time.Duration `koanf:"delay" yaml:"delay"`
	SuccessRate float64       `koanf:"success_rate" yaml:"success_rate"`
}

type NewsletterConfig struct {
	Delay time.Duration `koanf:"delay" yaml:"delay"`
}

type SMTPConfig struct {
	Host string `koanf:"host" yaml:"host"`
	Port string `koanf:"port" yaml:"port"`
	User string `koanf:"user" yaml:"user"`
	Pass string `koanf:"pass" yaml:"pass"`
	To   string `koanf:"to" yaml:"to"`
}

type AdminConfig struct {
	Username string `koanf:"username" yaml:"username"`
	Password string `koanf:"password" yaml:"password"`
}

type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins" yaml:"allowed_origins"`
}

type PrivacyConfig struct {
	VisitorRetention time.Duration `koanf:"visitor_retention" yaml:"visitor_retention"`
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validVariants = map[Variant]bool{
	VariantMailto:    true,
	VariantSimulated: true,
	VariantSMTP:      true,
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if c.Database == "" {
		return fmt.Errorf("database is required")
	}
	if !validVariants[c.Contact.Variant] {
		return fmt.Errorf("invalid contact.variant %q: must be one of mailto, simulated, smtp", c.Contact.Variant)
	}
	if c.Contact.Address == "" {
		return fmt.Errorf("contact.address is required")
	}
	if c.Simulated.SuccessRate < 0 || c.Simulated.SuccessRate > 1 {
		return fmt.Errorf("simulated.success_rate must be between 0 and 1")
	}
	if c.Simulated.Delay < 0 || c.Newsletter.Delay < 0 {
		return fmt.Errorf("delays must be non-negative")
	}
	if c.Contact.Variant == VariantSMTP && (c.SMTP.User == "" || c.SMTP.Pass == "") {
		return fmt.Errorf("smtp.user and smtp.pass are required for the smtp variant")
	}
	return nil
}
