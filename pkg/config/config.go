// Package config loads the nightjar configuration file: the watched
// identity, timing mode parameters, session store settings, and mail
// composition settings. The file is YAML, at an explicit path or
// ~/.nightjar/config.yaml by default.
package config

import (
	"fmt"

	"github.com/nightjar-dev/nightjar/pkg/timing"
)

// SessionConfig controls the verification-session store.
type SessionConfig struct {
	// RetentionMinutes is how long a session lives, verified or not
	RetentionMinutes int `yaml:"retention_minutes"`

	// SweepSeconds is the period of the expiry sweep
	SweepSeconds int `yaml:"sweep_seconds"`

	// RedisAddr selects the Redis backend when non-empty; the
	// in-memory store is used otherwise
	RedisAddr string `yaml:"redis_addr"`
}

// MailConfig controls how sign-in mails are composed.
type MailConfig struct {
	// Subject is the mail subject line
	Subject string `yaml:"subject"`

	// LinkBaseURL is the base URL embedded in magic links
	LinkBaseURL string `yaml:"link_base_url"`
}

// Config is the full nightjar configuration.
type Config struct {
	// Identity is the email address whose sign-in flow is watched.
	// Monitoring refuses to start when it is empty.
	Identity string `yaml:"identity"`

	Timing  timing.ModeConfig `yaml:"timing"`
	Session SessionConfig     `yaml:"session"`
	Mail    MailConfig        `yaml:"mail"`
}

// Default returns the configuration used when no file exists.
// Identity has no default; it must be configured.
func Default() Config {
	return Config{
		Timing: timing.DefaultModeConfig(),
		Session: SessionConfig{
			RetentionMinutes: 15,
			SweepSeconds:     60,
		},
		Mail: MailConfig{
			Subject:     "Your sign-in details",
			LinkBaseURL: "http://localhost:8080",
		},
	}
}

// Validate checks that the configuration is internally consistent.
// A missing identity is not a validation failure here: the watch
// engine reports it as a configuration error when monitoring starts.
func (c *Config) Validate() error {
	switch c.Timing.Mode {
	case timing.ModeStealth, timing.ModeSpeed:
	default:
		return fmt.Errorf("invalid timing mode %q", c.Timing.Mode)
	}

	st := c.Timing.Stealth
	if st.InterCommandDelay < 0 || st.MouseMoveDelay < 0 || st.TypingDelayMin < 0 {
		return fmt.Errorf("stealth delays must be non-negative")
	}
	if st.TypingDelayMax < st.TypingDelayMin {
		return fmt.Errorf("typing delay range inverted: min %d > max %d", st.TypingDelayMin, st.TypingDelayMax)
	}
	if c.Timing.Speed.MinDelay < 0 {
		return fmt.Errorf("speed min delay must be non-negative")
	}

	if c.Session.RetentionMinutes <= 0 {
		return fmt.Errorf("session retention must be positive")
	}
	if c.Session.SweepSeconds <= 0 {
		return fmt.Errorf("session sweep period must be positive")
	}

	return nil
}
