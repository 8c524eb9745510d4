package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env"
	"github.com/sirupsen/logrus"

	"github.com/adiazny/recgov-campsite-lambda/internal/pkg/calendar"
	"github.com/adiazny/recgov-campsite-lambda/internal/pkg/notify"
	"github.com/adiazny/recgov-campsite-lambda/internal/pkg/recreation"
)

const (
	ChannelSMS     = "sms"
	ChannelWebhook = "webhook"
	ChannelSNS     = "sns"
	ChannelEmail   = "email"
)

// ErrInvalid marks missing or malformed configuration.
var ErrInvalid = errors.New("invalid configuration")

type EnvironmentVariables struct {
	StartDate     string `env:"START_DATE,required"`
	EndDate       string `env:"END_DATE"`
	DaysToInclude string `env:"DAYS_TO_INCLUDE,required"`

	Notifier string `env:"NOTIFIER"`

	TwilioAccountSID string `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `env:"TWILIO_AUTH_TOKEN"`
	TwilioFromNumber string `env:"TWILIO_FROM_NUMBER"`
	TwilioToNumber   string `env:"TWILIO_TO_NUMBER"`

	DiscordWebhookURL string `env:"DISCORD_WEBHOOK_URL"`

	TopicARN string `env:"TOPIC_ARN"`

	SMTPHost     string   `env:"SMTP_HOST"`
	SMTPPort     int      `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string   `env:"SMTP_USERNAME"`
	SMTPPassword string   `env:"SMTP_PASSWORD"`
	EmailFrom    string   `env:"EMAIL_FROM"`
	EmailTo      []string `env:"EMAIL_TO" envSeparator:","`

	BaseURL     string        `env:"BASE_URL" envDefault:"https://www.recreation.gov"`
	UserAgent   string        `env:"USER_AGENT"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s"`

	PollSchedule string `env:"POLL_SCHEDULE" envDefault:"@every 15m"`
	ResultsDir   string `env:"RESULTS_DIR"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses the process environment and resolves the notification
// channel.
func Load() (*EnvironmentVariables, error) {
	envVars := &EnvironmentVariables{}

	err := env.Parse(envVars)
	if err != nil {
		return nil, fmt.Errorf("%w: error parsing environment variables %w", ErrInvalid, err)
	}

	channel, err := envVars.resolveChannel()
	if err != nil {
		return nil, err
	}

	envVars.Notifier = channel

	return envVars, nil
}

func (envVars *EnvironmentVariables) resolveChannel() (string, error) {
	channel := strings.ToLower(strings.TrimSpace(envVars.Notifier))

	if channel == "" {
		switch {
		case envVars.DiscordWebhookURL != "":
			channel = ChannelWebhook
		case envVars.TwilioAccountSID != "":
			channel = ChannelSMS
		case envVars.TopicARN != "":
			channel = ChannelSNS
		case envVars.SMTPHost != "":
			channel = ChannelEmail
		default:
			return "", fmt.Errorf("%w: no notification channel configured", ErrInvalid)
		}
	}

	missing := make([]string, 0)
	require := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}

	switch channel {
	case ChannelSMS:
		require("TWILIO_ACCOUNT_SID", envVars.TwilioAccountSID)
		require("TWILIO_AUTH_TOKEN", envVars.TwilioAuthToken)
		require("TWILIO_FROM_NUMBER", envVars.TwilioFromNumber)
		require("TWILIO_TO_NUMBER", envVars.TwilioToNumber)
	case ChannelWebhook:
		require("DISCORD_WEBHOOK_URL", envVars.DiscordWebhookURL)
	case ChannelSNS:
		require("TOPIC_ARN", envVars.TopicARN)
	case ChannelEmail:
		require("SMTP_HOST", envVars.SMTPHost)
		require("EMAIL_FROM", envVars.EmailFrom)
		require("EMAIL_TO", strings.Join(envVars.EmailTo, ""))
	default:
		return "", fmt.Errorf("%w: unknown notifier %q", ErrInvalid, envVars.Notifier)
	}

	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s notifier requires %s", ErrInvalid, channel, strings.Join(missing, ", "))
	}

	return channel, nil
}

// Window builds the availability window from START_DATE, END_DATE and
// DAYS_TO_INCLUDE.
func (envVars *EnvironmentVariables) Window() (calendar.Window, error) {
	weekdays, err := calendar.ParseWeekdays(envVars.DaysToInclude)
	if err != nil {
		return calendar.Window{}, fmt.Errorf("%w: DAYS_TO_INCLUDE: %w", ErrInvalid, err)
	}

	window, err := calendar.NewWindow(envVars.StartDate, envVars.EndDate, weekdays)
	if err != nil {
		return calendar.Window{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return window, nil
}

func (envVars *EnvironmentVariables) RecreationConfig() recreation.Config {
	cfg := recreation.DefaultConfig()

	if envVars.BaseURL != "" {
		cfg.BaseURL = strings.TrimRight(envVars.BaseURL, "/")
	}

	if envVars.UserAgent != "" {
		cfg.Headers["user-agent"] = envVars.UserAgent
	}

	return cfg
}

func (envVars *EnvironmentVariables) SMSConfig() notify.SMSConfig {
	return notify.SMSConfig{
		AccountSID: envVars.TwilioAccountSID,
		AuthToken:  envVars.TwilioAuthToken,
		FromNumber: envVars.TwilioFromNumber,
		ToNumber:   envVars.TwilioToNumber,
	}
}

func (envVars *EnvironmentVariables) EmailConfig() notify.EmailConfig {
	return notify.EmailConfig{
		Host:     envVars.SMTPHost,
		Port:     envVars.SMTPPort,
		Username: envVars.SMTPUsername,
		Password: envVars.SMTPPassword,
		From:     envVars.EmailFrom,
		To:       envVars.EmailTo,
	}
}

// NewLogger returns a JSON logger on stdout tagged with component.
func NewLogger(component, level string) *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})

	if parsed, err := logrus.ParseLevel(level); err == nil {
		logger.SetLevel(parsed)
	}

	return logger.WithField("component", component)
}
