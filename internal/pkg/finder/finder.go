// Package finder runs one campsite check: fetch every campground, filter,
// and notify once.
package finder

import (
	"context"
	"fmt"
	"net/http"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/sirupsen/logrus"

	"github.com/adiazny/recgov-campsite-lambda/internal/pkg/calendar"
	"github.com/adiazny/recgov-campsite-lambda/internal/pkg/config"
	"github.com/adiazny/recgov-campsite-lambda/internal/pkg/notify"
	"github.com/adiazny/recgov-campsite-lambda/internal/pkg/recreation"
)

type AvailabilityFinder interface {
	FindAvailable(ctx context.Context, window calendar.Window) ([]recreation.Availability, error)
}

// Result is what a run found and whether anybody was told about it.
type Result struct {
	Matches  []recreation.Availability `json:"matches"`
	Notified bool                      `json:"notified"`
	Channel  string                    `json:"channel"`
	Message  string                    `json:"message,omitempty"`
}

type Job struct {
	Log      *logrus.Entry
	Window   calendar.Window
	Finder   AvailabilityFinder
	Notifier notify.Notifier
}

// New wires a Job from the environment.
func New(ctx context.Context, log *logrus.Entry, envVars *config.EnvironmentVariables) (*Job, error) {
	window, err := envVars.Window()
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{
		Timeout: envVars.HTTPTimeout,
	}

	notifier, err := newNotifier(ctx, log, envVars, httpClient)
	if err != nil {
		return nil, err
	}

	return &Job{
		Log:    log,
		Window: window,
		Finder: &recreation.Client{
			Log:    log,
			Config: envVars.RecreationConfig(),
			HTTP:   httpClient,
		},
		Notifier: notifier,
	}, nil
}

func newNotifier(ctx context.Context, log *logrus.Entry, envVars *config.EnvironmentVariables, httpClient *http.Client) (notify.Notifier, error) {
	switch envVars.Notifier {
	case config.ChannelSMS:
		return notify.NewSMSNotifier(log, envVars.SMSConfig()), nil
	case config.ChannelWebhook:
		return &notify.WebhookNotifier{URL: envVars.DiscordWebhookURL, HTTP: httpClient}, nil
	case config.ChannelSNS:
		awsConfig, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: error loading AWS config %w", config.ErrInvalid, err)
		}

		return &notify.SNSNotifier{
			Log:      log,
			TopicARN: envVars.TopicARN,
			SNS:      sns.NewFromConfig(awsConfig),
		}, nil
	case config.ChannelEmail:
		return notify.NewEmailNotifier(envVars.EmailConfig()), nil
	default:
		return nil, fmt.Errorf("%w: unknown notifier %q", config.ErrInvalid, envVars.Notifier)
	}
}

// Run checks every campground once and sends at most one notification.
func (job *Job) Run(ctx context.Context) (Result, error) {
	log := job.Log.WithFields(logrus.Fields{
		"start_date": job.Window.Start.Format(calendar.DateLayout),
		"end_date":   job.Window.End.Format(calendar.DateLayout),
	})

	result := Result{Channel: job.Notifier.Name()}

	matches, err := job.Finder.FindAvailable(ctx, job.Window)
	if err != nil {
		return result, err
	}

	result.Matches = matches

	if len(matches) == 0 {
		log.Info("no campsites available")
		return result, nil
	}

	message, err := notify.Dispatch(ctx, job.Notifier, matches)
	if err != nil {
		return result, err
	}

	result.Notified = true
	result.Message = message

	log.WithFields(logrus.Fields{
		"matches": len(matches),
		"channel": result.Channel,
	}).Info("sent campsite notification")

	return result, nil
}
