// Package notify delivers the summary of found campsites through exactly
// one channel: SMS, a chat webhook, an SNS topic or email.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/adiazny/recgov-campsite-lambda/internal/pkg/recreation"
)

// ErrDispatch marks a failure handing the message to a provider.
var ErrDispatch = errors.New("error dispatching notification")

type Notifier interface {
	// Name identifies the channel in logs.
	Name() string
	Notify(ctx context.Context, message string) error
}

// BuildMessage renders one line per availability, in order.
func BuildMessage(availabilities []recreation.Availability) string {
	var sb strings.Builder

	for _, availability := range availabilities {
		sb.WriteString(fmt.Sprintf("\n%s, Booking URL: %s, available on %s.\n",
			availability.Park, availability.URL, availability.Date))
	}

	return sb.String()
}

// Dispatch sends availabilities through notifier and returns the message
// that was sent. Nothing is sent when there are no availabilities.
func Dispatch(ctx context.Context, notifier Notifier, availabilities []recreation.Availability) (string, error) {
	if len(availabilities) == 0 {
		return "", nil
	}

	message := BuildMessage(availabilities)

	if err := notifier.Notify(ctx, message); err != nil {
		if errors.Is(err, ErrDispatch) {
			return "", err
		}
		return "", fmt.Errorf("%w via %s: %w", ErrDispatch, notifier.Name(), err)
	}

	return message, nil
}
