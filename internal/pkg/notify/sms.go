package notify

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// MessageCreator is the part of the Twilio REST API used to send SMS.
type MessageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

type SMSConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	ToNumber   string
}

type SMSNotifier struct {
	Log      *logrus.Entry
	Config   SMSConfig
	Messages MessageCreator
}

// NewSMSNotifier authenticates against Twilio with the account SID and
// auth token.
func NewSMSNotifier(log *logrus.Entry, cfg SMSConfig) *SMSNotifier {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})

	return &SMSNotifier{
		Log:      log,
		Config:   cfg,
		Messages: client.Api,
	}
}

func (n *SMSNotifier) Name() string {
	return "sms"
}

func (n *SMSNotifier) Notify(ctx context.Context, message string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(n.Config.ToNumber)
	params.SetFrom(n.Config.FromNumber)
	params.SetBody(message)

	resp, err := n.Messages.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("%w: error sending twilio message to %s: %w", ErrDispatch, n.Config.ToNumber, err)
	}

	if n.Log != nil && resp != nil && resp.Sid != nil {
		n.Log.WithField("message_sid", *resp.Sid).Info("sent sms")
	}

	return nil
}
