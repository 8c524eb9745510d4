package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/sirupsen/logrus"
)

type SNSPublisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSNotifier publishes the message to an SNS topic, which fans out to
// whatever subscriptions the topic has.
type SNSNotifier struct {
	Log      *logrus.Entry
	TopicARN string
	SNS      SNSPublisher
}

func (n *SNSNotifier) Name() string {
	return "sns"
}

func (n *SNSNotifier) Notify(ctx context.Context, message string) error {
	topicARN := n.TopicARN

	input := &sns.PublishInput{
		Message:  &message,
		TopicArn: &topicARN,
	}

	out, err := n.SNS.Publish(ctx, input)
	if err != nil {
		return fmt.Errorf("%w: error publishing to AWS SNS topic %s: %w", ErrDispatch, n.TopicARN, err)
	}

	if n.Log != nil && out != nil && out.MessageId != nil {
		n.Log.WithField("message_id", *out.MessageId).Info("published to sns")
	}

	return nil
}
