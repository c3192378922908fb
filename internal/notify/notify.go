package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sns"
	"github.com/jdwit/image-thumbnail-pipe/internal/config"
)

const (
	SubjectSuccess = "Image Processing Successful"
	SubjectFailure = "Image Processing Failed"
)

type Notifier interface {
	Publish(ctx context.Context, subject, message string) error
}

type SNSAPI interface {
	PublishWithContext(ctx aws.Context, input *sns.PublishInput, opts ...request.Option) (*sns.PublishOutput, error)
}

type SNSNotifier struct {
	snsClient SNSAPI
	topicARN  string
}

// New returns the notifier for cfg, or nil when notifications are disabled.
func New(cfg *config.Config, sess *session.Session) Notifier {
	if !cfg.SendNotifications {
		return nil
	}
	return NewSNSNotifier(sns.New(sess), cfg.TopicARN)
}

func NewSNSNotifier(client SNSAPI, topicARN string) *SNSNotifier {
	return &SNSNotifier{snsClient: client, topicARN: topicARN}
}

func (n *SNSNotifier) Publish(ctx context.Context, subject, message string) error {
	_, err := n.snsClient.PublishWithContext(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	})
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", n.topicARN, err)
	}
	return nil
}

func SuccessMessage(key, bucket, processedKey string) string {
	return fmt.Sprintf("Image %s was successfully processed and saved to %s/%s", key, bucket, processedKey)
}

func FailureMessage(key string, err error) string {
	return fmt.Sprintf("Error processing image %s: %v", key, err)
}
