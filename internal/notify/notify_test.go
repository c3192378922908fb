package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sns"
	"github.com/jdwit/image-thumbnail-pipe/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSNS struct {
	mock.Mock
}

func (m *mockSNS) PublishWithContext(ctx aws.Context, input *sns.PublishInput, _ ...request.Option) (*sns.PublishOutput, error) {
	args := m.Called(ctx, input)
	out, _ := args.Get(0).(*sns.PublishOutput)
	return out, args.Error(1)
}

const topic = "arn:aws:sns:eu-west-1:123456789012:images"

func TestSNSNotifier_Publish(t *testing.T) {
	t.Run("Publishes subject and message to topic", func(t *testing.T) {
		client := &mockSNS{}
		client.On("PublishWithContext", mock.Anything, &sns.PublishInput{
			TopicArn: aws.String(topic),
			Subject:  aws.String(SubjectSuccess),
			Message:  aws.String("hello"),
		}).Return(&sns.PublishOutput{MessageId: aws.String("1")}, nil).Once()

		err := NewSNSNotifier(client, topic).Publish(context.Background(), SubjectSuccess, "hello")
		require.NoError(t, err)
		client.AssertExpectations(t)
	})

	t.Run("Wraps publish error", func(t *testing.T) {
		boom := errors.New("throttled")
		client := &mockSNS{}
		client.On("PublishWithContext", mock.Anything, mock.Anything).Return(nil, boom).Once()

		err := NewSNSNotifier(client, topic).Publish(context.Background(), SubjectFailure, "oops")
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
	})
}

func TestNew(t *testing.T) {
	mockSession := &session.Session{}

	t.Run("Disabled", func(t *testing.T) {
		n := New(&config.Config{DestinationBucket: "thumbs"}, mockSession)
		assert.Nil(t, n)
	})

	t.Run("Enabled", func(t *testing.T) {
		sess := session.Must(session.NewSession(&aws.Config{Region: aws.String("eu-west-1")}))
		n := New(&config.Config{DestinationBucket: "thumbs", SendNotifications: true, TopicARN: topic}, sess)
		require.NotNil(t, n)
		assert.IsType(t, &SNSNotifier{}, n)
	})
}

func TestMessages(t *testing.T) {
	assert.Equal(t,
		"Image a/b.png was successfully processed and saved to thumbs/thumbnails/a/b.jpg",
		SuccessMessage("a/b.png", "thumbs", "thumbnails/a/b.jpg"))
	assert.Equal(t,
		"Error processing image a/b.png: failed to get object: NoSuchKey",
		FailureMessage("a/b.png", errors.New("failed to get object: NoSuchKey")))
}
