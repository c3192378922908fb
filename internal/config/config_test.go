package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		envVars     map[string]string
		expectErr   error
		expectNotif bool
		expectTopic string
	}{
		{
			name:        "Destination bucket only",
			envVars:     map[string]string{"DESTINATION_BUCKET": "thumbs"},
			expectNotif: false,
		},
		{
			name:      "Missing destination bucket",
			envVars:   map[string]string{},
			expectErr: ErrMissingDestinationBucket,
		},
		{
			name: "Notifications enabled with topic",
			envVars: map[string]string{
				"DESTINATION_BUCKET": "thumbs",
				"SEND_NOTIFICATIONS": "TRUE",
				"SNS_TOPIC_ARN":      "arn:aws:sns:eu-west-1:123456789012:images",
			},
			expectNotif: true,
			expectTopic: "arn:aws:sns:eu-west-1:123456789012:images",
		},
		{
			name: "Notifications enabled without topic",
			envVars: map[string]string{
				"DESTINATION_BUCKET": "thumbs",
				"SEND_NOTIFICATIONS": "true",
			},
			expectErr: ErrMissingTopicARN,
		},
		{
			name: "Non true value disables notifications",
			envVars: map[string]string{
				"DESTINATION_BUCKET": "thumbs",
				"SEND_NOTIFICATIONS": "1",
			},
			expectNotif: false,
		},
		{
			name: "Topic is ignored when notifications are disabled",
			envVars: map[string]string{
				"DESTINATION_BUCKET": "thumbs",
				"SEND_NOTIFICATIONS": "false",
				"SNS_TOPIC_ARN":      "arn:aws:sns:eu-west-1:123456789012:images",
			},
			expectNotif: false,
			expectTopic: "arn:aws:sns:eu-west-1:123456789012:images",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			for _, key := range []string{"DESTINATION_BUCKET", "SEND_NOTIFICATIONS", "SNS_TOPIC_ARN", "AWS_ENDPOINT", "LOG_LEVEL", "LOG_PRETTY"} {
				t.Setenv(key, "")
			}
			for key, value := range test.envVars {
				t.Setenv(key, value)
			}

			cfg, err := Load()

			if test.expectErr != nil {
				require.ErrorIs(t, err, test.expectErr)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "thumbs", cfg.DestinationBucket)
			assert.Equal(t, test.expectNotif, cfg.SendNotifications)
			assert.Equal(t, test.expectTopic, cfg.TopicARN)
		})
	}
}

func TestLoadLogDefaults(t *testing.T) {
	t.Setenv("DESTINATION_BUCKET", "thumbs")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.Log.Pretty)
}
