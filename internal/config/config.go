package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

var (
	ErrMissingDestinationBucket = errors.New("environment variable DESTINATION_BUCKET is required")
	ErrMissingTopicARN          = errors.New("environment variable SNS_TOPIC_ARN is required when SEND_NOTIFICATIONS is true")
)

type Config struct {
	DestinationBucket string
	SendNotifications bool
	TopicARN          string
	Endpoint          string // localstack
	Log               LogConfig
}

type LogConfig struct {
	Level  string
	Pretty bool
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("destination_bucket", "")
	v.SetDefault("send_notifications", "false")
	v.SetDefault("sns_topic_arn", "")
	v.SetDefault("aws_endpoint", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	_ = v.BindEnv("destination_bucket", "DESTINATION_BUCKET")
	_ = v.BindEnv("send_notifications", "SEND_NOTIFICATIONS")
	_ = v.BindEnv("sns_topic_arn", "SNS_TOPIC_ARN")
	_ = v.BindEnv("aws_endpoint", "AWS_ENDPOINT")
	_ = v.BindEnv("log.level", "LOG_LEVEL")
	_ = v.BindEnv("log.pretty", "LOG_PRETTY")

	cfg := &Config{
		DestinationBucket: strings.TrimSpace(v.GetString("destination_bucket")),
		// Only a case-insensitive "true" enables notifications.
		SendNotifications: strings.EqualFold(strings.TrimSpace(v.GetString("send_notifications")), "true"),
		TopicARN:          strings.TrimSpace(v.GetString("sns_topic_arn")),
		Endpoint:          v.GetString("aws_endpoint"),
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Pretty: v.GetBool("log.pretty"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DestinationBucket == "" {
		return ErrMissingDestinationBucket
	}
	if c.SendNotifications && c.TopicARN == "" {
		return ErrMissingTopicARN
	}
	return nil
}
