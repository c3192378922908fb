package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/jdwit/image-thumbnail-pipe/internal/config"
	"github.com/jdwit/image-thumbnail-pipe/internal/logging"
	"github.com/jdwit/image-thumbnail-pipe/internal/processor"
	"github.com/joho/godotenv"
)

func createSession(endpoint string) (*session.Session, error) {
	if endpoint != "" {
		// localstack
		return session.NewSession(&aws.Config{
			Endpoint:         aws.String(endpoint),
			DisableSSL:       aws.Bool(true),
			S3ForcePathStyle: aws.Bool(true),
		})
	}

	return session.NewSession()
}

func main() {
	inLambda := os.Getenv("AWS_LAMBDA_RUNTIME_API") != ""
	if !inLambda {
		_ = godotenv.Load()
	}

	cfg, err := config.Load()
	if err != nil {
		l := logging.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}

	logging.Init(logging.Config{
		Level:       cfg.Log.Level,
		Pretty:      cfg.Log.Pretty,
		ServiceName: "image-thumbnail-pipe",
	})
	l := logging.L()

	sess, err := createSession(cfg.Endpoint)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to create AWS session")
	}

	ip := processor.NewImageProcessor(sess, cfg)

	if inLambda {
		l.Info().
			Str("destination_bucket", cfg.DestinationBucket).
			Bool("notifications", cfg.SendNotifications).
			Msg("running in AWS Lambda environment")
		lambda.Start(ip.HandleLambdaEvent)
		return
	}

	l.Info().Msg("running in cli mode")
	if len(os.Args) < 2 {
		l.Fatal().Msg("s3 url is required as an argument")
	}
	if err := ip.HandleS3URL(context.Background(), os.Args[1]); err != nil {
		l.Fatal().Err(err).Msg("processing failed")
	}
}
