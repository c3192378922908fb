package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/jdwit/image-thumbnail-pipe/internal/logging"
	"github.com/jdwit/image-thumbnail-pipe/internal/notify"
	"github.com/jdwit/image-thumbnail-pipe/internal/types"
)

// HandleLambdaEvent handles one S3 object-created notification. Malformed
// events and non-image keys produce a response; processing failures are
// returned as an error so the Lambda retry and dead-letter policy applies.
func (ip *ImageProcessor) HandleLambdaEvent(ctx context.Context, payload json.RawMessage) (types.Response, error) {
	ctx = withInvocationLogger(ctx)
	l := logging.Ctx(ctx)

	if json.Valid(payload) {
		l.Info().RawJSON("event", payload).Msg("event received")
	} else {
		l.Info().Str("event", string(payload)).Msg("event received")
	}

	obj, err := types.ParseS3Event(payload)
	if err != nil {
		l.Warn().Err(err).Msg("error parsing event")
		return types.MalformedResponse(), nil
	}

	return ip.handleObject(ctx, obj)
}

func (ip *ImageProcessor) handleObject(ctx context.Context, obj types.S3ObjectInfo) (types.Response, error) {
	outcome := ip.Process(ctx, obj)

	switch outcome.Kind {
	case types.OutcomeSkip:
		return types.SkipResponse(), nil
	case types.OutcomeSuccess:
		return types.SuccessResponse(outcome.OriginalKey, outcome.ProcessedKey)
	case types.OutcomeMalformedInput:
		return types.MalformedResponse(), nil
	default:
		ip.reportFailure(ctx, outcome)
		return types.Response{}, fmt.Errorf("error processing image %s: %w", outcome.OriginalKey, outcome.Err)
	}
}

// reportFailure logs a processing failure and sends the failure notification.
// A failing notification is logged only; the processing error is what the caller returns.
func (ip *ImageProcessor) reportFailure(ctx context.Context, outcome types.Outcome) {
	l := logging.Ctx(ctx)
	l.Error().Err(outcome.Err).Str(logging.FieldKey, outcome.OriginalKey).Msg("error processing image")

	if ip.notifier == nil {
		return
	}
	msg := notify.FailureMessage(outcome.OriginalKey, outcome.Err)
	if err := ip.notifier.Publish(ctx, notify.SubjectFailure, msg); err != nil {
		l.Error().Err(err).Str(logging.FieldKey, outcome.OriginalKey).Msg("failed to send failure notification")
	}
}

// HandleS3URL processes every object under an s3://bucket/prefix URL, one at a time.
func (ip *ImageProcessor) HandleS3URL(ctx context.Context, url string) error {
	bucket, prefix, err := parseS3Url(url)
	if err != nil {
		return fmt.Errorf("failed to parse S3 URL: %w", err)
	}

	var s3Objects []types.S3ObjectInfo
	var continuationToken *string
	for {
		resp, err := ip.s3Client.ListObjectsV2WithContext(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: continuationToken,
		})
		if err != nil {
			return fmt.Errorf("failed to list objects: %w", err)
		}

		for _, item := range resp.Contents {
			s3Objects = append(s3Objects, types.S3ObjectInfo{
				Bucket: bucket,
				Key:    aws.StringValue(item.Key),
			})
		}

		if !aws.BoolValue(resp.IsTruncated) {
			break
		}
		continuationToken = resp.NextContinuationToken
	}

	return ip.processS3Objects(ctx, s3Objects)
}

func (ip *ImageProcessor) processS3Objects(ctx context.Context, s3Objects []types.S3ObjectInfo) error {
	var errs []error
	for _, obj := range s3Objects {
		objCtx := withInvocationLogger(ctx)
		if _, err := ip.handleObject(objCtx, obj); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("encountered %d errors: %w", len(errs), errors.Join(errs...))
	}
	return nil
}

// withInvocationLogger attaches a logger tagged with the Lambda request ID,
// or a fresh UUID when running outside Lambda.
func withInvocationLogger(ctx context.Context) context.Context {
	requestID := uuid.NewString()
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		requestID = lc.AwsRequestID
	}
	l := logging.L().With().Str(logging.FieldRequestID, requestID).Logger()
	return logging.WithLogger(ctx, l)
}

func parseS3Url(url string) (bucket string, prefix string, err error) {
	if !strings.HasPrefix(url, "s3://") {
		return "", "", fmt.Errorf("invalid S3 URL, missing 's3://' prefix")
	}
	trimmedS3URL := strings.TrimPrefix(url, "s3://")
	splitPos := strings.Index(trimmedS3URL, "/")
	if splitPos == -1 {
		return "", "", fmt.Errorf("invalid S3 URL, no '/' found after bucket name")
	}
	bucket = trimmedS3URL[:splitPos]
	prefix = trimmedS3URL[splitPos+1:]
	return bucket, prefix, nil
}
