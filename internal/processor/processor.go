package processor

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/jdwit/image-thumbnail-pipe/internal/config"
	"github.com/jdwit/image-thumbnail-pipe/internal/logging"
	"github.com/jdwit/image-thumbnail-pipe/internal/notify"
	"github.com/jdwit/image-thumbnail-pipe/internal/thumbnail"
	"github.com/jdwit/image-thumbnail-pipe/internal/types"
)

// storageClass is applied to every uploaded thumbnail.
const storageClass = s3.StorageClassStandardIa

type S3Api interface {
	GetObjectWithContext(ctx aws.Context, input *s3.GetObjectInput, opts ...request.Option) (*s3.GetObjectOutput, error)
	PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error)
	ListObjectsV2WithContext(ctx aws.Context, input *s3.ListObjectsV2Input, opts ...request.Option) (*s3.ListObjectsV2Output, error)
}

// ImageProcessor holds the clients shared by all invocations of the process.
// None of its fields are modified after construction.
type ImageProcessor struct {
	s3Client S3Api
	notifier notify.Notifier // nil when notifications are disabled
	config   *config.Config
}

func NewImageProcessor(sess *session.Session, cfg *config.Config) *ImageProcessor {
	return &ImageProcessor{
		s3Client: s3.New(sess),
		notifier: notify.New(cfg, sess),
		config:   cfg,
	}
}

// Process runs a single object through the thumbnail pipeline. Failures are
// returned in the outcome; reporting them is up to the caller.
func (ip *ImageProcessor) Process(ctx context.Context, obj types.S3ObjectInfo) types.Outcome {
	l := logging.Ctx(ctx).With().
		Str(logging.FieldBucket, obj.Bucket).
		Str(logging.FieldKey, obj.Key).
		Logger()

	if !thumbnail.IsImageKey(obj.Key) {
		l.Info().Msg("skipping non-image file")
		return types.Outcome{Kind: types.OutcomeSkip, OriginalKey: obj.Key}
	}

	l.Info().Msg("processing image")

	processedKey, err := ip.createThumbnail(logging.WithLogger(ctx, l), obj)
	if err != nil {
		return types.Outcome{Kind: types.OutcomeProcessingFailure, OriginalKey: obj.Key, Err: err}
	}

	l.Info().Str("processed_key", processedKey).Msg("successfully processed image")

	if ip.notifier != nil {
		msg := notify.SuccessMessage(obj.Key, ip.config.DestinationBucket, processedKey)
		if err := ip.notifier.Publish(ctx, notify.SubjectSuccess, msg); err != nil {
			return types.Outcome{
				Kind:         types.OutcomeProcessingFailure,
				OriginalKey:  obj.Key,
				ProcessedKey: processedKey,
				Err:          fmt.Errorf("failed to send success notification: %w", err),
			}
		}
	}

	return types.Outcome{Kind: types.OutcomeSuccess, OriginalKey: obj.Key, ProcessedKey: processedKey}
}

func (ip *ImageProcessor) createThumbnail(ctx context.Context, obj types.S3ObjectInfo) (string, error) {
	l := logging.Ctx(ctx)

	data, err := ip.fetch(ctx, obj)
	if err != nil {
		return "", err
	}

	res, err := thumbnail.Generate(obj.Key, data)
	if err != nil {
		return "", err
	}
	l.Debug().
		Str("format", res.SourceFormat).
		Int("width", res.Width).
		Int("height", res.Height).
		Int("size", len(res.Data)).
		Msg("thumbnail generated")

	_, err = ip.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(ip.config.DestinationBucket),
		Key:          aws.String(res.Key),
		Body:         bytes.NewReader(res.Data),
		ContentType:  aws.String(thumbnail.ContentType),
		StorageClass: aws.String(storageClass),
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object s3://%s/%s: %w", ip.config.DestinationBucket, res.Key, err)
	}

	return res.Key, nil
}

func (ip *ImageProcessor) fetch(ctx context.Context, obj types.S3ObjectInfo) ([]byte, error) {
	out, err := ip.s3Client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(obj.Bucket),
		Key:    aws.String(obj.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}
	return data, nil
}
