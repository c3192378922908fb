package types

import (
	"encoding/json"
	"errors"
	"net/url"
)

var ErrMalformedEvent = errors.New("invalid event structure")

type S3ObjectInfo struct {
	Bucket string
	Key    string
}

type S3Record struct {
	S3 struct {
		Bucket struct {
			Name string `json:"name"`
		} `json:"bucket"`
		Object struct {
			Key string `json:"key"`
		} `json:"object"`
	} `json:"s3"`
}

type S3ObjectCreatedEvent struct {
	Records []S3Record `json:"Records"`
}

// ParseS3Event extracts the bucket and key of the first record in payload.
// Object keys in S3 notifications are URL encoded; the decoded key is returned
// unless it fails to decode.
func ParseS3Event(payload []byte) (S3ObjectInfo, error) {
	var event S3ObjectCreatedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return S3ObjectInfo{}, errors.Join(ErrMalformedEvent, err)
	}
	if len(event.Records) == 0 {
		return S3ObjectInfo{}, errors.Join(ErrMalformedEvent, errors.New("no records"))
	}

	record := event.Records[0]
	if record.S3.Bucket.Name == "" {
		return S3ObjectInfo{}, errors.Join(ErrMalformedEvent, errors.New("missing s3.bucket.name"))
	}
	if record.S3.Object.Key == "" {
		return S3ObjectInfo{}, errors.Join(ErrMalformedEvent, errors.New("missing s3.object.key"))
	}

	key := record.S3.Object.Key
	if decoded, err := url.QueryUnescape(key); err == nil {
		key = decoded
	}

	return S3ObjectInfo{
		Bucket: record.S3.Bucket.Name,
		Key:    key,
	}, nil
}
