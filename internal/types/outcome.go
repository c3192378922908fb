package types

import "encoding/json"

type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeSkip
	OutcomeMalformedInput
	OutcomeProcessingFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeSkip:
		return "skip"
	case OutcomeMalformedInput:
		return "malformed_input"
	case OutcomeProcessingFailure:
		return "processing_failure"
	default:
		return "unknown"
	}
}

// Outcome is the result of running one object through the thumbnail pipeline.
type Outcome struct {
	Kind         OutcomeKind
	OriginalKey  string
	ProcessedKey string
	Err          error
}

// Response is returned to the Lambda runtime.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

type SuccessBody struct {
	Message      string `json:"message"`
	OriginalKey  string `json:"original_key"`
	ProcessedKey string `json:"processed_key"`
}

const (
	BodyInvalidEvent = "Invalid event structure"
	BodyNotAnImage   = "Not an image file, skipping processing"
	MessageProcessed = "Image processed successfully"
)

func MalformedResponse() Response {
	return Response{StatusCode: 400, Body: BodyInvalidEvent}
}

func SkipResponse() Response {
	return Response{StatusCode: 200, Body: BodyNotAnImage}
}

func SuccessResponse(originalKey, processedKey string) (Response, error) {
	body, err := json.Marshal(SuccessBody{
		Message:      MessageProcessed,
		OriginalKey:  originalKey,
		ProcessedKey: processedKey,
	})
	if err != nil {
		return Response{}, err
	}
	return Response{StatusCode: 200, Body: string(body)}, nil
}
