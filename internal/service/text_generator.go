package service

import (
	"context"
	"fmt"
)

// GenerationRequest is one call to the generation backend.
type GenerationRequest struct {
	SystemInstruction string
	Messages          []Message
	Temperature       float32
}

// GenerationOutcome is a successful call. Text may be empty when the backend answered
// without any text candidate.
type GenerationOutcome struct {
	Text string
}

type GenerationErrorKind int

const (
	// GenerationTransport covers timeouts, connection errors and an unconfigured client.
	GenerationTransport GenerationErrorKind = iota
	// GenerationApplication is a non-success status returned by the backend.
	GenerationApplication
)

func (k GenerationErrorKind) String() string {
	if k == GenerationApplication {
		return "application"
	}
	return "transport"
}

// GenerationError is the only error type a TextGenerator returns.
type GenerationError struct {
	Kind       GenerationErrorKind
	StatusCode int
	Err        error
}

func (e *GenerationError) Error() string {
	if e.Kind == GenerationApplication {
		return fmt.Sprintf("generation failed with status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("generation transport failure: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

type TextGenerator interface {
	Generate(ctx context.Context, req GenerationRequest) (*GenerationOutcome, error)
}
