package stitch

import (
	"fmt"

	"github.com/rohmanhakim/site-crawler/pkg/failure"
)

type StitchErrorCause string

const (
	ErrCauseInvalidDimensions StitchErrorCause = "invalid dimensions"
	ErrCauseCaptureFail       StitchErrorCause = "viewport capture failed"
	ErrCauseEncodeFail        StitchErrorCause = "image encoding failed"
)

type StitchError struct {
	Message   string
	Retryable bool
	Cause     StitchErrorCause
}

func (e *StitchError) Error() string {
	return fmt.Sprintf("stitch error: %s: %s", e.Cause, e.Message)
}

func (e *StitchError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}
