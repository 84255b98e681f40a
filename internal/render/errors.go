package render

import (
	"fmt"

	"github.com/rohmanhakim/site-crawler/pkg/failure"
)

type RenderErrorCause string

const (
	ErrCauseUnknownFormat  RenderErrorCause = "unknown output format"
	ErrCauseConversionFail RenderErrorCause = "format conversion failed"
)

type RenderError struct {
	Message   string
	Retryable bool
	Cause     RenderErrorCause
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render error: %s: %s", e.Cause, e.Message)
}

func (e *RenderError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}
