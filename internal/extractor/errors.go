package extractor

import (
	"fmt"

	"github.com/rohmanhakim/site-crawler/pkg/failure"
)

type ExtractionErrorCause string

const (
	ErrCauseParseFail       ExtractionErrorCause = "snapshot parse failed"
	ErrCauseMainContentFail ExtractionErrorCause = "main content isolation failed"
)

type ExtractionError struct {
	Message   string
	Retryable bool
	Cause     ExtractionErrorCause
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction error: %s: %s", e.Cause, e.Message)
}

func (e *ExtractionError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}
