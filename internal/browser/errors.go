package browser

import (
	"fmt"

	"github.com/rohmanhakim/site-crawler/pkg/failure"
)

type DriverErrorCause string

const (
	ErrCauseSessionOpenFail DriverErrorCause = "session open failed"
	ErrCauseSessionLost     DriverErrorCause = "session lost"
	ErrCauseNavigationFail  DriverErrorCause = "navigation failed"
	ErrCauseElementNotFound DriverErrorCause = "element not found"
	ErrCauseScriptFail      DriverErrorCause = "script evaluation failed"
	ErrCauseCaptureFail     DriverErrorCause = "screenshot capture failed"
)

type DriverError struct {
	Message   string
	Retryable bool
	Cause     DriverErrorCause
}

func (e *DriverError) Error() string {
	return fmt.Sprintf("driver error: %s: %s", e.Cause, e.Message)
}

func (e *DriverError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}
