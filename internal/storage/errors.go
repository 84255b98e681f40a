package storage

import (
	"fmt"

	"github.com/rohmanhakim/site-crawler/internal/metadata"
	"github.com/rohmanhakim/site-crawler/pkg/failure"
)

type StorageErrorCause string

const (
	ErrCauseDiskFull          StorageErrorCause = "disk is full"
	ErrCauseWriteFailure      StorageErrorCause = "write failed"
	ErrCausePathError         StorageErrorCause = "path error"
	ErrCauseUnknownFormat     StorageErrorCause = "unknown format"
	ErrCauseHashComputeFailed StorageErrorCause = "hash computation failed"
)

type StorageError struct {
	Message   string
	Retryable bool
	Cause     StorageErrorCause
	Path      string
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s", e.Cause)
}

func (e *StorageError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// mapStorageErrorToMetadataCause maps storage-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapStorageErrorToMetadataCause(err *StorageError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseDiskFull, ErrCauseWriteFailure, ErrCausePathError:
		return metadata.CauseStorageFailure
	case ErrCauseUnknownFormat:
		return metadata.CauseContentInvalid
	default:
		return metadata.CauseUnknown
	}
}
