package storage

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rohmanhakim/site-crawler/internal/metadata"
	"github.com/rohmanhakim/site-crawler/internal/render"
	"github.com/rohmanhakim/site-crawler/pkg/failure"
	"github.com/rohmanhakim/site-crawler/pkg/fileutil"
	"github.com/rohmanhakim/site-crawler/pkg/hashutil"
)

/*
Responsibilities
- Persist rendered page artifacts, one subdirectory per output format
- Ensure deterministic filenames derived from the canonical URL

Output Characteristics
- Stable directory layout: <outputDir>/<format>/<urlHash><ext>
- Idempotent writes
- Overwrite-safe reruns
*/

type Sink interface {
	Write(
		canonicalURL string,
		format string,
		value render.FormatValue,
	) (WriteResult, failure.ClassifiedError)
}

type LocalSink struct {
	outputDir    string
	metadataSink metadata.MetadataSink
}

func NewLocalSink(
	outputDir string,
	metadataSink metadata.MetadataSink,
) *LocalSink {
	return &LocalSink{
		outputDir:    outputDir,
		metadataSink: metadataSink,
	}
}

func (s *LocalSink) Write(
	canonicalURL string,
	format string,
	value render.FormatValue,
) (WriteResult, failure.ClassifiedError) {
	writeResult, err := s.write(canonicalURL, format, value)
	if err != nil {
		var storageError *StorageError
		errors.As(err, &storageError)
		s.metadataSink.RecordError(
			time.Now(),
			"storage",
			"LocalSink.Write",
			mapStorageErrorToMetadataCause(storageError),
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrURL, canonicalURL),
				metadata.NewAttr(metadata.AttrFormat, format),
				metadata.NewAttr(metadata.AttrWritePath, storageError.Path),
			},
		)
		return WriteResult{}, storageError
	}
	s.metadataSink.RecordArtifact(
		artifactKind(format),
		writeResult.Path(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrURL, canonicalURL),
			metadata.NewAttr(metadata.AttrFormat, format),
			metadata.NewAttr(metadata.AttrWritePath, writeResult.Path()),
		},
	)
	return writeResult, nil
}

func (s *LocalSink) write(
	canonicalURL string,
	format string,
	value render.FormatValue,
) (WriteResult, failure.ClassifiedError) {
	ext, ok := render.Extension(format)
	if !ok {
		return WriteResult{}, &StorageError{
			Message:   "no extension registered for format " + format,
			Retryable: false,
			Cause:     ErrCauseUnknownFormat,
		}
	}

	content := value.Binary
	if content == nil {
		content = []byte(value.Text)
	}

	// Filename identity comes from the canonical URL, not the content, so
	// reruns overwrite the same artifact in place.
	urlHashFull, err := hashutil.HashBytes([]byte(canonicalURL), hashutil.HashAlgoBLAKE3)
	if err != nil {
		return WriteResult{}, &StorageError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseHashComputeFailed,
		}
	}
	urlHash := urlHashFull[:12]

	contentHash, err := hashutil.HashBytes(content, hashutil.HashAlgoBLAKE3)
	if err != nil {
		return WriteResult{}, &StorageError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseHashComputeFailed,
		}
	}

	formatDir := filepath.Join(s.outputDir, format)
	if derr := fileutil.EnsureDir(formatDir); derr != nil {
		return WriteResult{}, &StorageError{
			Message:   derr.Error(),
			Retryable: false,
			Cause:     ErrCausePathError,
			Path:      formatDir,
		}
	}

	fullPath := filepath.Join(formatDir, urlHash+ext)

	if werr := os.WriteFile(fullPath, content, 0644); werr != nil {
		cause := ErrCauseWriteFailure
		retryable := false
		if errors.Is(werr, syscall.ENOSPC) {
			cause = ErrCauseDiskFull
			retryable = true
		}
		return WriteResult{}, &StorageError{
			Message:   werr.Error(),
			Retryable: retryable,
			Cause:     cause,
			Path:      fullPath,
		}
	}

	return NewWriteResult(urlHash, fullPath, contentHash), nil
}

func artifactKind(format string) metadata.ArtifactKind {
	switch format {
	case render.FormatMarkdown, render.FormatGFM:
		return metadata.ArtifactMarkdown
	case render.FormatHTML, render.FormatRawHTML, render.FormatPreview:
		return metadata.ArtifactHTML
	case render.FormatJSON:
		return metadata.ArtifactJSON
	case render.FormatLinks:
		return metadata.ArtifactLinks
	case render.FormatScreenshot, render.FormatScreenshotFullPage:
		return metadata.ArtifactScreenshot
	default:
		return metadata.ArtifactKind(format)
	}
}
