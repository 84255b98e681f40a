package metadata

import (
	"log/slog"
	"time"
)

/*
Metadata Collected
- Visit timestamps
- HTTP status codes
- Crawl depth
- Artifact write paths

Logging Goals
- Debuggable crawl behavior
- Post-run auditability
- Failure diagnostics

Structured logging is preferred.

Allowed:
- Primitive values
- Timestamps
- URLs (as values, not objects with behavior)
- Hashes
- Status codes
- Durations
- Identifiers (scrape ID, worker ID)

Determinism guarantees:
 - Metadata does not affect control flow
 - Errors do not reorder the frontier
 - Output is stable given identical inputs

Metadata is write-only.
No component may read metadata to influence crawl decisions.
*/

/*
Recorder captures structured crawl events.
It must not:
- perform I/O decisions
- affect control flow
- impose a logging backend beyond the injected slog handler
Ordering guarantees:
- Events are recorded synchronously in the order they are received by a single worker.
- No global ordering across workers is guaranteed.
- Consumers MUST NOT assume total ordering across the crawl.
- Ordering is provided for debuggability, not causality.
*/
type Recorder struct {
	workerId string
	logger   *slog.Logger
}

func NewRecorder(workerId string) *Recorder {
	return NewRecorderWithLogger(workerId, slog.Default())
}

func NewRecorderWithLogger(workerId string, logger *slog.Logger) *Recorder {
	return &Recorder{
		workerId: workerId,
		logger:   logger,
	}
}

func (r *Recorder) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {
	args := []any{
		slog.String("worker", r.workerId),
		slog.Time("observed_at", observedAt),
		slog.String("package", packageName),
		slog.String("action", action),
		slog.String("cause", cause.String()),
		slog.String("error", errorString),
	}
	for _, attr := range attrs {
		args = append(args, slog.String(string(attr.Key), attr.Value))
	}
	r.logger.Error("crawl error", args...)
}

func (r *Recorder) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	contentType string,
	crawlDepth int,
) {
	r.logger.Info("page fetched",
		slog.String("worker", r.workerId),
		slog.String("url", fetchUrl),
		slog.Int("status", httpStatus),
		slog.Duration("duration", duration),
		slog.String("content_type", contentType),
		slog.Int("depth", crawlDepth),
	)
}

func (r *Recorder) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {
	args := []any{
		slog.String("worker", r.workerId),
		slog.String("kind", string(kind)),
		slog.String("path", path),
	}
	for _, attr := range attrs {
		args = append(args, slog.String(string(attr.Key), attr.Value))
	}
	r.logger.Info("artifact written", args...)
}

/*
RecordFinalCrawlStats records a terminal, derived summary of a completed crawl.

Contract:
  - MUST be called exactly once per crawl execution.
  - MUST be called only after crawl termination
    (frontier exhausted or scheduler abort).
  - MUST NOT be called during active crawling.
  - The provided stats MUST be derived from scheduler state,
    not accumulated incrementally via the recorder.
  - Recorded stats MUST NOT influence control flow or scheduling.
*/
func (r *Recorder) RecordFinalCrawlStats(
	totalPages int,
	totalErrors int,
	totalArtifacts int,
	duration time.Duration,
) {
	r.logger.Info("crawl finished",
		slog.String("worker", r.workerId),
		slog.Int("total_pages", totalPages),
		slog.Int("total_errors", totalErrors),
		slog.Int("total_artifacts", totalArtifacts),
		slog.Int64("duration_ms", duration.Milliseconds()),
	)
}

type MetadataSink interface {
	RecordError(
		observedAt time.Time,
		packageName string,
		action string,
		cause ErrorCause,
		details string,
		attrs []Attribute,
	)

	RecordFetch(
		fetchUrl string,
		httpStatus int,
		duration time.Duration,
		contentType string,
		crawlDepth int,
	)
	RecordArtifact(kind ArtifactKind, path string, attrs []Attribute)
}

type CrawlFinalizer interface {
	RecordFinalCrawlStats(
		totalPages int,
		totalErrors int,
		totalArtifacts int,
		duration time.Duration,
	)
}

// NoopSink, struct that implements metadata.MetadataSink but does nothing
// Scheduler (or Test) can decide whether to inject Recorder or NoopSink
// Purpose is to make metadata orthogonal

type NoopSink struct{}

func (n *NoopSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {

}

func (n *NoopSink) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	contentType string,
	crawlDepth int,
) {
}

func (n *NoopSink) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {}

func (n *NoopSink) RecordFinalCrawlStats(
	totalPages int,
	totalErrors int,
	totalArtifacts int,
	duration time.Duration,
) {
}
