package metadata

/*
	ErrorCause is a closed, canonical classification used exclusively for
	observability (logging, metrics, reporting).

	Rules:
	 - ErrorCause is for observability only.
	 - It must never be used to derive retry, continuation, or abort decisions.
	 - ErrorCause values MUST have stable, package-agnostic semantics.
	 - Pipeline packages MAY map their local errors to ErrorCause,
	   but MUST NOT invent new meanings.

If a failure does not clearly match a defined cause, CauseUnknown MUST be used.
*/
type ErrorCause int

/*
Canonical ErrorCause Table

# CauseUnknown

Meaning:
  - The failure does not map cleanly to any known category.
  - Used as a safe fallback.

# CauseDriverFailure

Meaning:
  - The browser session failed to perform a navigation, script, element,
    or capture operation.

Examples:
  - Navigation timeouts
  - Element-wait timeouts
  - Lost browser session

# CausePolicyDisallow

Meaning:
  - Traversal was excluded by an explicit policy.

Examples:
  - Depth limit exceeded
  - Domain scope exclusion
  - Filter pattern mismatch

# CauseContentInvalid

Meaning:
  - Content was captured but could not be processed meaningfully.

Examples:
  - Unparseable HTML snapshots
  - Unknown output format names
  - Invalid seed URLs or filter patterns

# CauseStorageFailure

Meaning:
  - Failure while persisting crawl artifacts.

Examples:
  - Disk full
  - Write permission errors
  - Filesystem I/O failures

# CauseInvariantViolation

Meaning:
  - A system-level invariant was violated.

Examples:
  - Impossible crawl depth
  - Mismatched stitch dimensions
  - Internal consistency checks failing
*/
const (
	CauseUnknown = iota
	CauseDriverFailure
	CausePolicyDisallow
	CauseContentInvalid
	CauseStorageFailure
	CauseInvariantViolation
)

func (c ErrorCause) String() string {
	switch c {
	case CauseDriverFailure:
		return "driver_failure"
	case CausePolicyDisallow:
		return "policy_disallow"
	case CauseContentInvalid:
		return "content_invalid"
	case CauseStorageFailure:
		return "storage_failure"
	case CauseInvariantViolation:
		return "invariant_violation"
	default:
		return "unknown"
	}
}

type ArtifactKind string

const (
	ArtifactMarkdown   ArtifactKind = "markdown"
	ArtifactHTML       ArtifactKind = "html"
	ArtifactJSON       ArtifactKind = "json"
	ArtifactLinks      ArtifactKind = "links"
	ArtifactScreenshot ArtifactKind = "screenshot"
)

type Attribute struct {
	Key   AttributeKey
	Value string
}

func NewAttr(key AttributeKey, val string) Attribute {
	return Attribute{
		Key:   key,
		Value: val,
	}
}

type AttributeKey string

const (
	AttrTime      AttributeKey = "time"
	AttrURL       AttributeKey = "url"
	AttrHost      AttributeKey = "host"
	AttrDepth     AttributeKey = "depth"
	AttrField     AttributeKey = "field"
	AttrFormat    AttributeKey = "format"
	AttrAction    AttributeKey = "action"
	AttrSelector  AttributeKey = "selector"
	AttrWritePath AttributeKey = "write_path"
)
