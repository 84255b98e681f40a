package failure

type Severity int

// scheduler control flow
const (
	SeverityFatal Severity = iota
	SeverityRecoverable
)

// ClassifiedError is the error contract shared by every pipeline stage.
// Stages classify failures; only the scheduler acts on Severity.
type ClassifiedError interface {
	error
	Severity() Severity
}
