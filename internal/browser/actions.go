package browser

import (
	"context"
	"time"

	"github.com/rohmanhakim/site-crawler/internal/metadata"
	"github.com/rohmanhakim/site-crawler/pkg/failure"
)

type ActionType string

const (
	ActionWait  ActionType = "wait"
	ActionClick ActionType = "click"
	ActionWrite ActionType = "write"
	ActionPress ActionType = "press"
)

// defaultWaitInterval applies to wait actions that carry no duration.
const defaultWaitInterval = time.Second

// Action is a single scripted page interaction, executed after navigation
// and before extraction. Fields are interpreted per Type:
//
//	wait  - Milliseconds (defaultWaitInterval when unset)
//	click - Selector
//	write - Selector, Text
//	press - Key
type Action struct {
	Type         ActionType `json:"type"`
	Selector     string     `json:"selector,omitempty"`
	Text         string     `json:"text,omitempty"`
	Key          string     `json:"key,omitempty"`
	Milliseconds int        `json:"milliseconds,omitempty"`
}

// RunActions executes the scripted interactions in order. A failed action
// is recorded and skipped; the sequence continues so that one stale
// selector does not forfeit the whole page. A fatal driver failure aborts
// the sequence since no later action can succeed on a dead session.
func RunActions(
	ctx context.Context,
	d Driver,
	actions []Action,
	metadataSink metadata.MetadataSink,
) failure.ClassifiedError {
	for _, action := range actions {
		var err failure.ClassifiedError
		switch action.Type {
		case ActionWait:
			wait := time.Duration(action.Milliseconds) * time.Millisecond
			if action.Milliseconds <= 0 {
				wait = defaultWaitInterval
			}
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				err = &DriverError{
					Message:   ctx.Err().Error(),
					Retryable: false,
					Cause:     ErrCauseSessionLost,
				}
			}
		case ActionClick:
			err = d.Click(ctx, action.Selector)
		case ActionWrite:
			err = d.Write(ctx, action.Selector, action.Text)
		case ActionPress:
			err = d.Press(ctx, action.Key)
		default:
			err = &DriverError{
				Message:   "unknown action type: " + string(action.Type),
				Retryable: true,
				Cause:     ErrCauseScriptFail,
			}
		}

		if err == nil {
			continue
		}

		metadataSink.RecordError(
			time.Now(),
			"browser",
			"run_actions",
			metadata.CauseDriverFailure,
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrAction, string(action.Type)),
				metadata.NewAttr(metadata.AttrSelector, action.Selector),
			},
		)

		if err.Severity() == failure.SeverityFatal {
			return err
		}
	}
	return nil
}
