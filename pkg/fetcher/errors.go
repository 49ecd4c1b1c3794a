package fetcher

import (
	"errors"
	"fmt"
)

// Kind classifies fetch failures by how far they propagate
type Kind int

const (
	// KindSession means no session could be established. Fatal to the run.
	KindSession Kind = iota + 1
	// KindNavigation means a remote directory could not be entered or left.
	// Fatal for the week it concerns, or for the run when it is the products root.
	KindNavigation
	// KindTransfer means a listing or a single file retrieval failed
	KindTransfer
)

func (k Kind) String() string {
	switch k {
	case KindSession:
		return "session"
	case KindNavigation:
		return "navigation"
	case KindTransfer:
		return "transfer"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

var (
	// ErrEmptyWeek is returned for an empty week identifier
	ErrEmptyWeek = errors.New("empty week identifier")
	// ErrUnsafeName is returned for remote names that are not plain file names
	ErrUnsafeName = errors.New("not a plain file name")
)

// Error is a fetch failure with enough context to act on
type Error struct {
	Kind Kind
	Op   string // connect, cwd, cdup, list, retrieve, write
	Week string // empty outside a week
	Path string // remote directory or file name
	Err  error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s error: %s", e.Kind, e.Op)
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Week != "" {
		msg += fmt.Sprintf(" (week %s)", e.Week)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err carries a fetch error of kind k
func IsKind(err error, k Kind) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == k
}

// KindOf returns the kind of a fetch error, or 0 when err is not one
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}
