package workflow

import (
	"time"

	"github.com/Iron-Ham/contractlens/internal/errors"
)

// NoticeLevel classifies a user-visible notification.
type NoticeLevel int

// Notice levels.
const (
	NoticeInfo NoticeLevel = iota
	NoticeWarning
	NoticeError
)

// String returns the level name.
func (l NoticeLevel) String() string {
	switch l {
	case NoticeInfo:
		return "info"
	case NoticeWarning:
		return "warning"
	case NoticeError:
		return "error"
	default:
		return "unknown"
	}
}

// Notice is a short message for the user. The zero value means no notice.
type Notice struct {
	Level   NoticeLevel
	Message string
	At      time.Time

	// Retryable is set on failure notices whose cause is transient, so the
	// same file may succeed when submitted again.
	Retryable bool
}

// Empty reports whether there is nothing to show.
func (n Notice) Empty() bool {
	return n.Message == ""
}

// noticeLevelFor maps an error severity onto the notice shown for it.
func noticeLevelFor(s errors.Severity) NoticeLevel {
	switch {
	case s <= errors.SeverityInfo:
		return NoticeInfo
	case s == errors.SeverityWarning:
		return NoticeWarning
	default:
		return NoticeError
	}
}
