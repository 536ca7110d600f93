package notify

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Severity classifies a notification for display.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// DefaultDuration is how long a notification stays visible unless the
// caller chooses otherwise.
const DefaultDuration = 5 * time.Second

// Notification is a transient user-facing message.
type Notification struct {
	ID        string        `json:"id"`
	Message   string        `json:"message"`
	Severity  Severity      `json:"severity"`
	Duration  time.Duration `json:"-"`
	CreatedAt time.Time     `json:"created_at"`
}

// New builds a notification with a fresh ID. A non-positive duration means
// DefaultDuration.
func New(message string, severity Severity, duration time.Duration) Notification {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Severity:  severity,
		Duration:  duration,
		CreatedAt: time.Now(),
	}
}

// Notifier delivers notifications somewhere the user can see them.
type Notifier interface {
	Notify(n Notification)
}

// LogNotifier writes notifications to the standard logger, mapping the
// severity to a log level.
type LogNotifier struct{}

func (LogNotifier) Notify(n Notification) {
	entry := log.WithFields(log.Fields{
		"id":       n.ID,
		"severity": n.Severity,
	})
	switch n.Severity {
	case SeverityError:
		entry.Error(n.Message)
	case SeverityWarning:
		entry.Warn(n.Message)
	default:
		entry.Info(n.Message)
	}
}

// WriterNotifier prints one line per notification, prefixed with its
// severity.
type WriterNotifier struct {
	Out io.Writer
}

func (w WriterNotifier) Notify(n Notification) {
	fmt.Fprintf(w.Out, "[%s] %s\n", n.Severity, n.Message)
}

// Fanout forwards every notification to each notifier in order.
type Fanout []Notifier

func (f Fanout) Notify(n Notification) {
	for _, x := range f {
		if x != nil {
			x.Notify(n)
		}
	}
}

// Recorder keeps every notification it receives. Front ends use it to show
// a history; tests use it to assert on what was raised.
type Recorder struct {
	Notifications []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.Notifications = append(r.Notifications, n)
}

// Messages returns the recorded messages in order.
func (r *Recorder) Messages() []string {
	out := make([]string, 0, len(r.Notifications))
	for _, n := range r.Notifications {
		out = append(out, n.Message)
	}
	return out
}

// Last returns the most recent notification, if any.
func (r *Recorder) Last() (Notification, bool) {
	if len(r.Notifications) == 0 {
		return Notification{}, false
	}
	return r.Notifications[len(r.Notifications)-1], true
}
