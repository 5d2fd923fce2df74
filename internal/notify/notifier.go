package notify

import "log"

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification mirrors the toast surface the storefront UI renders: a title,
// a human-readable description and an optional severity flag.
type Notification struct {
	Title       string
	Description string
	Severity    Severity
}

// Notifier receives every user-facing success/failure outcome. No return
// value is consumed by callers.
type Notifier interface {
	Notify(n Notification)
}

type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (l *LogNotifier) Notify(n Notification) {
	severity := n.Severity
	if severity == "" {
		severity = SeverityInfo
	}
	log.Printf("[%s] %s: %s", severity, n.Title, n.Description)
}
