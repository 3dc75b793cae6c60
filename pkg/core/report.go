package core

// Run status values.
const (
	StatusPassed = "passed"
	StatusFailed = "failed"
)

// Report is the outcome of a validation run. It is pure data and
// serializes to {status, error_count, warning_count, messages}.
type Report struct {
	Status       string    `json:"status"`
	ErrorCount   int       `json:"error_count"`
	WarningCount int       `json:"warning_count"`
	Messages     []Message `json:"messages"`
}

// NewReport builds a report from an ordered message list.
func NewReport(messages []Message) Report {
	r := Report{
		Status:   StatusPassed,
		Messages: make([]Message, len(messages)),
	}
	copy(r.Messages, messages)
	for _, m := range messages {
		switch m.Level {
		case LevelError:
			r.ErrorCount++
		case LevelWarning:
			r.WarningCount++
		}
	}
	if r.ErrorCount > 0 {
		r.Status = StatusFailed
	}
	return r
}

// Passed reports whether the run recorded no errors.
func (r Report) Passed() bool {
	return r.Status == StatusPassed
}
