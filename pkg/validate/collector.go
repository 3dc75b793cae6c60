package validate

import (
	"fmt"
	"sync"

	"github.com/leapstack-labs/leapcheck/pkg/core"
)

// Collector accumulates messages in detection order. In strict mode every
// warning becomes an error as it is added. It is safe for concurrent use.
type Collector struct {
	mu       sync.Mutex
	strict   bool
	messages []core.Message
	errors   int
}

// NewCollector returns an empty collector.
func NewCollector(strict bool) *Collector {
	return &Collector{strict: strict}
}

// Strict reports whether warnings are promoted.
func (c *Collector) Strict() bool { return c.strict }

// Add appends msgs, promoting warnings under strict mode.
func (c *Collector) Add(msgs ...core.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range msgs {
		if c.strict && m.Level == core.LevelWarning {
			m.Level = core.LevelError
		}
		if m.Level == core.LevelError {
			c.errors++
		}
		c.messages = append(c.messages, m)
	}
}

// Error adds an error message not tied to a row.
func (c *Collector) Error(file, format string, args ...any) {
	c.Add(core.Message{Level: core.LevelError, Message: fmt.Sprintf(format, args...), File: file})
}

// Warn adds a warning message not tied to a row.
func (c *Collector) Warn(file, format string, args ...any) {
	c.Add(core.Message{Level: core.LevelWarning, Message: fmt.Sprintf(format, args...), File: file})
}

// ErrorCount returns the number of errors collected so far.
func (c *Collector) ErrorCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errors
}

// HasErrors reports whether any error was collected.
func (c *Collector) HasErrors() bool {
	return c.ErrorCount() > 0
}

// Messages returns a copy of the collected messages.
func (c *Collector) Messages() []core.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]core.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Report summarizes the collected messages.
func (c *Collector) Report() core.Report {
	return core.NewReport(c.Messages())
}
