package output

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/panliu5000/mypy-dependency-recommender/pkg/constants"
)

// WarningCollector buffers warning lines emitted while packages are being
// inspected so they can be printed after the report instead of breaking the
// progress line.
//
// It implements io.Writer and is safe for concurrent use, since timeout
// warnings arrive from worker goroutines.
//
// Example:
//
//	collector := output.NewWarningCollector()
//	restore := warnings.SetWarningWriter(collector)
//	// ... run inspections ...
//	restore()
//	output.PrintWarnings(os.Stderr, collector.Messages())
type WarningCollector struct {
	mu       sync.Mutex
	messages []string
}

// NewWarningCollector creates an empty collector.
func NewWarningCollector() *WarningCollector {
	return &WarningCollector{}
}

// Write stores every non-empty trimmed line of p. It never fails.
func (c *WarningCollector) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, line := range strings.Split(string(p), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			c.messages = append(c.messages, trimmed)
		}
	}
	return len(p), nil
}

// Messages returns a copy of the collected lines in arrival order.
func (c *WarningCollector) Messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := make([]string, len(c.messages))
	copy(copied, c.messages)
	return copied
}

// PrintWarnings prints each warning behind a warning icon, preceded by a
// blank line. Nothing is printed for an empty slice.
func PrintWarnings(w io.Writer, warnings []string) {
	if len(warnings) == 0 {
		return
	}

	_, _ = fmt.Fprintln(w)
	for _, warning := range warnings {
		_, _ = fmt.Fprintf(w, "%s %s\n", constants.IconWarn, warning)
	}
}
