package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Progress renders a single self-overwriting status line while packages are
// inspected, e.g. "Checking packages: 3/10 (30%), 1 failed".
//
// Fields:
//   - writer: Destination for progress output (typically os.Stderr)
//   - total: Number of packages expected
//   - current: Number of outcomes observed so far
//   - failed: Number of errored outcomes observed so far
//   - message: Label printed before the counters
//   - enabled: Whether anything is written
//   - lastWidth: Width of the last rendered line, used to blank leftovers
type Progress struct {
	mu        sync.Mutex
	writer    io.Writer
	total     int
	current   int
	failed    int
	message   string
	enabled   bool
	lastWidth int
}

// NewProgress creates an enabled progress line.
//
// Parameters:
//   - writer: Destination for progress output (typically os.Stderr)
//   - total: Number of packages expected
//   - message: Label, e.g. "Checking packages"
//
// Returns:
//   - *Progress: Progress line with nothing rendered yet
func NewProgress(writer io.Writer, total int, message string) *Progress {
	return &Progress{
		writer:  writer,
		total:   total,
		message: message,
		enabled: true,
	}
}

// SetEnabled enables or disables progress output.
//
// Structured output formats and --quiet disable it so stderr stays clean.
func (p *Progress) SetEnabled(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = enabled
}

// Observe records one finished inspection and re-renders the line.
//
// Parameters:
//   - failed: Whether the inspection ended in an error
//
// This method is safe for concurrent use.
func (p *Progress) Observe(failed bool) {
	p.mu.Lock()
	p.current++
	if failed {
		p.failed++
	}
	p.mu.Unlock()
	p.render()
}

// Increment records one finished inspection that did not fail.
func (p *Progress) Increment() {
	p.Observe(false)
}

// Done finishes the line with a newline. Nothing is written if the line
// was never rendered.
func (p *Progress) Done() {
	p.mu.Lock()
	rendered := p.enabled && p.lastWidth > 0
	p.mu.Unlock()

	if rendered {
		_, _ = fmt.Fprintln(p.writer)
	}
}

// Clear blanks the current line and returns the cursor to its start.
func (p *Progress) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.enabled && p.lastWidth > 0 {
		_, _ = fmt.Fprintf(p.writer, "\r%s\r", strings.Repeat(" ", p.lastWidth))
	}
}

// render writes the current counters, padding over any longer previous line.
func (p *Progress) render() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.enabled || p.total <= 0 {
		return
	}

	percentage := float64(p.current) / float64(p.total) * 100
	line := fmt.Sprintf("\r%s: %d/%d (%.0f%%)", p.message, p.current, p.total, percentage)
	if p.failed > 0 {
		line += fmt.Sprintf(", %d failed", p.failed)
	}
	if width := len(line); width < p.lastWidth {
		line += strings.Repeat(" ", p.lastWidth-width)
	}
	p.lastWidth = len(line)

	_, _ = fmt.Fprint(p.writer, line)

	// Flush stderr so the line shows up in CI logs
	if f, ok := p.writer.(*os.File); ok {
		_ = f.Sync()
	}
}
