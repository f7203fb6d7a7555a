package gen

import (
	"fmt"
	"go/token"
	"io"
	"sync"
)

// Severity classifies a diagnostic.
type Severity int

const (
	// Info reports generation progress.
	Info Severity = iota
	// Error reports a non-fatal per-group failure.
	Error
	// Internal reports an unexpected failure with its cause, usually a
	// recovered panic or an I/O error during synthesis.
	Internal
)

// String returns the severity's display name.
func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Internal:
		return "internal"
	default:
		return "info"
	}
}

// Diagnostic is one structured message emitted during a generation round.
// Pos is optional; when set it names the declaration the message is about,
// so tooling can surface it at the source location.
type Diagnostic struct {
	Severity Severity
	Message  string
	Pos      token.Position
}

// String formats the diagnostic for terminal output.
func (d Diagnostic) String() string {
	if d.Pos.IsValid() {
		return fmt.Sprintf("%s: %s: %s", d.Pos, d.Severity, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}

// Sink receives diagnostics. Implementations must be safe for concurrent
// use; groups are processed in parallel.
type Sink interface {
	Report(Diagnostic)
}

// Collector is a Sink that retains every diagnostic it receives.
// The zero value is ready to use.
type Collector struct {
	mu    sync.Mutex
	diags []Diagnostic
}

// Report appends the diagnostic.
func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diags = append(c.diags, d)
}

// All returns a copy of the collected diagnostics in arrival order.
func (c *Collector) All() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.diags))
	copy(out, c.diags)
	return out
}

// Errors returns the collected diagnostics with severity above Info.
func (c *Collector) Errors() []Diagnostic {
	var out []Diagnostic
	for _, d := range c.All() {
		if d.Severity != Info {
			out = append(out, d)
		}
	}
	return out
}

// Dump writes all collected diagnostics to w, one per line.
func (c *Collector) Dump(w io.Writer) {
	for _, d := range c.All() {
		fmt.Fprintln(w, d)
	}
}

func reportf(sink Sink, sev Severity, pos token.Position, format string, args ...any) {
	sink.Report(Diagnostic{
		Severity: sev,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
	})
}
