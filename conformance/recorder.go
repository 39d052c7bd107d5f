package conformance

import "fmt"

// Recorder accumulates check results for a single case invocation.
// Every case gets a fresh Recorder, so tallies never leak between
// cases or runs.
type Recorder struct {
	Checks   int
	Failures int
	Messages []string

	logf func(format string, args ...any)
}

// NewRecorder returns a Recorder that sends verbose output to logf.
// A nil logf discards it.
func NewRecorder(logf func(format string, args ...any)) *Recorder {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Recorder{logf: logf}
}

// Logf writes to the verbose channel without counting a check.
func (r *Recorder) Logf(format string, args ...any) {
	r.logf(format, args...)
}

// Passf counts one passing check and logs it.
func (r *Recorder) Passf(format string, args ...any) {
	r.Checks++
	r.logf("  ok: "+format, args...)
}

// Failf counts one failing check and records its message.
func (r *Recorder) Failf(format string, args ...any) {
	r.Checks++
	r.Failures++
	msg := fmt.Sprintf(format, args...)
	r.Messages = append(r.Messages, msg)
	r.logf("  FAIL: %s", msg)
}

// Checkf counts one check, recording the message as a failure when ok
// is false. It returns ok so callers can skip dependent checks.
func (r *Recorder) Checkf(ok bool, format string, args ...any) bool {
	if ok {
		r.Checks++
		return true
	}
	r.Failf(format, args...)
	return false
}

// Failed reports whether any check failed.
func (r *Recorder) Failed() bool {
	return r.Failures > 0
}
