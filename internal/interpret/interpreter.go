package interpret

import (
	"regexp"
	"strings"
	"unicode"
)

// Options holds the interpreter's tuning knobs. The defaults match the
// documented behavior; hosts may override them from configuration.
type Options struct {
	// BufferCap is the maximum number of characters of terminal output
	// retained. Older content is discarded, keeping the tail.
	BufferCap int

	// MessageMax is the maximum length of an extracted message, including
	// the ellipsis appended when truncating.
	MessageMax int

	// MinAlphaRatio is the minimum proportion of letters among non-space
	// characters for a message candidate. Lines below it are rejected as
	// punctuation/digit noise.
	MinAlphaRatio float64

	// RecentLines is how many trailing non-empty lines the status and
	// message heuristics examine.
	RecentLines int
}

// DefaultOptions returns the standard interpreter tuning.
func DefaultOptions() Options {
	return Options{
		BufferCap:     2000,
		MessageMax:    60,
		MinAlphaRatio: 0.3,
		RecentLines:   10,
	}
}

// Interpreter classifies one session's terminal output stream.
//
// It is owned by a single session and called from that session's reader
// only; it needs no internal locking. Every method is non-blocking and
// tolerates arbitrary input, including binary noise and escape sequences
// split across Ingest calls.
type Interpreter struct {
	opts Options

	// buf is the raw accumulated output, capped at opts.BufferCap runes.
	buf []rune

	// detected is sticky: once the stream has matched an agent signature
	// it stays set until Reset.
	detected bool

	// lastStatus is the most recently reported status, the baseline for
	// CheckIdle.
	lastStatus Status

	// lastMessage is the most recent extracted action line, returned again
	// when a chunk carries no new narrative content.
	lastMessage string
}

// New creates an interpreter with default options.
func New() *Interpreter {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions creates an interpreter with the given tuning. Zero or
// out-of-range fields fall back to their defaults.
func NewWithOptions(opts Options) *Interpreter {
	def := DefaultOptions()
	if opts.BufferCap <= 0 {
		opts.BufferCap = def.BufferCap
	}
	if opts.MessageMax <= 1 {
		opts.MessageMax = def.MessageMax
	}
	if opts.MinAlphaRatio <= 0 || opts.MinAlphaRatio >= 1 {
		opts.MinAlphaRatio = def.MinAlphaRatio
	}
	if opts.RecentLines <= 0 {
		opts.RecentLines = def.RecentLines
	}
	return &Interpreter{opts: opts}
}

// Ingest appends a chunk of terminal output and returns any new signal it
// carries. A zero-value Report means the chunk was unremarkable; it is
// never an error and never an instruction to clear displayed state.
func (i *Interpreter) Ingest(chunk string) Report {
	i.append(chunk)

	decoded := StripANSI(string(i.buf))

	if !i.detected && matchesDetection(decoded) {
		i.detected = true
	}
	if !i.detected {
		return Report{}
	}

	recent := lastNonEmptyLines(decoded, i.opts.RecentLines)

	status := classify(recent)
	if status != StatusNone {
		i.lastStatus = status
	}

	if msg := i.extractMessage(recent); msg != "" {
		i.lastMessage = msg
	}

	return Report{Status: status, Message: i.lastMessage}
}

// HasDetected reports whether the stream has ever matched an agent
// signature since the last Reset.
func (i *Interpreter) HasDetected() bool {
	return i.detected
}

// Buffer returns the raw retained output, control sequences included, for
// debug export. Its length never exceeds the configured cap.
func (i *Interpreter) Buffer() string {
	return string(i.buf)
}

// CheckIdle is the watchdog side-channel: after a quiet period with no
// Ingest calls, the session driver asks whether the agent can be considered
// idle. It reports idle only when an agent was detected and the last known
// status is not working; an agent that stopped writing mid-spinner stays
// working until its output says otherwise.
func (i *Interpreter) CheckIdle() (Report, bool) {
	if !i.detected || i.lastStatus == StatusWorking {
		return Report{}, false
	}
	i.lastStatus = StatusIdle
	return Report{Status: StatusIdle, Message: i.lastMessage}, true
}

// Reset returns the interpreter to its initial empty state, for reuse of a
// terminal by a new session.
func (i *Interpreter) Reset() {
	i.buf = nil
	i.detected = false
	i.lastStatus = StatusNone
	i.lastMessage = ""
}

// append accumulates chunk runes, discarding the oldest content once the
// cap is exceeded. Heuristics only look at recent context, so keeping the
// tail preserves their behavior.
func (i *Interpreter) append(chunk string) {
	i.buf = append(i.buf, []rune(chunk)...)
	if over := len(i.buf) - i.opts.BufferCap; over > 0 {
		i.buf = append(i.buf[:0], i.buf[over:]...)
	}
}

// classify scans the recent lines from newest to oldest and returns the
// status of the first line carrying a signal. Working indicators win over
// an idle prompt that scrolled further up; an idle prompt inside
// menu/confirmation context yields no status at all rather than a false
// idle.
func classify(lines []string) Status {
	for idx := len(lines) - 1; idx >= 0; idx-- {
		line := lines[idx]
		if matchesAny(line, workingRes) {
			return StatusWorking
		}
		if idlePromptRe.MatchString(line) {
			if matchesAny(strings.Join(lines, "\n"), idleSuppressRes) {
				return StatusNone
			}
			return StatusIdle
		}
	}
	return StatusNone
}

// extractMessage finds the best one-line summary in the recent lines:
// explicit action lines (⏺ Write(src/file.ts)) take priority over result
// lines (⎿ Wrote 42 lines); within each kind the newest match wins.
// Glyph-only lines, keyboard hints, and low-letter-ratio noise are skipped.
// Returns "" when nothing qualifies.
func (i *Interpreter) extractMessage(lines []string) string {
	if msg := i.scanMessages(lines, actionLineRe); msg != "" {
		return msg
	}
	return i.scanMessages(lines, resultLineRe)
}

func (i *Interpreter) scanMessages(lines []string, marker *regexp.Regexp) string {
	for idx := len(lines) - 1; idx >= 0; idx-- {
		line := lines[idx]
		if isGlyphOnly(line) || keyboardHintRe.MatchString(line) {
			continue
		}
		m := marker.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		candidate := strings.TrimSpace(m[1])
		if candidate == "" || alphaRatio(candidate) < i.opts.MinAlphaRatio {
			continue
		}
		return truncateMessage(candidate, i.opts.MessageMax)
	}
	return ""
}

// alphaRatio returns the proportion of letters among non-space runes.
func alphaRatio(s string) float64 {
	letters, total := 0, 0
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(letters) / float64(total)
}

// truncateMessage caps s at max runes, replacing the tail with a single
// ellipsis when it overflows.
func truncateMessage(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// lastNonEmptyLines returns up to n trailing non-empty lines, trimmed, in
// original order.
func lastNonEmptyLines(text string, n int) []string {
	lines := strings.Split(text, "\n")
	result := make([]string, 0, n)
	for idx := len(lines) - 1; idx >= 0 && len(result) < n; idx-- {
		line := strings.TrimSpace(lines[idx])
		if line != "" {
			result = append([]string{line}, result...)
		}
	}
	return result
}
