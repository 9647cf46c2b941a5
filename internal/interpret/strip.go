package interpret

import (
	"regexp"
	"strings"
)

// ANSI stripping for analysis. The raw buffer keeps sequences verbatim;
// only the decoded view the heuristics look at is scrubbed.
var (
	// CSI sequences: ESC [ params intermediates final
	csiRe = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)
	// OSC sequences: ESC ] string, terminated by BEL or ESC \. The
	// terminator is optional so a sequence split across chunks is dropped
	// from the decoded view until its tail arrives, instead of leaking
	// title text into the heuristics.
	oscRe = regexp.MustCompile(`\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)?`)
	// Trailing CSI fragment with no final byte yet.
	partialCsiRe = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*$`)
)

// StripANSI removes terminal control sequences and residual control bytes
// from text, keeping newlines and tabs. Carriage returns become newlines so
// spinner redraw frames read as separate lines. Stripping is pure string
// replacement over the whole input; it never indexes past a truncated
// escape sequence.
func StripANSI(text string) string {
	text = oscRe.ReplaceAllString(text, "")
	text = csiRe.ReplaceAllString(text, "")
	text = partialCsiRe.ReplaceAllString(text, "")

	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case r == '\r':
			return '\n'
		case r < 0x20 || r == 0x7f:
			return -1
		default:
			return r
		}
	}, text)
}
