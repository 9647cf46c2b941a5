package interpret

import (
	"regexp"
	"strings"
)

// spinnerGlyphs are the braille-pattern characters CLI agents animate while
// working. A single one of these anywhere in recent output means activity.
const spinnerGlyphs = "⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏⣾⣽⣻⢿⡿⣟⣯⣷"

// detectionGlyphs are the non-spinner markers that positively identify an
// agent CLI: ⏺ tool invocation, ⎿ result continuation, ✻/✽/✶/✢ thinking,
// ✳ sub-agent task, ↓ token-count arrow. The ❯ input prompt is deliberately
// absent: an ordinary shell prompt must not count as an agent signature.
const detectionGlyphs = "⏺⎿✻✽✶✢✳↓"

// statusGlyphs additionally includes glyphs that appear on agent status
// lines but are too generic to drive detection on their own.
const statusGlyphs = detectionGlyphs + "❯›·"

// DetectionKeywords identify a known agent CLI by product or vendor name.
// Matching is case-insensitive substring search over stripped output.
var DetectionKeywords = []string{
	"claude code",
	"claude",
	"anthropic",
	"codex",
	"openai",
	"gemini",
	"aider",
	"esc to interrupt",
}

// WorkingPatterns match output produced while an agent is actively working.
// Any single match over the recent window classifies the session as working.
var WorkingPatterns = []string{
	// Animated spinner frame
	`[` + spinnerGlyphs + `]`,
	// Thinking/vibing status line ("✻ Thinking…", "· Vibing… (esc to interrupt)")
	`(?i)(?:thinking|vibing|pondering|brewing|percolating)(?:…|\.\.\.)`,
	// Progress verb followed by a path-like token at line start
	`(?im)^\s*[⏺●·]?\s*(?:reading|writing|editing|creating|updating|analyzing)\s+\S*[/.]\S+`,
	// Tool invocation marker
	`[⏺●]`,
	// Result continuation still in progress ("⎿ Running…", "⎿ Compiling...")
	`[⎿└].*(?:ing(?:…|\.\.\.)|…\s*$)`,
	// Token-count arrow ("↓ 1.2k tokens")
	`↓\s*[\d.]+k?\s*tokens`,
	// Sub-agent task marker
	`✳`,
	// Searching-style verb at line start
	`(?im)^\s*(?:searching|exploring|scanning|globbing|grepping|fetching)\b`,
	// Interrupt hint shown only while a run is active
	`esc to interrupt`,
}

// IdlePromptPattern matches the agent's input prompt glyph alone on a line,
// which is the idle signal.
var IdlePromptPattern = `(?m)^\s*[❯›]\s*$`

// IdleSuppressionPatterns match menu/confirmation context in the same
// window as an idle prompt glyph. When any of these is present the agent is
// waiting inside a modal prompt, not idle, and the idle signal is dropped.
var IdleSuppressionPatterns = []string{
	// Numbered option lines ("1. Yes", " 2) No")
	`(?m)^\s*❯?\s*\d+[.)]\s+\S`,
	// Bracketed yes/no confirmations ([Y/n], [y/N], [y/n])
	`\[[Yy](?:es)?/[Nn](?:o)?\]`,
	`\(y(?:es)?/n(?:o)?\)`,
	// Direct continuation questions
	`(?i)do you want`,
	`(?i)would you like to`,
}

// keyboardHintPattern matches the short key-binding hints agents print under
// their prompt ("ctrl+e to explain", "shift+tab to cycle"). These lines are
// never useful as a session summary.
var keyboardHintPattern = `(?i)(?:ctrl\+\w|esc to |shift\+tab|tab to |↵|\? for shortcuts)`

var (
	detectionGlyphRe = regexp.MustCompile(`[` + spinnerGlyphs + detectionGlyphs + `]`)
	workingRes       = compilePatterns(WorkingPatterns)
	idlePromptRe     = regexp.MustCompile(IdlePromptPattern)
	idleSuppressRes  = compilePatterns(IdleSuppressionPatterns)
	keyboardHintRe   = regexp.MustCompile(keyboardHintPattern)
	actionLineRe     = regexp.MustCompile(`^[⏺●]\s+(.+)$`)
	resultLineRe     = regexp.MustCompile(`^[⎿└]\s+(.+)$`)
)

// compilePatterns compiles a list of regex pattern strings.
// Invalid patterns are silently skipped.
func compilePatterns(patterns []string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		if re, err := regexp.Compile(p); err == nil {
			compiled = append(compiled, re)
		}
	}
	return compiled
}

// matchesAny reports whether text matches any of the compiled patterns.
func matchesAny(text string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// matchesDetection reports whether text contains any agent signature:
// a product/vendor keyword or one of the status/spinner glyphs.
func matchesDetection(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range DetectionKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return detectionGlyphRe.MatchString(text)
}

// isGlyphOnly reports whether a trimmed line is nothing but status/spinner
// glyphs and whitespace, carrying no narrative content.
func isGlyphOnly(line string) bool {
	for _, r := range line {
		if r == ' ' || r == '\t' {
			continue
		}
		if !strings.ContainsRune(spinnerGlyphs+statusGlyphs, r) {
			return false
		}
	}
	return true
}
