package exec

import (
	"html"
	"regexp"
	"strings"
)

// Diagnostic sanitization. The remote service compiles submissions inside
// its own job directories and echoes tool invocations back, so raw stderr
// leaks paths like /piston/jobs/<id>/main.cpp and toolchain noise. The rules
// below reduce that to what a plain local compiler would print.

var (
	// Provider job/package path fragments, keeping the trailing file name.
	providerPath = regexp.MustCompile(`(?:/\w+)*/(?:piston|box|jobs|packages)(?:/[\w.-]+)*/`)

	// Tool invocation echo lines ("/usr/bin/g++ -o ..." or "gcc: fatal ...").
	toolInvocation = regexp.MustCompile(`(?m)^(?:/[\w./-]*/)?(?:g\+\+|gcc|javac|cc1plus|ld|collect2)(?::| .*)`)

	// Compiler elaboration noise.
	noteLine      = regexp.MustCompile(`(?m)^.*\bnote:.*$`)
	templateNoise = regexp.MustCompile(`(?m)^.*(?:in instantiation of|template argument deduction|candidate (?:function|template)).*$`)

	// Caret/pointer lines and the echoed source line right above them.
	caretLine = regexp.MustCompile(`^\s*[\^~|]+\s*$`)

	// Three-or-more newlines collapse to a blank line.
	blankRuns = regexp.MustCompile(`\n{3,}`)
)

// Sanitize cleans diagnostic text returned by the remote execution service
// so it reads like direct compiler/interpreter output with no trace of the
// intermediary.
func Sanitize(text string) string {
	if text == "" {
		return ""
	}

	t := DecodeEntities(text)
	t = providerPath.ReplaceAllString(t, "")
	t = toolInvocation.ReplaceAllString(t, "")
	t = noteLine.ReplaceAllString(t, "")
	t = templateNoise.ReplaceAllString(t, "")
	t = stripCaretBlocks(t)
	t = blankRuns.ReplaceAllString(t, "\n\n")
	return strings.TrimSpace(t)
}

// DecodeEntities reverses the provider's HTML escaping of program output.
func DecodeEntities(text string) string {
	return html.UnescapeString(text)
}

// stripCaretBlocks drops caret-pointer lines together with the echoed source
// line immediately preceding them.
func stripCaretBlocks(text string) string {
	lines := strings.Split(text, "\n")
	drop := make([]bool, len(lines))
	for i, line := range lines {
		if caretLine.MatchString(line) && strings.TrimSpace(line) != "" {
			drop[i] = true
			if i > 0 && !isDiagnosticLine(lines[i-1]) {
				drop[i-1] = true
			}
		}
	}
	out := lines[:0]
	for i, line := range lines {
		if !drop[i] {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// isDiagnosticLine guesses whether a line is a real diagnostic (kept) rather
// than an echoed source line (dropped when a caret points at it).
func isDiagnosticLine(line string) bool {
	return strings.Contains(line, "error:") ||
		strings.Contains(line, "warning:") ||
		strings.Contains(line, "Error") ||
		strings.Contains(line, "Exception")
}
