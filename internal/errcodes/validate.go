package errcodes

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"quill/internal/diag"
	"quill/internal/expand"
	"quill/internal/source"
)

// MaxDescriptionWidth bounds line width in long-form descriptions so the
// codes command renders them without wrapping.
const MaxDescriptionWidth = 80

// ValidateDescription checks the formatting rules for a long-form
// description: it must start and end with a newline, and no line may
// exceed MaxDescriptionWidth. Markdown footnotes carrying URLs are exempt
// from the width rule since links cannot be wrapped.
func ValidateDescription(cx *expand.ExtCtxt, sp source.Span, code, desc string) {
	if !strings.HasPrefix(desc, "\n") || !strings.HasSuffix(desc, "\n") {
		cx.SpanErr(sp, diag.RegBadDescription, fmt.Sprintf(
			"description for error code %s doesn't start and end with a newline", code))
	}
	for _, line := range strings.Split(desc, "\n") {
		if utf8.RuneCountInString(line) > MaxDescriptionWidth && !isFootnote(line) {
			cx.SpanErr(sp, diag.RegBadDescription, fmt.Sprintf(
				"description for error code %s contains a line longer than %d characters",
				code, MaxDescriptionWidth))
			break
		}
	}
}

// isFootnote recognizes `[name]: http...` reference lines.
func isFootnote(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "[") &&
		strings.Contains(trimmed, "]:") &&
		strings.Contains(trimmed, "http")
}
