package errcodes

import (
	"strings"
	"testing"

	"quill/internal/diag"
	"quill/internal/expand"
	"quill/internal/source"
)

func testCtxt(t *testing.T) (*expand.ExtCtxt, *diag.Bag, source.Span) {
	t.Helper()
	bag := diag.NewBag(16)
	handler := diag.NewHandler(diag.BagReporter{Bag: bag})
	files := source.NewFileSet()
	id := files.AddVirtual("test.ql", []byte("__register_diagnostic!(E0001)"))

	sess := expand.NewSession(files, handler, source.Edition2024)
	cx := expand.NewExtCtxt(sess, expand.DefaultExpansionConfig("test"), "test.ql", nil)
	return cx, bag, source.Span{File: id, Start: 0, End: 5}
}

func countCode(bag *diag.Bag, code diag.Code) int {
	n := 0
	for _, d := range bag.Items() {
		if d.Code == code {
			n++
		}
	}
	return n
}

func TestValidateDescription(t *testing.T) {
	long := strings.Repeat("x", MaxDescriptionWidth+1)
	footnote := "[detail]: https://example.com/" + strings.Repeat("p/", 40)

	tests := []struct {
		name string
		desc string
		errs int
	}{
		{"well formed", "\nAn example.\n", 0},
		{"missing leading newline", "An example.\n", 1},
		{"missing trailing newline", "\nAn example.", 1},
		{"missing both newlines", "An example.", 1},
		{"line too long", "\n" + long + "\n", 1},
		{"only first long line reported", "\n" + long + "\n" + long + "\n", 1},
		{"footnote exempt from width", "\nSee below.\n" + footnote + "\n", 0},
		{"long line and bad newlines", long, 2},
		{"line at the limit", "\n" + strings.Repeat("x", MaxDescriptionWidth) + "\n", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cx, bag, sp := testCtxt(t)
			ValidateDescription(cx, sp, "E0001", tt.desc)
			if got := countCode(bag, diag.RegBadDescription); got != tt.errs {
				t.Errorf("reported %d formatting errors, want %d: %+v", got, tt.errs, bag.Items())
			}
		})
	}
}

func TestValidateDescriptionCountsRunes(t *testing.T) {
	// 80 multibyte runes fit even though the byte count exceeds the limit.
	cx, bag, sp := testCtxt(t)
	ValidateDescription(cx, sp, "E0001", "\n"+strings.Repeat("я", MaxDescriptionWidth)+"\n")
	if bag.Len() != 0 {
		t.Errorf("rune-width line rejected: %+v", bag.Items())
	}
}

func TestIsFootnote(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"[ref]: https://example.com/page", true},
		{"   [ref]: http://example.com", true},
		{"[ref]: not a link", false},
		{"plain text with http://example.com", false},
		{"[no colon] https://example.com", false},
	}
	for _, tt := range tests {
		if got := isFootnote(tt.line); got != tt.want {
			t.Errorf("isFootnote(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}
