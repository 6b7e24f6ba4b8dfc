// Package shared holds helpers used by every templ component.
package shared

import (
	"context"
	"io"
	"strings"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/a-h/templ"
)

// Class merges Tailwind class lists, later classes overriding conflicting
// earlier ones ("px-2" then "px-4" yields "px-4").
func Class(classes ...string) string {
	return twmerge.Merge(classes...)
}

// Writer writes markup and keeps the first error, so components can emit
// straight-line HTML and check once at the end.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Raw writes trusted markup as-is.
func (b *Writer) Raw(parts ...string) {
	for _, s := range parts {
		if b.err != nil {
			return
		}
		_, b.err = io.WriteString(b.w, s)
	}
}

// Text writes s with HTML escaping.
func (b *Writer) Text(s string) {
	b.Raw(templ.EscapeString(s))
}

// Attr writes ` name="value"` with the value escaped. Empty values are
// skipped unless the attribute is boolean-style (value " ").
func (b *Writer) Attr(name, value string) {
	if value == "" {
		return
	}
	if strings.TrimSpace(value) == "" {
		b.Raw(" ", name)
		return
	}
	b.Raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

// Render renders a child component into the underlying writer.
func (b *Writer) Render(ctx context.Context, c templ.Component) {
	if b.err != nil || c == nil {
		return
	}
	b.err = c.Render(ctx, b.w)
}

// Err returns the first write error.
func (b *Writer) Err() error {
	return b.err
}
