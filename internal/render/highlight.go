package render

import (
	"io"

	"github.com/alecthomas/chroma/v2/quick"
)

// DefaultStyle is the chroma style used for terminal output.
const DefaultStyle = "monokai"

// Highlight writes source with terminal colour escapes for the given lexer
// (e.g. "json", "markdown"). Unknown lexers and styles fall back to chroma's
// defaults.
func Highlight(w io.Writer, source, lexer, style string) error {
	if style == "" {
		style = DefaultStyle
	}
	return quick.Highlight(w, source, lexer, "terminal256", style)
}
