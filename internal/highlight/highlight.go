// Package highlight wraps chroma for cosmetic source colorization of the
// code samples embedded in findings. It carries no correctness contract:
// any failure returns the source unchanged.
package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
)

// Render colorizes source for a 256-color terminal. lang may be empty, in
// which case chroma analyses the source and falls back to plain text.
func Render(source, lang string, dark bool) string {
	style := "github"
	if dark {
		style = "monokai"
	}

	var sb strings.Builder
	if err := quick.Highlight(&sb, source, lang, "terminal256", style); err != nil {
		return source
	}
	return sb.String()
}
