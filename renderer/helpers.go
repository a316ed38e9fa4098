package renderer

import (
	"bytes"
	"fmt"
	"io"
)

// section writes a "##" heading followed by the body, or nothing when the body
// reports it has no content. An empty heading writes the body alone.
func section(w io.Writer, heading string, body func(io.Writer) bool) {
	var buf bytes.Buffer
	if !body(&buf) {
		return
	}
	if heading != "" {
		fmt.Fprintf(w, "## %s\n\n", heading)
	}
	buf.WriteTo(w)
}
