package report

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/nao1215/iiif2neon/internal/model"
)

// JSONWriter outputs the generated Neon manifest.
type JSONWriter struct {
	baseWriter

	// indentString is the indentation per level; empty means compact.
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent indents nested values by n spaces. Zero or less keeps the
// output compact.
func WithIndent(n int) JSONWriterOption {
	return func(w *JSONWriter) {
		if n > 0 {
			w.indentString = string(bytes.Repeat([]byte{' '}, n))
		} else {
			w.indentString = ""
		}
	}
}

// WithPrettyPrint indents with two spaces.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent(2)
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs conv's annotation manifest followed by a newline.
func (w *JSONWriter) Write(conv *model.Conversion) (int, error) {
	if !conv.Succeeded() {
		return 0, ErrNoOutput
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	// Titles and URLs are written as-is; the output is not embedded in HTML.
	enc.SetEscapeHTML(false)
	if w.indentString != "" {
		enc.SetIndent("", w.indentString)
	}
	if err := enc.Encode(conv.Output); err != nil {
		return 0, err
	}

	return w.output.Write(buf.Bytes())
}
