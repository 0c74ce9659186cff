package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/nao1215/iiif2neon/internal/model"
)

// SimpleWriter outputs a human-readable summary for terminal display.
type SimpleWriter struct {
	baseWriter

	// verbose adds the annotation identifiers to the table.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the summary of conv.
func (w *SimpleWriter) Write(conv *model.Conversion) (int, error) {
	rows, err := summarize(conv)
	if err != nil {
		return 0, err
	}

	var sb strings.Builder
	out := conv.Output

	fmt.Fprintf(&sb, "%s\n", out.Title)
	fmt.Fprintf(&sb, "  source:    %s\n", conv.Source)
	fmt.Fprintf(&sb, "  manifest:  %s\n", out.ID)
	fmt.Fprintf(&sb, "  timestamp: %s\n", out.Timestamp)
	fmt.Fprintf(&sb, "  canvases:  %d\n\n", conv.CanvasCount())

	sb.WriteString(w.renderTable(rows))
	sb.WriteString("\n")

	return io.WriteString(w.output, sb.String())
}

func (w *SimpleWriter) renderTable(rows []row) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := table.Row{"#", "Canvas"}
	if w.verbose {
		header = append(header, "Annotation")
	}
	header = append(header, "MEI bytes", "Digest")
	tw.AppendHeader(header)

	for _, r := range rows {
		tr := table.Row{strconv.Itoa(r.index), r.target}
		if w.verbose {
			tr = append(tr, r.id)
		}
		tr = append(tr, strconv.Itoa(r.size), r.digest)
		tw.AppendRow(tr)
	}

	sizeColumn := 3
	if w.verbose {
		sizeColumn = 4
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: sizeColumn, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}
