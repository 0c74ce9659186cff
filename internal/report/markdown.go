package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/nao1215/iiif2neon/internal/model"
)

// MarkdownWriter outputs a conversion summary in Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the summary of conv.
func (w *MarkdownWriter) Write(conv *model.Conversion) (int, error) {
	rows, err := summarize(conv)
	if err != nil {
		return 0, err
	}

	md := markdown.NewMarkdown(w.output)
	w.writeHeader(md, conv)
	w.writeAnnotations(md, rows)
	w.writeFooter(md, conv)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, conv *model.Conversion) {
	out := conv.Output

	md.H1("Neon Annotation Manifest")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Source", "`" + conv.Source + "`"},
			{"Title", out.Title},
			{"Manifest ID", "`" + out.ID + "`"},
			{"Image", "`" + out.Image + "`"},
			{"Timestamp", out.Timestamp},
			{"Canvases", strconv.Itoa(conv.CanvasCount())},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeAnnotations(md *markdown.Markdown, rows []row) {
	md.H2("Annotations")
	md.PlainText("")

	if len(rows) == 0 {
		md.Note("The source manifest has no canvases; no annotations were generated.")
		md.PlainText("")
		return
	}

	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, []string{
			strconv.Itoa(r.index),
			"`" + r.target + "`",
			"`" + r.id + "`",
			strconv.Itoa(r.size),
			r.digest,
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"#", "Canvas", "Annotation", "MEI bytes", "Digest"},
		Rows:   tableRows,
	})
	md.PlainText("")
	md.Tip("Each annotation body holds a placeholder zone `delete-me`; replace it when transcribing in Neon.")
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown, conv *model.Conversion) {
	md.HorizontalRule()
	md.PlainText("")
	md.BulletList(
		"Steps: "+strings.Join(conv.PerformedSteps, " → "),
		"Duration: "+conv.Duration.String(),
	)
}
