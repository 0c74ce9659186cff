package report

import (
	"errors"
	"io"

	"github.com/nao1215/iiif2neon/internal/mei"
	"github.com/nao1215/iiif2neon/internal/model"
)

// ErrNoOutput is returned when a conversion has no generated manifest.
var ErrNoOutput = errors.New("conversion produced no output")

// Writer writes a conversion in one output format.
type Writer interface {
	// Write outputs the conversion and returns the number of bytes written.
	Write(conv *model.Conversion) (int, error)
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// row is the summary of one annotation shared by the summary writers.
type row struct {
	index  int
	target string
	id     string
	size   int
	digest string
}

// summarize returns one row per annotation of conv's output. Bodies that do
// not decode are reported with an empty digest.
func summarize(conv *model.Conversion) ([]row, error) {
	if !conv.Succeeded() {
		return nil, ErrNoOutput
	}

	rows := make([]row, 0, len(conv.Output.Annotations))
	for i, a := range conv.Output.Annotations {
		r := row{index: i + 1, target: a.Target, id: a.ID}
		if doc, err := mei.DecodeDataURI(a.Body); err == nil {
			r.size = len(doc)
			r.digest = mei.Digest(doc)
		}
		rows = append(rows, r)
	}
	return rows, nil
}
