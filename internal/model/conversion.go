package model

import (
	"time"

	"github.com/nao1215/iiif2neon/internal/iiif"
)

// Conversion tracks the conversion of one source manifest.
// Pipeline steps fill it in; report writers read it.
type Conversion struct {
	// Source is the URL or local path the manifest is read from.
	Source string

	// Manifest is the decoded source, set by the fetch step.
	Manifest *iiif.Manifest

	// Output is the generated manifest, set by the assemble step.
	Output *AnnotationManifest

	// StartedAt is when the conversion began.
	StartedAt time.Time

	// Duration is the wall time of the whole pipeline.
	Duration time.Duration

	// PerformedSteps lists the steps that completed, in order.
	PerformedSteps []string

	// Err is the error that stopped the pipeline, if any.
	Err error
}

// NewConversion creates a Conversion for source.
func NewConversion(source string) *Conversion {
	return &Conversion{
		Source:         source,
		StartedAt:      time.Now(),
		PerformedSteps: make([]string, 0),
	}
}

// Succeeded reports whether the conversion produced an output manifest.
func (c *Conversion) Succeeded() bool {
	return c.Err == nil && c.Output != nil
}

// CanvasCount returns the number of canvases in the source, or zero before
// the source has been fetched.
func (c *Conversion) CanvasCount() int {
	if c.Manifest == nil {
		return 0
	}
	return c.Manifest.CanvasCount()
}
