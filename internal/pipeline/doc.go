// Package pipeline runs the steps that turn one source manifest into a Neon
// annotation manifest.
//
// A conversion passes through three stages: fetching and decoding the IIIF
// manifest, assembling the annotations, and verifying the result before it
// is handed to a report writer. Each stage is a Step that receives the
// shared model.Conversion and fills in its part.
//
// The pipeline stops at the first failing step. A conversion that failed
// never carries an output manifest, so callers cannot write partial output.
package pipeline
