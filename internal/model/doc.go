// Package model defines the documents produced by the converter.
//
// This package contains the following main types:
//   - Annotation: one canvas paired with its MEI body
//   - AnnotationManifest: the Neon manifest wrapping all annotations
//   - Conversion: the record a pipeline run fills in for one source
//
// The output types serialize to the JSON-LD expected by the Neon editor.
// Field order in the structs is the field order of the emitted JSON.
package model
