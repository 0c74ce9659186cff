// Package iiif retrieves and decodes IIIF Presentation API 2.x documents.
//
// The package covers the read side of the conversion only:
//   - Fetcher: retrieves a JSON-LD document over HTTP and checks @context/@type
//   - Manifest, Sequence, Canvas: the subset of the Presentation model in use
//   - Canvases: the lazy canvas projection consumed by the MEI generator
//
// Source documents are never modified. Every check failure is reported as a
// typed error that unwraps to one of the package sentinels, so callers can
// branch with errors.Is and errors.As.
package iiif
