// Package mei renders the placeholder MEI 4.0.0 document attached to every
// canvas and wraps it in a data URI.
//
// The document structure is fixed: only the title, the two provenance
// targets and the surface extent vary. A downstream MEI editor replaces the
// "delete-me" zone and the system break that points at it.
package mei
