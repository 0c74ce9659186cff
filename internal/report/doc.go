// Package report writes conversion results.
//
// JSONWriter emits the generated Neon manifest itself. MarkdownWriter and
// SimpleWriter emit a summary of a conversion for people to read: the
// source, the title, and one row per annotation with its target canvas and
// the digest of its MEI body.
//
// All writers implement Writer and refuse conversions that did not produce
// an output manifest.
package report
