// Package main provides the entry point for the iiif2neon CLI.
//
// iiif2neon converts IIIF Presentation 2 manifests into Neon annotation
// manifests: one placeholder MEI document per canvas, ready to be
// transcribed in the Neon editor.
//
// Usage:
//
//	iiif2neon convert <manifest-url-or-file>
//	iiif2neon convert -O out/ <manifest>...
//
// See --help for all available options.
package main

func main() {
	Execute()
}
