// Package neon assembles Neon annotation manifests from IIIF manifests.
//
// Every canvas of the source's first sequence becomes one Annotation whose
// body is the placeholder MEI document for that canvas. Identifiers are
// random uuid URNs, so two runs over the same manifest never produce the
// same output.
package neon
