package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NeonContext is the @context of every generated manifest.
const NeonContext = "https://ddmal.music.mcgill.ca/Neon/contexts/1/manifest.jsonld"

// AnnotationType is the type of every generated annotation.
const AnnotationType = "Annotation"

// URNPrefix prefixes every generated identifier.
const URNPrefix = "urn:uuid:"

// TimestampLayout renders an instant in ISO-8601 with microseconds and a
// numeric offset, e.g. 2020-06-01T14:03:11.123456+00:00.
const TimestampLayout = "2006-01-02T15:04:05.000000-07:00"

// ErrInvalidURN is returned when an identifier is not a uuid URN.
var ErrInvalidURN = errors.New("invalid uuid URN")

// Annotation pairs one canvas with the MEI document encoding it.
type Annotation struct {
	// ID is a uuid URN, fresh for every run.
	ID string `json:"id"`

	// Type is always AnnotationType.
	Type string `json:"type"`

	// Body is the data URI wrapping the MEI document.
	Body string `json:"body"`

	// Target is the @id of the annotated canvas.
	Target string `json:"target"`
}

// AnnotationManifest is the Neon manifest generated from a IIIF manifest.
type AnnotationManifest struct {
	Context   string `json:"@context"`
	ID        string `json:"@id"`
	Title     string `json:"title"`
	Timestamp string `json:"timestamp"`

	// Image is the @id of the source IIIF manifest.
	Image string `json:"image"`

	// Annotations are in canvas order of the source's first sequence.
	Annotations []Annotation `json:"mei_annotations"`
}

// NewURN formats id as a uuid URN.
func NewURN(id uuid.UUID) string {
	return URNPrefix + id.String()
}

// ParseURN returns the uuid held by a URN produced by NewURN.
func ParseURN(urn string) (uuid.UUID, error) {
	s, ok := strings.CutPrefix(urn, URNPrefix)
	if !ok {
		return uuid.Nil, ErrInvalidURN
	}
	id, err := uuid.Parse(s)
	if err != nil || len(s) != 36 {
		return uuid.Nil, ErrInvalidURN
	}
	return id, nil
}

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
