package iiif

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"math"
)

// Presentation API 2.x identifiers checked on every retrieved document.
const (
	// PresentationContext is the only @context accepted.
	PresentationContext = "http://iiif.io/api/presentation/2/context.json"

	// ManifestType is the @type of a Presentation manifest.
	ManifestType = "sc:Manifest"

	// CanvasType is the @type of a standalone canvas document.
	CanvasType = "sc:Canvas"
)

// requiredCanvasFields are copied into every CanvasDescriptor.
var requiredCanvasFields = []string{"@id", "label", "width", "height"}

// Document is a retrieved JSON-LD document whose @context (and optionally
// @type) has been checked. The raw bytes are kept for ParseManifest and
// ParseCanvas.
type Document struct {
	// Type is the document's @type, empty if absent.
	Type string

	// ID is the document's @id, empty if absent.
	ID string

	raw []byte
}

// Decode checks an in-memory JSON document the same way Fetcher.Retrieve
// checks a response body. An empty expectedType skips the @type check.
func Decode(data []byte, expectedType string) (*Document, error) {
	var head struct {
		Context json.RawMessage `json:"@context"`
		Type    json.RawMessage `json:"@type"`
		ID      json.RawMessage `json:"@id"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}

	if context, ok := stringValue(head.Context); !ok || context != PresentationContext {
		got := string(head.Context)
		if got == "" {
			got = "<missing>"
		}
		return nil, &ContextMismatchError{Got: got}
	}

	docType, _ := stringValue(head.Type)
	if expectedType != "" && docType != expectedType {
		return nil, &TypeMismatchError{Got: docType, Want: expectedType}
	}

	id, _ := stringValue(head.ID)
	return &Document{Type: docType, ID: id, raw: data}, nil
}

// stringValue reports the string held by a raw JSON value.
func stringValue(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Manifest is the part of a Presentation manifest the converter reads.
type Manifest struct {
	ID        string     `json:"@id"`
	Type      string     `json:"@type,omitempty"`
	Label     Label      `json:"label"`
	Sequences []Sequence `json:"sequences"`
}

// ParseManifest validates the shape of a checked document and decodes it.
func ParseManifest(doc *Document) (*Manifest, error) {
	if err := validateManifestShape(doc.raw); err != nil {
		return nil, err
	}

	var m Manifest
	if err := json.Unmarshal(doc.raw, &m); err != nil {
		var missing *MissingFieldError
		if errors.As(err, &missing) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	if len(m.Sequences) == 0 {
		return nil, ErrNoSequence
	}
	return &m, nil
}

// ParseCanvas decodes a standalone canvas document.
func ParseCanvas(doc *Document) (*Canvas, error) {
	c, err := decodeCanvas(-1, doc.raw)
	if err != nil {
		var missing *MissingFieldError
		if errors.As(err, &missing) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	return &c, nil
}

// CanvasManifest wraps a standalone canvas in a single-canvas manifest whose
// @id and label are the canvas' own.
func CanvasManifest(c *Canvas) *Manifest {
	return &Manifest{
		ID:        c.ID,
		Type:      CanvasType,
		Label:     c.Label,
		Sequences: []Sequence{{Canvases: []Canvas{*c}}},
	}
}

// Canvases projects the canvases of the first sequence.
// Only the first sequence is ever used; the others are ignored.
func (m *Manifest) Canvases() iter.Seq[CanvasDescriptor] {
	if len(m.Sequences) == 0 {
		return func(func(CanvasDescriptor) bool) {}
	}
	return Project(m.Sequences[0].Canvases)
}

// CanvasCount returns the number of canvases in the first sequence.
func (m *Manifest) CanvasCount() int {
	if len(m.Sequences) == 0 {
		return 0
	}
	return len(m.Sequences[0].Canvases)
}

// Sequence is one ordering of canvases.
type Sequence struct {
	ID       string   `json:"@id,omitempty"`
	Canvases []Canvas `json:"canvases"`
}

// UnmarshalJSON decodes the sequence, reporting the index of a canvas that
// lacks a required field.
func (s *Sequence) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       string            `json:"@id"`
		Canvases []json.RawMessage `json:"canvases"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	s.ID = raw.ID
	s.Canvases = make([]Canvas, 0, len(raw.Canvases))
	for i, c := range raw.Canvases {
		canvas, err := decodeCanvas(i, c)
		if err != nil {
			return err
		}
		s.Canvases = append(s.Canvases, canvas)
	}
	return nil
}

// Canvas is a single page of a manifest.
type Canvas struct {
	ID     string `json:"@id"`
	Label  Label  `json:"label"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func decodeCanvas(index int, data []byte) (Canvas, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Canvas{}, err
	}
	for _, name := range requiredCanvasFields {
		if _, ok := fields[name]; !ok {
			return Canvas{}, &MissingFieldError{Field: name, Index: index}
		}
	}

	var c Canvas
	if err := json.Unmarshal(fields["@id"], &c.ID); err != nil {
		return Canvas{}, fmt.Errorf("canvas @id: %w", err)
	}
	if err := json.Unmarshal(fields["label"], &c.Label); err != nil {
		return Canvas{}, fmt.Errorf("canvas label: %w", err)
	}
	var err error
	if c.Width, err = decodeDimension(fields["width"]); err != nil {
		return Canvas{}, fmt.Errorf("canvas width: %w", err)
	}
	if c.Height, err = decodeDimension(fields["height"]); err != nil {
		return Canvas{}, fmt.Errorf("canvas height: %w", err)
	}
	return c, nil
}

// MaxDimension is the largest accepted canvas width or height.
const MaxDimension = math.MaxInt32

// decodeDimension accepts integral JSON numbers in 1..MaxDimension,
// including 1200.0.
func decodeDimension(raw json.RawMessage) (int, error) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, err
	}

	var v float64
	if i, err := n.Int64(); err == nil {
		v = float64(i)
	} else {
		f, err := n.Float64()
		if err != nil {
			return 0, err
		}
		if f != math.Trunc(f) {
			return 0, fmt.Errorf("%s is not an integer", n)
		}
		v = f
	}

	if v < 1 || v > MaxDimension {
		return 0, fmt.Errorf("%s is out of range 1..%d", n, MaxDimension)
	}
	return int(v), nil
}

// CanvasDescriptor is the projection of a canvas used to render its MEI document.
type CanvasDescriptor struct {
	ID     string
	Label  string
	Width  int
	Height int
}

// Project yields one descriptor per canvas, in order.
func Project(canvases []Canvas) iter.Seq[CanvasDescriptor] {
	return func(yield func(CanvasDescriptor) bool) {
		for _, c := range canvases {
			d := CanvasDescriptor{
				ID:     c.ID,
				Label:  c.Label.String(),
				Width:  c.Width,
				Height: c.Height,
			}
			if !yield(d) {
				return
			}
		}
	}
}

// Label is a IIIF label. Plain strings are kept verbatim; language-tagged
// values ({"@value": ...} or a list of them) resolve to their first value.
type Label string

// UnmarshalJSON implements json.Unmarshaler.
func (l *Label) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = Label(s)
		return nil
	}

	var tagged struct {
		Value *string `json:"@value"`
	}
	if err := json.Unmarshal(data, &tagged); err == nil && tagged.Value != nil {
		*l = Label(*tagged.Value)
		return nil
	}

	var list []json.RawMessage
	if err := json.Unmarshal(data, &list); err == nil && len(list) > 0 {
		return l.UnmarshalJSON(list[0])
	}

	*l = Label(bytes.TrimSpace(data))
	return nil
}

// String returns the label text.
func (l Label) String() string {
	return string(l)
}
