package iiif

import (
	"errors"
	"testing"
)

// testManifestJSON is the single-canvas manifest used across the package tests.
const testManifestJSON = `{
  "@context": "http://iiif.io/api/presentation/2/context.json",
  "@id": "https://example.org/manifest",
  "@type": "sc:Manifest",
  "label": "Test",
  "sequences": [
    {
      "@type": "sc:Sequence",
      "canvases": [
        {"@id": "https://example.org/canvas/1", "@type": "sc:Canvas", "label": "Page 1", "width": 800, "height": 1200}
      ]
    }
  ]
}`

// TestDecode tests the @context and @type checks.
func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("accepts presentation context", func(t *testing.T) {
		t.Parallel()

		doc, err := Decode([]byte(testManifestJSON), ManifestType)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if doc.ID != "https://example.org/manifest" {
			t.Errorf("expected @id https://example.org/manifest, got %q", doc.ID)
		}
		if doc.Type != ManifestType {
			t.Errorf("expected @type %q, got %q", ManifestType, doc.Type)
		}
	})

	t.Run("rejects invalid JSON", func(t *testing.T) {
		t.Parallel()

		_, err := Decode([]byte(`{"@context": `), "")
		if !errors.Is(err, ErrInvalidJSON) {
			t.Errorf("expected ErrInvalidJSON, got %v", err)
		}
	})

	t.Run("rejects other context", func(t *testing.T) {
		t.Parallel()

		_, err := Decode([]byte(`{"@context": "http://iiif.io/api/presentation/3/context.json"}`), "")
		if !errors.Is(err, ErrContextMismatch) {
			t.Fatalf("expected ErrContextMismatch, got %v", err)
		}
		var mismatch *ContextMismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("expected *ContextMismatchError, got %T", err)
		}
		if mismatch.Got != `"http://iiif.io/api/presentation/3/context.json"` {
			t.Errorf("unexpected Got: %s", mismatch.Got)
		}
	})

	t.Run("rejects context array", func(t *testing.T) {
		t.Parallel()

		_, err := Decode([]byte(`{"@context": ["http://iiif.io/api/presentation/2/context.json"]}`), "")
		if !errors.Is(err, ErrContextMismatch) {
			t.Errorf("expected ErrContextMismatch, got %v", err)
		}
	})

	t.Run("rejects missing context", func(t *testing.T) {
		t.Parallel()

		_, err := Decode([]byte(`{"@id": "x"}`), "")
		var mismatch *ContextMismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("expected *ContextMismatchError, got %v", err)
		}
		if mismatch.Got != "<missing>" {
			t.Errorf("expected <missing>, got %q", mismatch.Got)
		}
	})

	t.Run("rejects unexpected type", func(t *testing.T) {
		t.Parallel()

		_, err := Decode([]byte(testManifestJSON), CanvasType)
		var mismatch *TypeMismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("expected *TypeMismatchError, got %v", err)
		}
		if mismatch.Got != ManifestType || mismatch.Want != CanvasType {
			t.Errorf("unexpected mismatch: %+v", mismatch)
		}
	})

	t.Run("empty expected type skips type check", func(t *testing.T) {
		t.Parallel()

		data := `{"@context": "http://iiif.io/api/presentation/2/context.json", "@type": "sc:Collection"}`
		if _, err := Decode([]byte(data), ""); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}

// TestParseManifest tests shape validation and decoding.
func TestParseManifest(t *testing.T) {
	t.Parallel()

	parse := func(t *testing.T, data string) (*Manifest, error) {
		t.Helper()
		doc, err := Decode([]byte(data), "")
		if err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		return ParseManifest(doc)
	}

	t.Run("decodes manifest fields", func(t *testing.T) {
		t.Parallel()

		m, err := parse(t, testManifestJSON)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m.ID != "https://example.org/manifest" {
			t.Errorf("unexpected @id %q", m.ID)
		}
		if m.Label != "Test" {
			t.Errorf("unexpected label %q", m.Label)
		}
		if m.CanvasCount() != 1 {
			t.Fatalf("expected 1 canvas, got %d", m.CanvasCount())
		}
		c := m.Sequences[0].Canvases[0]
		if c.ID != "https://example.org/canvas/1" || c.Label != "Page 1" || c.Width != 800 || c.Height != 1200 {
			t.Errorf("unexpected canvas %+v", c)
		}
	})

	t.Run("missing canvas field reports index", func(t *testing.T) {
		t.Parallel()

		data := `{
		  "@context": "http://iiif.io/api/presentation/2/context.json",
		  "@id": "m", "label": "L",
		  "sequences": [{"canvases": [
		    {"@id": "c1", "label": "1", "width": 1, "height": 1},
		    {"@id": "c2", "label": "2", "width": 1}
		  ]}]
		}`
		_, err := parse(t, data)
		var missing *MissingFieldError
		if !errors.As(err, &missing) {
			t.Fatalf("expected *MissingFieldError, got %v", err)
		}
		if missing.Field != "height" || missing.Index != 1 {
			t.Errorf("unexpected error %+v", missing)
		}
		if !errors.Is(err, ErrMissingField) {
			t.Error("expected error to unwrap to ErrMissingField")
		}
	})

	t.Run("no sequences", func(t *testing.T) {
		t.Parallel()

		data := `{"@context": "http://iiif.io/api/presentation/2/context.json", "@id": "m", "label": "L", "sequences": []}`
		_, err := parse(t, data)
		if !errors.Is(err, ErrNoSequence) {
			t.Errorf("expected ErrNoSequence, got %v", err)
		}
	})

	t.Run("non-positive width is rejected", func(t *testing.T) {
		t.Parallel()

		data := `{
		  "@context": "http://iiif.io/api/presentation/2/context.json",
		  "@id": "m", "label": "L",
		  "sequences": [{"canvases": [{"@id": "c", "label": "1", "width": 0, "height": 10}]}]
		}`
		_, err := parse(t, data)
		if !errors.Is(err, ErrInvalidManifest) {
			t.Errorf("expected ErrInvalidManifest, got %v", err)
		}
	})

	t.Run("missing manifest label is rejected", func(t *testing.T) {
		t.Parallel()

		data := `{"@context": "http://iiif.io/api/presentation/2/context.json", "@id": "m", "sequences": []}`
		_, err := parse(t, data)
		if !errors.Is(err, ErrInvalidManifest) {
			t.Errorf("expected ErrInvalidManifest, got %v", err)
		}
	})

	t.Run("oversized dimensions are rejected", func(t *testing.T) {
		t.Parallel()

		for _, width := range []string{"1e30", "2147483648", "9223372036854775807"} {
			data := `{
			  "@context": "http://iiif.io/api/presentation/2/context.json",
			  "@id": "m", "label": "L",
			  "sequences": [{"canvases": [{"@id": "c", "label": "1", "width": ` + width + `, "height": 10}]}]
			}`
			m, err := parse(t, data)
			if !errors.Is(err, ErrInvalidManifest) {
				t.Errorf("width %s: expected ErrInvalidManifest, got %v", width, err)
			}
			if m != nil {
				t.Errorf("width %s: expected no manifest, got %+v", width, m)
			}
		}
	})

	t.Run("largest dimension is accepted", func(t *testing.T) {
		t.Parallel()

		data := `{
		  "@context": "http://iiif.io/api/presentation/2/context.json",
		  "@id": "m", "label": "L",
		  "sequences": [{"canvases": [{"@id": "c", "label": "1", "width": 2147483647, "height": 10}]}]
		}`
		m, err := parse(t, data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m.Sequences[0].Canvases[0].Width != MaxDimension {
			t.Errorf("expected width %d, got %d", MaxDimension, m.Sequences[0].Canvases[0].Width)
		}
	})

	t.Run("integral float dimensions are accepted", func(t *testing.T) {
		t.Parallel()

		data := `{
		  "@context": "http://iiif.io/api/presentation/2/context.json",
		  "@id": "m", "label": "L",
		  "sequences": [{"canvases": [{"@id": "c", "label": "1", "width": 800.0, "height": 1200}]}]
		}`
		m, err := parse(t, data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m.Sequences[0].Canvases[0].Width != 800 {
			t.Errorf("expected width 800, got %d", m.Sequences[0].Canvases[0].Width)
		}
	})
}

// TestCanvases tests the canvas projection.
func TestCanvases(t *testing.T) {
	t.Parallel()

	m := &Manifest{
		ID: "m",
		Sequences: []Sequence{
			{Canvases: []Canvas{
				{ID: "c1", Label: "one", Width: 10, Height: 20},
				{ID: "c2", Label: "two", Width: 30, Height: 40},
				{ID: "c3", Label: "three", Width: 50, Height: 60},
			}},
			{Canvases: []Canvas{{ID: "ignored"}}},
		},
	}

	t.Run("yields first sequence in order", func(t *testing.T) {
		t.Parallel()

		var ids []string
		for d := range m.Canvases() {
			ids = append(ids, d.ID)
		}
		expected := []string{"c1", "c2", "c3"}
		if len(ids) != len(expected) {
			t.Fatalf("expected %d descriptors, got %d", len(expected), len(ids))
		}
		for i := range expected {
			if ids[i] != expected[i] {
				t.Errorf("descriptor %d: got %q, expected %q", i, ids[i], expected[i])
			}
		}
	})

	t.Run("copies fields verbatim", func(t *testing.T) {
		t.Parallel()

		for d := range m.Canvases() {
			want := CanvasDescriptor{ID: "c1", Label: "one", Width: 10, Height: 20}
			if d != want {
				t.Errorf("got %+v, expected %+v", d, want)
			}
			break
		}
	})

	t.Run("empty manifest yields nothing", func(t *testing.T) {
		t.Parallel()

		count := 0
		for range (&Manifest{}).Canvases() {
			count++
		}
		if count != 0 {
			t.Errorf("expected 0 descriptors, got %d", count)
		}
	})
}

// TestLabel tests label decoding.
func TestLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  Label
	}{
		{name: "plain string", input: `"Folio 1r"`, want: "Folio 1r"},
		{name: "language value", input: `{"@value": "Folio 1r", "@language": "en"}`, want: "Folio 1r"},
		{name: "list of values", input: `[{"@value": "Folio 1r"}, {"@value": "f. 1r"}]`, want: "Folio 1r"},
		{name: "list of strings", input: `["a", "b"]`, want: "a"},
		{name: "number falls back to raw JSON", input: `12`, want: "12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var l Label
			if err := l.UnmarshalJSON([]byte(tt.input)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if l != tt.want {
				t.Errorf("got %q, want %q", l, tt.want)
			}
		})
	}
}
