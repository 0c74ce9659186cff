package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/iiif2neon/internal/iiif"
	"github.com/nao1215/iiif2neon/internal/mei"
	"github.com/nao1215/iiif2neon/internal/model"
	"github.com/nao1215/iiif2neon/internal/neon"
)

// createTestConversion creates a finished conversion of a two canvas manifest.
func createTestConversion(t *testing.T) *model.Conversion {
	t.Helper()

	manifest := &iiif.Manifest{
		ID:    "https://example.org/manifest",
		Label: "Antiphonary & Gradual",
		Sequences: []iiif.Sequence{{Canvases: []iiif.Canvas{
			{ID: "https://example.org/canvas/1", Label: "f. 1r", Width: 800, Height: 1200},
			{ID: "https://example.org/canvas/2", Label: "f. 1v", Width: 810, Height: 1210},
		}}},
	}

	fixed := time.Date(2020, 6, 1, 14, 3, 11, 123456000, time.UTC)
	out, err := neon.NewGenerator(neon.WithClock(func() time.Time { return fixed })).
		Manifest(context.Background(), manifest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	conv := model.NewConversion("https://example.org/manifest")
	conv.Manifest = manifest
	conv.Output = out
	conv.PerformedSteps = []string{"fetch", "assemble", "verify"}
	return conv
}

// TestWritersRejectFailedConversions tests that no writer emits partial output.
func TestWritersRejectFailedConversions(t *testing.T) {
	t.Parallel()

	writers := map[string]func(*bytes.Buffer) Writer{
		"json":     func(b *bytes.Buffer) Writer { return NewJSONWriter(b) },
		"markdown": func(b *bytes.Buffer) Writer { return NewMarkdownWriter(b) },
		"simple":   func(b *bytes.Buffer) Writer { return NewSimpleWriter(b) },
	}

	for name, newWriter := range writers {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			conv := model.NewConversion("manifest.json")
			conv.Err = iiif.ErrNoSequence

			var buf bytes.Buffer
			_, err := newWriter(&buf).Write(conv)
			if !errors.Is(err, ErrNoOutput) {
				t.Errorf("expected ErrNoOutput, got %v", err)
			}
			if buf.Len() != 0 {
				t.Errorf("expected no output, got %q", buf.String())
			}
		})
	}
}

// TestJSONWriter tests the annotation manifest output.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes compact manifest", func(t *testing.T) {
		t.Parallel()

		conv := createTestConversion(t)
		var buf bytes.Buffer
		n, err := NewJSONWriter(&buf).Write(conv)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("expected %d bytes reported, got %d", buf.Len(), n)
		}

		output := buf.String()
		if strings.Count(output, "\n") != 1 || !strings.HasSuffix(output, "\n") {
			t.Errorf("expected single line output, got %q", output)
		}
		if !strings.Contains(output, `"title":"Antiphonary & Gradual"`) {
			t.Errorf("expected unescaped title, got %s", output)
		}

		var decoded map[string]any
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		for _, key := range []string{"@context", "@id", "title", "timestamp", "image", "mei_annotations"} {
			if _, ok := decoded[key]; !ok {
				t.Errorf("expected key %q in output", key)
			}
		}
		if decoded["@context"] != model.NeonContext {
			t.Errorf("unexpected @context %v", decoded["@context"])
		}
		if decoded["timestamp"] != "2020-06-01T14:03:11.123456+00:00" {
			t.Errorf("unexpected timestamp %v", decoded["timestamp"])
		}
	})

	t.Run("writes indented manifest", func(t *testing.T) {
		t.Parallel()

		conv := createTestConversion(t)
		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithIndent(4)).Write(conv); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n    \"@context\"") {
			t.Errorf("expected four space indentation, got %s", buf.String())
		}
	})

	t.Run("annotations decode back to MEI", func(t *testing.T) {
		t.Parallel()

		conv := createTestConversion(t)
		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(conv); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded model.AnnotationManifest
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		for i, a := range decoded.Annotations {
			doc, err := mei.DecodeDataURI(a.Body)
			if err != nil {
				t.Fatalf("annotation %d: %v", i, err)
			}
			if !strings.Contains(doc, `<source target="`+a.Target+`" recordtype="m" targettype="IIIFCanvas"/>`) {
				t.Errorf("annotation %d: body does not reference its canvas", i)
			}
		}
	})
}

// TestMarkdownWriter tests the Markdown summary.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	conv := createTestConversion(t)
	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).Write(conv); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	expected := []string{
		"# Neon Annotation Manifest",
		"## Annotations",
		"Antiphonary & Gradual",
		"`https://example.org/canvas/2`",
		"`" + conv.Output.Annotations[0].ID + "`",
		"fetch → assemble → verify",
	}
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}

	doc, err := mei.DecodeDataURI(conv.Output.Annotations[1].Body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(output, mei.Digest(doc)) {
		t.Error("expected output to contain the body digest")
	}
}

// TestSimpleWriter tests the terminal summary.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes summary table", func(t *testing.T) {
		t.Parallel()

		conv := createTestConversion(t)
		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(conv); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.HasPrefix(output, "Antiphonary & Gradual\n") {
			t.Errorf("expected title first, got %q", output)
		}
		if !strings.Contains(output, "https://example.org/canvas/1") {
			t.Error("expected output to contain canvas id")
		}
		if strings.Contains(output, conv.Output.Annotations[0].ID) {
			t.Error("expected annotation id only in verbose mode")
		}
	})

	t.Run("verbose includes annotation ids", func(t *testing.T) {
		t.Parallel()

		conv := createTestConversion(t)
		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithVerbose(true)).Write(conv); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), conv.Output.Annotations[0].ID) {
			t.Error("expected verbose output to contain annotation id")
		}
	})
}
