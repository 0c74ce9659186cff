package mei

import (
	"errors"
	"strings"
	"testing"
)

// TestDataURI tests encoding and decoding of annotation bodies.
func TestDataURI(t *testing.T) {
	t.Parallel()

	t.Run("uses the MEI media type and base64", func(t *testing.T) {
		t.Parallel()

		got := DataURI("<mei/>")
		if got != "data:application/mei+xml;base64,PG1laS8+" {
			t.Errorf("unexpected data URI %q", got)
		}
	})

	t.Run("decoding returns the generated document", func(t *testing.T) {
		t.Parallel()

		doc := Generate(page1, "https://example.org/manifest")
		decoded, err := DecodeDataURI(DataURI(doc))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if decoded != doc {
			t.Error("decoded document differs from generated document")
		}
	})

	t.Run("encodes UTF-8 bytes", func(t *testing.T) {
		t.Parallel()

		doc := "<title>Kyrie – eleison</title>"
		decoded, err := DecodeDataURI(DataURI(doc))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if decoded != doc {
			t.Errorf("got %q, want %q", decoded, doc)
		}
	})

	t.Run("rejects other media types", func(t *testing.T) {
		t.Parallel()

		_, err := DecodeDataURI("data:text/plain;base64,YQ==")
		if !errors.Is(err, ErrNotMEIDataURI) {
			t.Errorf("expected ErrNotMEIDataURI, got %v", err)
		}
	})

	t.Run("rejects invalid base64", func(t *testing.T) {
		t.Parallel()

		_, err := DecodeDataURI(dataURIPrefix + "***")
		if !errors.Is(err, ErrNotMEIDataURI) {
			t.Errorf("expected ErrNotMEIDataURI, got %v", err)
		}
	})
}

// TestCheckWellFormed tests the XML well-formedness check.
func TestCheckWellFormed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{name: "single element", doc: "<mei/>"},
		{name: "with prolog", doc: `<?xml version="1.0"?><mei><music/></mei>`},
		{name: "unclosed element", doc: "<mei><music></mei>", wantErr: true},
		{name: "truncated", doc: "<mei><music/>", wantErr: true},
		{name: "bare ampersand", doc: "<mei>a & b</mei>", wantErr: true},
		{name: "two roots", doc: "<mei/><mei/>", wantErr: true},
		{name: "empty", doc: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := CheckWellFormed(tt.doc)
			if tt.wantErr && !errors.Is(err, ErrMalformed) {
				t.Errorf("expected ErrMalformed, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

// TestDigest tests document digests.
func TestDigest(t *testing.T) {
	t.Parallel()

	a := Digest("<mei/>")
	if len(a) != 12 {
		t.Errorf("expected 12 hex digits, got %q", a)
	}
	if strings.Trim(a, "0123456789abcdef") != "" {
		t.Errorf("expected lowercase hex, got %q", a)
	}
	if a != Digest("<mei/>") {
		t.Error("expected stable digest")
	}
	if a == Digest("<mei></mei>") {
		t.Error("expected different documents to have different digests")
	}
}
