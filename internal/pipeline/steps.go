package pipeline

import (
	"context"
	"fmt"
	"net/url"

	"github.com/nao1215/iiif2neon/internal/iiif"
	"github.com/nao1215/iiif2neon/internal/mei"
	"github.com/nao1215/iiif2neon/internal/model"
)

// ManifestSource loads a IIIF manifest from the network or from disk.
// *iiif.Fetcher satisfies it.
type ManifestSource interface {
	FetchManifest(ctx context.Context, url string) (*iiif.Manifest, error)
	ReadManifest(path string) (*iiif.Manifest, error)
}

// ManifestBuilder generates the Neon manifest for a IIIF manifest.
// *neon.Generator satisfies it.
type ManifestBuilder interface {
	Manifest(ctx context.Context, manifest *iiif.Manifest) (*model.AnnotationManifest, error)
}

// FetchStep decodes the source manifest.
// Sources with an http or https scheme are fetched, anything else is read
// as a local file.
type FetchStep struct {
	source ManifestSource
}

// NewFetchStep creates a FetchStep reading from source.
func NewFetchStep(source ManifestSource) *FetchStep {
	return &FetchStep{source: source}
}

// Name implements Step.
func (s *FetchStep) Name() string { return "fetch" }

// Do implements Step.
func (s *FetchStep) Do(ctx context.Context, conv *model.Conversion) error {
	var (
		manifest *iiif.Manifest
		err      error
	)
	if IsRemote(conv.Source) {
		manifest, err = s.source.FetchManifest(ctx, conv.Source)
	} else {
		manifest, err = s.source.ReadManifest(conv.Source)
	}
	if err != nil {
		return err
	}
	conv.Manifest = manifest
	return nil
}

// IsRemote reports whether source is an http or https URL.
func IsRemote(source string) bool {
	u, err := url.Parse(source)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// AssembleStep generates the annotation manifest.
type AssembleStep struct {
	builder ManifestBuilder
}

// NewAssembleStep creates an AssembleStep using builder.
func NewAssembleStep(builder ManifestBuilder) *AssembleStep {
	return &AssembleStep{builder: builder}
}

// Name implements Step.
func (s *AssembleStep) Name() string { return "assemble" }

// Do implements Step.
func (s *AssembleStep) Do(ctx context.Context, conv *model.Conversion) error {
	if conv.Manifest == nil {
		return ErrNoManifest
	}
	out, err := s.builder.Manifest(ctx, conv.Manifest)
	if err != nil {
		return err
	}
	conv.Output = out
	return nil
}

// VerifyStep checks the generated manifest against its source: one
// annotation per canvas in canvas order, uuid URN identifiers, and bodies
// that decode to well-formed MEI.
type VerifyStep struct{}

// NewVerifyStep creates a VerifyStep.
func NewVerifyStep() *VerifyStep {
	return &VerifyStep{}
}

// Name implements Step.
func (s *VerifyStep) Name() string { return "verify" }

// Do implements Step.
func (s *VerifyStep) Do(_ context.Context, conv *model.Conversion) error {
	if conv.Manifest == nil {
		return ErrNoManifest
	}
	out := conv.Output
	if out == nil {
		return ErrNoOutput
	}

	if want := conv.Manifest.CanvasCount(); len(out.Annotations) != want {
		return fmt.Errorf("%w: %d annotations for %d canvases", ErrVerification, len(out.Annotations), want)
	}
	if _, err := model.ParseURN(out.ID); err != nil {
		return fmt.Errorf("%w: manifest id %q: %w", ErrVerification, out.ID, err)
	}
	if out.Image != conv.Manifest.ID {
		return fmt.Errorf("%w: image %q does not match manifest %q", ErrVerification, out.Image, conv.Manifest.ID)
	}

	i := 0
	for canvas := range conv.Manifest.Canvases() {
		a := out.Annotations[i]
		if a.Target != canvas.ID {
			return fmt.Errorf("%w: annotation %d targets %q, want %q", ErrVerification, i, a.Target, canvas.ID)
		}
		if _, err := model.ParseURN(a.ID); err != nil {
			return fmt.Errorf("%w: annotation %d id %q: %w", ErrVerification, i, a.ID, err)
		}
		doc, err := mei.DecodeDataURI(a.Body)
		if err != nil {
			return fmt.Errorf("%w: annotation %d: %w", ErrVerification, i, err)
		}
		if err := mei.CheckWellFormed(doc); err != nil {
			return fmt.Errorf("%w: annotation %d: %w", ErrVerification, i, err)
		}
		i++
	}
	return nil
}

// DefaultPipeline builds the fetch, assemble and verify pipeline.
func DefaultPipeline(source ManifestSource, builder ManifestBuilder, opts ...Option) *Pipeline {
	p := New(opts...)
	p.AddSteps(
		NewFetchStep(source),
		NewAssembleStep(builder),
		NewVerifyStep(),
	)
	return p
}
