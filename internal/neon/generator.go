package neon

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nao1215/iiif2neon/internal/iiif"
	"github.com/nao1215/iiif2neon/internal/mei"
	"github.com/nao1215/iiif2neon/internal/model"
)

// Generator builds annotation manifests. The zero value is not usable; use
// NewGenerator.
type Generator struct {
	newID   func() uuid.UUID
	now     func() time.Time
	workers int
	logger  *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithIDSource replaces the uuid source. Tests use it for stable identifiers.
func WithIDSource(newID func() uuid.UUID) Option {
	return func(g *Generator) {
		g.newID = newID
	}
}

// WithClock replaces the clock used for the manifest timestamp.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// WithWorkers bounds the number of MEI bodies rendered concurrently.
// Values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.workers = n
		}
	}
}

// WithLogger sets the generator's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// NewGenerator creates a Generator using random v4 uuids and the wall clock.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		newID:   uuid.New,
		now:     time.Now,
		workers: runtime.NumCPU(),
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.logger == nil {
		g.logger = slog.Default()
	}

	return g
}

// Annotations returns one annotation per canvas of manifest's first
// sequence, in canvas order.
//
// Identifiers are drawn before rendering starts so they follow canvas order
// as well; only the MEI rendering and encoding run on the worker group.
func (g *Generator) Annotations(ctx context.Context, manifest *iiif.Manifest) ([]model.Annotation, error) {
	annotations := make([]model.Annotation, 0, manifest.CanvasCount())
	canvases := make([]iiif.CanvasDescriptor, 0, manifest.CanvasCount())
	for canvas := range manifest.Canvases() {
		canvases = append(canvases, canvas)
		annotations = append(annotations, model.Annotation{
			ID:     model.NewURN(g.newID()),
			Type:   model.AnnotationType,
			Target: canvas.ID,
		})
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	for i := range canvases {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			annotations[i].Body = mei.DataURI(mei.Generate(canvases[i], manifest.ID))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	g.logger.Debug("annotations generated",
		"manifest", manifest.ID,
		"count", len(annotations),
	)
	return annotations, nil
}

// Manifest builds the annotation manifest for manifest.
func (g *Generator) Manifest(ctx context.Context, manifest *iiif.Manifest) (*model.AnnotationManifest, error) {
	annotations, err := g.Annotations(ctx, manifest)
	if err != nil {
		return nil, err
	}

	return &model.AnnotationManifest{
		Context:     model.NeonContext,
		ID:          model.NewURN(g.newID()),
		Title:       manifest.Label.String(),
		Timestamp:   model.FormatTimestamp(g.now()),
		Image:       manifest.ID,
		Annotations: annotations,
	}, nil
}
