package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/iiif2neon/internal/model"
)

// Step is one stage of a conversion.
type Step interface {
	// Do executes the step against the conversion.
	// Any returned error aborts the pipeline.
	Do(ctx context.Context, conv *model.Conversion) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline executes steps in the order they were added.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps in sequence and returns the first error.
// Cancellation is checked before each step. On failure the error is stored
// in conv.Err and conv.Output is cleared.
func (p *Pipeline) Execute(ctx context.Context, conv *model.Conversion) error {
	start := time.Now()
	defer func() {
		conv.Duration = time.Since(start)
	}()

	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", err,
			)
			return p.fail(conv, err)
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"source", conv.Source,
		)

		if err := step.Do(ctx, conv); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"source", conv.Source,
				"error", err,
			)
			return p.fail(conv, err)
		}

		conv.PerformedSteps = append(conv.PerformedSteps, step.Name())
	}
	return nil
}

func (p *Pipeline) fail(conv *model.Conversion, err error) error {
	conv.Err = err
	conv.Output = nil
	return err
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
