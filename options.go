package sugarloaf

import (
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/gogpu/sugarloaf/components/layer"
	"github.com/gogpu/sugarloaf/font"
)

// tracerName is the instrumentation scope of frame spans.
const tracerName = "github.com/gogpu/sugarloaf"

// FatalHandler receives unrecoverable device errors. If it returns, the
// frame is dropped and rendering continues with the next Render call.
type FatalHandler func(err error)

// PanicOnFatal is the default FatalHandler.
func PanicOnFatal(err error) {
	panic(fmt.Sprintf("sugarloaf: %v. Rendering cannot continue.", err))
}

// Option configures a Sugarloaf during creation.
//
// Example:
//
//	s, err := sugarloaf.New(dev, layout, fonts,
//		sugarloaf.WithLogger(slog.Default()),
//		sugarloaf.WithStage(sugarloaf.StageText, true, false),
//	)
type Option func(*options)

// options holds optional configuration for New.
type options struct {
	logger        *slog.Logger
	fatal         FatalHandler
	toggles       [numStages]stageToggle
	atlasLifetime int
	db            *font.Database
	tracer        trace.Tracer
	imageCache    *layer.Cache
}

type stageToggle struct {
	prepare, render bool
}

// defaultOptions returns the default options: every stage prepares and
// renders, fatal errors panic.
func defaultOptions() options {
	o := options{fatal: PanicOnFatal}
	for i := range o.toggles {
		o.toggles[i] = stageToggle{prepare: true, render: true}
	}
	return o
}

// WithLogger sets the instance logger. Without it the package logger is used.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithFatalHandler replaces the default panic on fatal device errors,
// for hosts that restart the renderer under supervision instead.
func WithFatalHandler(h FatalHandler) Option {
	return func(o *options) {
		if h != nil {
			o.fatal = h
		}
	}
}

// WithStage enables or disables the prepare and render steps of a stage.
func WithStage(id StageID, prepare, render bool) Option {
	return func(o *options) {
		if id < numStages {
			o.toggles[id] = stageToggle{prepare: prepare, render: render}
		}
	}
}

// WithAtlasFrameLifetime sets how many frames an unused glyph mask stays in
// the atlas.
func WithAtlasFrameLifetime(frames int) Option {
	return func(o *options) {
		o.atlasLifetime = frames
	}
}

// WithDatabase sets the font database families are resolved against.
// Without it only the embedded faces are available.
func WithDatabase(db *font.Database) Option {
	return func(o *options) {
		o.db = db
	}
}

// WithTracer sets the tracer for frame spans. Without it the global
// OpenTelemetry provider is used.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		o.tracer = t
	}
}

// WithImageCache shares a decoded background image cache between instances.
func WithImageCache(c *layer.Cache) Option {
	return func(o *options) {
		o.imageCache = c
	}
}

func (o *options) resolveTracer() trace.Tracer {
	if o.tracer != nil {
		return o.tracer
	}
	return otel.Tracer(tracerName)
}
