package sugarloaf

import (
	"fmt"
	"log/slog"
	"slices"

	"go.opentelemetry.io/otel/trace"

	"github.com/gogpu/sugarloaf/components/layer"
	"github.com/gogpu/sugarloaf/components/rect"
	ctext "github.com/gogpu/sugarloaf/components/text"
	"github.com/gogpu/sugarloaf/font"
	"github.com/gogpu/sugarloaf/render"
	"github.com/gogpu/sugarloaf/text"
)

// Sugarloaf is the cell-stack compositor. It accumulates rects and spans
// from pushed rows and draws them once per Render call.
//
// Sugarloaf is NOT safe for concurrent use.
type Sugarloaf struct {
	ctx    *render.Context
	layout Layout

	db       *font.Database
	families font.Families
	lib      *font.Library

	rects []Rect
	spans []text.Span
	rows  int
	runs  int

	layerBrush *layer.Brush
	rectBrush  *rect.Brush
	textBrush  *ctext.Brush
	stages     []*stage

	state  FrameState
	frames uint64
	opts   options
	tracer trace.Tracer
}

// New creates a compositor drawing to device. The context is sized from
// layout.Width and layout.Height.
//
// When some families cannot be resolved, New returns a usable instance
// together with an *Errors listing them; those slots use the embedded
// fallback faces. Any other error leaves the instance nil.
func New(device render.Device, layout Layout, families font.Families, opts ...Option) (*Sugarloaf, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	ctx, err := render.NewContext(device, layout.Width, layout.Height, layout.ScaleFactor)
	if err != nil {
		return nil, fmt.Errorf("sugarloaf: %w", err)
	}

	s := &Sugarloaf{
		ctx:      ctx,
		layout:   layout,
		db:       o.db,
		families: families,
		opts:     o,
		tracer:   o.resolveTracer(),
	}
	s.layout.ScaleFactor = ctx.Scale()

	var missing []font.Font
	s.lib, missing = font.Load(families, s.db)
	s.applyMetrics()

	if err := s.initBrushes(); err != nil {
		return nil, err
	}

	s.log().Info("sugarloaf: created",
		"width", layout.Width, "height", layout.Height,
		"scale", s.layout.ScaleFactor, "format", ctx.Format())

	if len(missing) > 0 {
		for _, f := range missing {
			s.log().Warn("sugarloaf: font not found, using fallback", "font", f.String())
		}
		return s, &Errors{FontsNotFound: missing}
	}
	return s, nil
}

func (s *Sugarloaf) initBrushes() error {
	var err error
	if s.layerBrush, err = layer.NewBrush(s.ctx, s.opts.imageCache); err != nil {
		return fmt.Errorf("sugarloaf: %w", err)
	}
	if s.rectBrush, err = rect.NewBrush(s.ctx); err != nil {
		return fmt.Errorf("sugarloaf: %w", err)
	}
	atlas := text.NewAtlas(s.opts.atlasLifetime)
	if s.textBrush, err = ctext.NewBrush(s.ctx, s.lib, atlas); err != nil {
		return fmt.Errorf("sugarloaf: %w", err)
	}

	renderables := [numStages]Renderable{
		StageLayer: s.layerBrush,
		StageRect:  s.rectBrush,
		StageText:  s.textBrush,
	}
	s.stages = make([]*stage, numStages)
	for id, r := range renderables {
		t := s.opts.toggles[id]
		s.stages[id] = &stage{id: StageID(id), r: r, prepare: t.prepare, render: t.render}
	}
	s.stages[StageLayer].runnable = func() bool {
		return s.layout.BackgroundImage != nil
	}
	return nil
}

// applyMetrics copies the regular face metrics into the layout.
func (s *Sugarloaf) applyMetrics() {
	size := s.layout.FontSize
	if size <= 0 {
		size = DefaultFontSize
	}
	m := s.lib.Metrics(size)
	s.layout.SetMetrics(m.Advance/size, m.LineHeight()/size).Update()
}

func (s *Sugarloaf) log() *slog.Logger {
	if s.opts.logger != nil {
		return s.opts.logger
	}
	return Logger()
}

// Resize sets the surface size in physical pixels. Repeating the current
// size is a no-op. It never renders.
func (s *Sugarloaf) Resize(width, height int) *Sugarloaf {
	if width <= 0 || height <= 0 {
		s.log().Debug("sugarloaf: ignoring resize", "width", width, "height", height)
		return s
	}
	before := s.layout.geometry()
	s.ctx.Resize(width, height)
	s.layout.Resize(width, height).Update()
	s.geometryChanged(before)
	return s
}

// Rescale sets the device scale factor. It never renders.
func (s *Sugarloaf) Rescale(scale float32) *Sugarloaf {
	if scale <= 0 {
		s.log().Debug("sugarloaf: ignoring rescale", "scale", scale)
		return s
	}
	before := s.layout.geometry()
	s.ctx.SetScale(scale)
	s.layout.Rescale(scale).Update()
	s.geometryChanged(before)
	return s
}

// geometryChanged propagates a new size or scale to the stages and drops
// pending geometry computed against the old layout.
func (s *Sugarloaf) geometryChanged(before geometry) {
	if s.layout.geometry() == before {
		return
	}
	if n := len(s.rects); n > 0 {
		s.log().Debug("sugarloaf: discarding stale geometry", "rects", n, "spans", len(s.spans))
	}
	s.discard()
	for _, st := range s.stages {
		st.r.Resize(s.ctx)
	}
}

// SetBackgroundColor sets the clear color of the next frames.
func (s *Sugarloaf) SetBackgroundColor(c render.Color) *Sugarloaf {
	s.layout.BackgroundColor = c
	return s
}

// SetBackgroundImage sets the image drawn beneath everything else. nil
// removes it. The image is loaded during the next Render.
func (s *Sugarloaf) SetBackgroundImage(img *layer.Image) *Sugarloaf {
	s.layout.BackgroundImage = img
	return s
}

// PushRow merges row into runs and queues one span and its rects per run,
// then a line break. Rows are placed top to bottom in push order.
func (s *Sugarloaf) PushRow(row Stack) *Sugarloaf {
	rowY := s.layout.Padding[1] + float32(s.rows)*s.layout.LineHeightPx
	for _, r := range MergeRow(row) {
		s.spans = append(s.spans, spanFor(r))
		s.rects = s.layout.runRects(s.rects, r, rowY)
		s.runs++
	}
	s.spans = append(s.spans, text.LineBreak())
	s.rows++
	return s
}

// Stack is an alias of PushRow.
func (s *Sugarloaf) Stack(row Stack) *Sugarloaf {
	return s.PushRow(row)
}

// PushRects queues caller-supplied rects, such as a cursor highlight, after
// the rects pushed so far.
func (s *Sugarloaf) PushRects(rects ...Rect) *Sugarloaf {
	s.rects = append(s.rects, rects...)
	return s
}

// UpdateFont switches to new font families. Unchanged families are a no-op.
// Unresolved fonts use the fallback faces and are reported as *Errors.
// Pending geometry is discarded because cell metrics may change.
func (s *Sugarloaf) UpdateFont(families font.Families) error {
	if familiesEqual(s.families, families) {
		return nil
	}
	s.log().Info("sugarloaf: requested a font change")

	lib, missing := font.Load(families, s.db)
	s.families = families
	s.lib = lib
	s.textBrush.SetLibrary(lib)

	before := s.layout.geometry()
	s.applyMetrics()
	s.geometryChanged(before)

	if len(missing) > 0 {
		return &Errors{FontsNotFound: missing}
	}
	return nil
}

func familiesEqual(a, b font.Families) bool {
	return a.Regular == b.Regular &&
		a.Bold == b.Bold &&
		a.Italic == b.Italic &&
		a.BoldItalic == b.BoldItalic &&
		slices.Equal(a.Extras, b.Extras)
}

// SetStage enables or disables the prepare and render steps of a stage.
func (s *Sugarloaf) SetStage(id StageID, prepare, render bool) {
	if id >= numStages {
		return
	}
	st := s.stages[id]
	st.prepare, st.render = prepare, render
}

// Layout returns the current layout.
func (s *Sugarloaf) Layout() Layout {
	return s.layout
}

// Context returns the render context.
func (s *Sugarloaf) Context() *render.Context {
	return s.ctx
}

// Scale returns the device scale factor.
func (s *Sugarloaf) Scale() float32 {
	return s.ctx.Scale()
}

// Library returns the resolved font library.
func (s *Sugarloaf) Library() *font.Library {
	return s.lib
}

// Rects returns the pending rects.
func (s *Sugarloaf) Rects() []Rect {
	return s.rects
}

// Spans returns the pending spans.
func (s *Sugarloaf) Spans() []text.Span {
	return s.spans
}

// Rows returns the number of rows pushed since the last frame.
func (s *Sugarloaf) Rows() int {
	return s.rows
}

// State returns the state the last frame ended in.
func (s *Sugarloaf) State() FrameState {
	return s.state
}

// Frames returns the number of presented frames.
func (s *Sugarloaf) Frames() uint64 {
	return s.frames
}

// Close releases the stage pipelines and stops the glyph workers.
func (s *Sugarloaf) Close() {
	s.layerBrush.Destroy(s.ctx)
	s.rectBrush.Destroy(s.ctx)
	s.textBrush.Destroy(s.ctx)
}
