package sugarloaf

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	ctext "github.com/gogpu/sugarloaf/components/text"
	"github.com/gogpu/sugarloaf/render"
)

// FrameState is the state of the frame state machine.
type FrameState uint8

// Frame states. A frame ends in StatePresented or StateDropped.
const (
	StateIdle FrameState = iota
	StateAcquiring
	StateCompositing
	StateSubmitted
	StatePresented
	StateDropped
)

var frameStateNames = [...]string{
	StateIdle:        "Idle",
	StateAcquiring:   "Acquiring",
	StateCompositing: "Compositing",
	StateSubmitted:   "Submitted",
	StatePresented:   "Presented",
	StateDropped:     "Dropped",
}

// String returns the state name.
func (s FrameState) String() string {
	if int(s) < len(frameStateNames) {
		return frameStateNames[s]
	}
	return "FrameState(" + strconv.Itoa(int(s)) + ")"
}

// Span attribute keys.
const (
	attrRows       = "sugarloaf.rows"
	attrRuns       = "sugarloaf.runs"
	attrRects      = "sugarloaf.rects"
	attrSpans      = "sugarloaf.spans"
	attrFrameState = "sugarloaf.frame.state"
)

// Render draws one frame from the pending rows and rects and drains them.
//
// Recoverable surface errors drop the frame. Fatal device errors are passed
// to the fatal handler. Errors never reach the caller; the returned state
// tells whether the frame was presented.
func (s *Sugarloaf) Render(ctx context.Context) FrameState {
	_, span := s.tracer.Start(ctx, "sugarloaf.Render",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.Int(attrRows, s.rows),
			attribute.Int(attrRuns, s.runs),
			attribute.Int(attrRects, len(s.rects)),
			attribute.Int(attrSpans, len(s.spans)),
		),
	)
	defer span.End()

	state, err := s.frame()
	span.SetAttributes(attribute.String(attrFrameState, state.String()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	return state
}

// frame runs the state machine. Every exit leaves the pending state empty.
func (s *Sugarloaf) frame() (FrameState, error) {
	s.state = StateAcquiring
	dev := s.ctx.Device()

	frame, err := dev.Acquire()
	if err != nil {
		return s.drop(fmt.Errorf("acquire: %w", err)), err
	}

	s.state = StateCompositing
	target := frame.Target()
	enc := dev.CreateEncoder("sugarloaf::render")
	enc.Clear(target, s.layout.BackgroundColor)

	s.layerBrush.SetImage(s.layout.BackgroundImage)
	s.rectBrush.SetRects(s.rects)
	s.textBrush.SetSpans(s.spans)
	s.textBrush.SetLayout(s.textLayout())

	vp := s.ctx.Size()
	for _, st := range s.stages {
		if err := s.runStage(st, enc, target, vp); err != nil {
			// Abandoned wholesale: nothing recorded so far is submitted.
			enc.Finish()
			frame.Discard()
			s.reclaimStaging()
			return s.drop(err), err
		}
	}

	buf := enc.Finish()
	s.ctx.Staging().Finish()
	if err := dev.Submit(buf); err != nil {
		frame.Discard()
		s.ctx.Staging().Recall()
		return s.drop(fmt.Errorf("submit: %w", err)), err
	}
	s.state = StateSubmitted

	frame.Present()
	s.ctx.Staging().Recall()
	s.state = StatePresented
	s.frames++

	s.log().Debug("sugarloaf: frame presented",
		"frame", s.frames, "rows", s.rows, "rects", len(s.rects),
		"spans", len(s.spans), "commands", buf.Len())
	s.cleanup()
	return s.state, nil
}

func (s *Sugarloaf) runStage(st *stage, enc render.Encoder, target render.RenderTarget, vp render.Viewport) error {
	if !st.active() {
		return nil
	}
	if st.prepare {
		if err := st.r.Prepare(s.ctx); err != nil {
			return fmt.Errorf("%s stage prepare: %w", st.id, err)
		}
	}
	if st.render {
		if err := st.r.Render(enc, target, vp); err != nil {
			return fmt.Errorf("%s stage render: %w", st.id, err)
		}
	}
	return nil
}

// drop ends the frame without presenting it. Fatal device errors go to the
// fatal handler; everything else is logged.
func (s *Sugarloaf) drop(err error) FrameState {
	s.discard()
	s.state = StateDropped
	if render.IsFatal(err) {
		s.log().Error("sugarloaf: fatal device error", "err", err)
		s.opts.fatal(err)
		return s.state
	}
	msg := "sugarloaf: frame dropped"
	if errors.Is(err, render.ErrSurfaceOutdated) || errors.Is(err, render.ErrSurfaceLost) {
		msg = "sugarloaf: frame dropped, surface needs reconfiguration"
	}
	s.log().Warn(msg, "err", err)
	return s.state
}

// cleanup runs once per presented frame: it drains the pending state and
// lets stage caches trim.
func (s *Sugarloaf) cleanup() {
	s.discard()
	for _, st := range s.stages {
		if t, ok := st.r.(Trimmer); ok {
			t.Trim()
		}
	}
}

// discard drops pending rects, spans and the row cursor.
func (s *Sugarloaf) discard() {
	s.rects = s.rects[:0]
	s.spans = s.spans[:0]
	s.rows = 0
	s.runs = 0
}

func (s *Sugarloaf) reclaimStaging() {
	s.ctx.Staging().Finish()
	s.ctx.Staging().Recall()
}

// Clear presents a frame holding only the background color. Pending rows
// are kept for the next Render.
func (s *Sugarloaf) Clear(ctx context.Context) FrameState {
	_, span := s.tracer.Start(ctx, "sugarloaf.Clear")
	defer span.End()

	dev := s.ctx.Device()
	frame, err := dev.Acquire()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if render.IsFatal(err) {
			s.log().Error("sugarloaf: fatal device error", "err", err)
			s.opts.fatal(err)
		} else {
			s.log().Warn("sugarloaf: clear dropped", "err", err)
		}
		return StateDropped
	}

	enc := dev.CreateEncoder("sugarloaf::clear")
	enc.Clear(frame.Target(), s.layout.BackgroundColor)
	s.ctx.Staging().Finish()
	if err := dev.Submit(enc.Finish()); err != nil {
		frame.Discard()
		s.ctx.Staging().Recall()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.log().Warn("sugarloaf: clear dropped", "err", err)
		return StateDropped
	}
	frame.Present()
	s.ctx.Staging().Recall()
	span.SetStatus(codes.Ok, "")
	return StatePresented
}

// textLayout places text at the padding, one line per pushed row.
func (s *Sugarloaf) textLayout() ctext.Layout {
	return ctext.Layout{
		Origin:     s.layout.Padding,
		FontSize:   s.layout.FontSize,
		LineHeight: s.layout.LineHeightPx,
	}
}
