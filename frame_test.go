package sugarloaf

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/gogpu/sugarloaf/components/layer"
	"github.com/gogpu/sugarloaf/render"
)

var blank = Cell{Content: " ", Foreground: white, Background: red}

func isRed(c color.RGBA) bool {
	return c.R > 200 && c.G < 50 && c.B < 50
}

func isBlack(c color.RGBA) bool {
	return c.R < 10 && c.G < 10 && c.B < 10
}

func TestFrameStateString(t *testing.T) {
	tests := []struct {
		state FrameState
		want  string
	}{
		{StateIdle, "Idle"},
		{StateAcquiring, "Acquiring"},
		{StateCompositing, "Compositing"},
		{StateSubmitted, "Submitted"},
		{StatePresented, "Presented"},
		{StateDropped, "Dropped"},
		{FrameState(99), "FrameState(99)"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("FrameState(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestRenderPresents(t *testing.T) {
	dev := newTestDevice()
	s := newTestSugarloafOn(t, dev)
	s.PushRow(repeat(3, blank))

	if got := s.Render(context.Background()); got != StatePresented {
		t.Fatalf("Render() = %s, want Presented", got)
	}
	if s.State() != StatePresented || s.Frames() != 1 {
		t.Errorf("State() = %s, Frames() = %d", s.State(), s.Frames())
	}
	if len(s.Rects()) != 0 || len(s.Spans()) != 0 || s.Rows() != 0 {
		t.Errorf("pending state not drained: %d rects, %d spans, %d rows",
			len(s.Rects()), len(s.Spans()), s.Rows())
	}

	st := dev.Stats()
	if st.Acquired != 1 || st.Submitted != 1 || st.Presented != 1 {
		t.Errorf("device stats = %+v", st)
	}
	if got := s.Context().Staging().Stats(); got.InFlight != 0 || got.Active != 0 {
		t.Errorf("staging not recalled: %+v", got)
	}

	img := dev.Image()
	if c := img.RGBAAt(12, 12); !isRed(c) {
		t.Errorf("cell pixel = %v, want red background", c)
	}
	if c := img.RGBAAt(300, 190); !isBlack(c) {
		t.Errorf("background pixel = %v, want clear color", c)
	}
}

func TestRenderEmptyFrame(t *testing.T) {
	dev := newTestDevice()
	s := newTestSugarloafOn(t, dev)
	s.SetBackgroundColor(red)

	if got := s.Render(context.Background()); got != StatePresented {
		t.Fatalf("Render() = %s", got)
	}
	if c := dev.Image().RGBAAt(5, 5); !isRed(c) {
		t.Errorf("pixel = %v, want background color", c)
	}
}

func TestRenderDropsOnSurfaceError(t *testing.T) {
	for _, err := range []error{render.ErrSurfaceTimeout, render.ErrSurfaceOutdated, render.ErrSurfaceLost, errors.New("other")} {
		t.Run(err.Error(), func(t *testing.T) {
			dev := newTestDevice()
			s := newTestSugarloafOn(t, dev, WithFatalHandler(func(err error) {
				t.Errorf("fatal handler called for %v", err)
			}))
			s.PushRow(repeat(3, blank))
			dev.FailNextAcquire(err)

			if got := s.Render(context.Background()); got != StateDropped {
				t.Fatalf("Render() = %s, want Dropped", got)
			}
			if dev.Stats().Submitted != 0 {
				t.Error("dropped frame submitted work")
			}
			if len(s.Rects()) != 0 || s.Rows() != 0 {
				t.Error("dropped frame kept pending state")
			}
			if s.Frames() != 0 {
				t.Errorf("Frames() = %d", s.Frames())
			}

			// The next tick proceeds normally.
			if got := s.Render(context.Background()); got != StatePresented {
				t.Errorf("next Render() = %s, want Presented", got)
			}
		})
	}
}

func TestRenderFatal(t *testing.T) {
	for _, fatal := range []error{render.ErrOutOfMemory, render.ErrDeviceLost} {
		t.Run(fatal.Error(), func(t *testing.T) {
			var got error
			dev := newTestDevice()
			s := newTestSugarloafOn(t, dev, WithFatalHandler(func(err error) { got = err }))
			dev.FailNextAcquire(fatal)

			if state := s.Render(context.Background()); state != StateDropped {
				t.Errorf("Render() = %s, want Dropped", state)
			}
			if !errors.Is(got, fatal) {
				t.Errorf("fatal handler got %v, want %v", got, fatal)
			}
		})
	}
}

func TestRenderFatalPanicsByDefault(t *testing.T) {
	dev := newTestDevice()
	s := newTestSugarloafOn(t, dev)
	dev.FailNextAcquire(render.ErrOutOfMemory)

	defer func() {
		if recover() == nil {
			t.Error("Render() did not panic on a fatal error")
		}
	}()
	s.Render(context.Background())
}

type failingStage struct {
	err error
}

func (f *failingStage) Resize(*render.Context)          {}
func (f *failingStage) Prepare(*render.Context) error { return f.err }
func (f *failingStage) Render(render.Encoder, render.RenderTarget, render.Viewport) error {
	return nil
}

func TestRenderStageErrorAbandonsFrame(t *testing.T) {
	dev := newTestDevice()
	s := newTestSugarloafOn(t, dev)
	s.stages[StageText].r = &failingStage{err: errors.New("broken")}
	s.PushRow(repeat(2, blank))

	if got := s.Render(context.Background()); got != StateDropped {
		t.Fatalf("Render() = %s, want Dropped", got)
	}
	if dev.Stats().Submitted != 0 {
		t.Error("abandoned frame was submitted")
	}
	if got := s.Context().Staging().Stats(); got.Active != 0 || got.InFlight != 0 {
		t.Errorf("staging leaked: %+v", got)
	}
	if len(s.Rects()) != 0 {
		t.Error("abandoned frame kept rects")
	}
	if got := dev.Stats(); got.Discarded != 1 || got.Presented != 0 {
		t.Errorf("frame stats = %+v, want one discarded frame", got)
	}
}

func TestRenderStageToggles(t *testing.T) {
	t.Run("rect render disabled", func(t *testing.T) {
		dev := newTestDevice()
		s := newTestSugarloafOn(t, dev, WithStage(StageRect, true, false))
		s.PushRow(repeat(3, blank))
		s.Render(context.Background())
		if c := dev.Image().RGBAAt(12, 12); !isBlack(c) {
			t.Errorf("pixel = %v, rect stage should not draw", c)
		}
	})

	t.Run("rect disabled at runtime", func(t *testing.T) {
		dev := newTestDevice()
		s := newTestSugarloafOn(t, dev)
		s.SetStage(StageRect, false, false)
		s.SetStage(StageID(7), false, false)
		s.PushRow(repeat(3, blank))
		s.Render(context.Background())
		if s.rectBrush.Instances() != nil {
			t.Error("rect brush prepared instances while disabled")
		}
		if c := dev.Image().RGBAAt(12, 12); !isBlack(c) {
			t.Errorf("pixel = %v, rect stage should not draw", c)
		}
	})

	t.Run("rect prepare disabled, render enabled", func(t *testing.T) {
		dev := newTestDevice()
		s := newTestSugarloafOn(t, dev)
		s.PushRow(repeat(3, blank))
		s.Render(context.Background())
		if c := dev.Image().RGBAAt(12, 12); !isRed(c) {
			t.Fatalf("pixel = %v, want red after first frame", c)
		}

		s.SetStage(StageRect, false, true)
		if got := s.Render(context.Background()); got != StatePresented {
			t.Fatalf("Render() = %s, want Presented", got)
		}
		if c := dev.Image().RGBAAt(12, 12); !isBlack(c) {
			t.Errorf("pixel = %v, previous frame's rects were redrawn", c)
		}
	})

	t.Run("text prepare disabled, render enabled", func(t *testing.T) {
		dev := newTestDevice()
		s := newTestSugarloafOn(t, dev)
		s.PushRow(CellsFromString("hello", white, black))
		s.Render(context.Background())
		if s.textBrush.Len() == 0 {
			t.Fatal("text brush did not prepare glyphs")
		}

		s.SetStage(StageText, false, true)
		s.Render(context.Background())
		if n := s.textBrush.Len(); n != 0 {
			t.Errorf("text brush holds %d glyphs from the previous frame", n)
		}
	})

	t.Run("text prepare only", func(t *testing.T) {
		dev := newTestDevice()
		s := newTestSugarloafOn(t, dev, WithStage(StageText, true, false))
		s.PushRow(CellsFromString("hello", white, black))
		s.Render(context.Background())
		if s.textBrush.Len() == 0 {
			t.Error("text brush did not prepare glyphs")
		}
		if c := dev.Image().RGBAAt(14, 20); !isBlack(c) {
			t.Errorf("pixel = %v, text should not be drawn", c)
		}
	})
}

func TestRenderDrawsText(t *testing.T) {
	dev := newTestDevice()
	s := newTestSugarloafOn(t, dev)
	s.PushRow(CellsFromString("MMMM", white, black))
	s.Render(context.Background())

	img := dev.Image()
	lit := 0
	l := s.Layout()
	for y := int(l.Padding[1]); y < int(l.Padding[1]+l.LineHeightPx); y++ {
		for x := int(l.Padding[0]); x < int(l.Padding[0]+4*l.SugarWidth); x++ {
			if img.RGBAAt(x, y).R > 128 {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Error("no glyph pixels drawn in the first row")
	}
}

func writePNG(t *testing.T, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := range 4 {
		for x := range 4 {
			img.Set(x, y, c)
		}
	}
	path := filepath.Join(t.TempDir(), "bg.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRenderLayerStage(t *testing.T) {
	dev := newTestDevice()
	s := newTestSugarloafOn(t, dev)

	s.Render(context.Background())
	if c := dev.Image().RGBAAt(300, 190); !isBlack(c) {
		t.Fatalf("pixel = %v without a background image", c)
	}

	s.SetBackgroundImage(&layer.Image{Path: writePNG(t, color.RGBA{R: 255, A: 255})})
	if got := s.Render(context.Background()); got != StatePresented {
		t.Fatalf("Render() = %s", got)
	}
	if c := dev.Image().RGBAAt(300, 190); !isRed(c) {
		t.Errorf("pixel = %v, want background image", c)
	}

	s.SetBackgroundImage(&layer.Image{Path: filepath.Join(t.TempDir(), "missing.png")})
	if got := s.Render(context.Background()); got != StateDropped {
		t.Errorf("Render() with a missing image = %s, want Dropped", got)
	}
}

func TestResizeDiscardsPendingGeometry(t *testing.T) {
	s := newTestSugarloaf(t)
	s.PushRow(repeat(3, blank))
	s.Resize(320, 200)
	if len(s.Rects()) == 0 {
		t.Fatal("same-size Resize discarded rects")
	}

	s.Resize(640, 400)
	if len(s.Rects()) != 0 || len(s.Spans()) != 0 || s.Rows() != 0 {
		t.Error("Resize kept rects computed for the old size")
	}

	s.PushRow(repeat(3, blank)).Rescale(2)
	if len(s.Rects()) != 0 {
		t.Error("Rescale kept rects computed for the old scale")
	}
}

func TestRenderTrimsAtlas(t *testing.T) {
	s := newTestSugarloaf(t, WithAtlasFrameLifetime(1))
	s.PushRow(CellsFromString("abc", white, black))
	s.Render(context.Background())

	atlas := s.textBrush.Atlas()
	if atlas.Frame() != 1 {
		t.Errorf("atlas Frame() = %d after one frame, want 1", atlas.Frame())
	}
	if atlas.Len() == 0 {
		t.Fatal("atlas empty after drawing text")
	}

	// Frames without text age the cached glyphs out.
	s.Render(context.Background())
	s.Render(context.Background())
	s.Render(context.Background())
	if atlas.Len() != 0 {
		t.Errorf("atlas Len() = %d, want glyphs evicted", atlas.Len())
	}
}

func TestClear(t *testing.T) {
	dev := newTestDevice()
	s := newTestSugarloafOn(t, dev)
	s.PushRow(repeat(3, blank))
	s.SetBackgroundColor(red)

	if got := s.Clear(context.Background()); got != StatePresented {
		t.Fatalf("Clear() = %s", got)
	}
	if c := dev.Image().RGBAAt(300, 190); !isRed(c) {
		t.Errorf("pixel = %v, want clear color", c)
	}
	if len(s.Rects()) == 0 {
		t.Error("Clear discarded pending rows")
	}

	dev.FailNextAcquire(render.ErrSurfaceTimeout)
	if got := s.Clear(context.Background()); got != StateDropped {
		t.Errorf("Clear() = %s, want Dropped", got)
	}
}

func TestRenderTracing(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	dev := newTestDevice()
	s := newTestSugarloafOn(t, dev, WithTracer(provider.Tracer("test")), WithFatalHandler(func(error) {}))
	s.PushRow(repeat(3, blank)).PushRow(Stack{blank})
	s.Render(context.Background())

	dev.FailNextAcquire(render.ErrOutOfMemory)
	s.Render(context.Background())

	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2", len(spans))
	}

	ok := spans[0]
	if ok.Name != "sugarloaf.Render" {
		t.Errorf("span name = %q", ok.Name)
	}
	if ok.Status.Code != codes.Ok {
		t.Errorf("status = %v, want Ok", ok.Status.Code)
	}
	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range ok.Attributes {
		attrs[kv.Key] = kv.Value
	}
	if got := attrs[attrRows].AsInt64(); got != 2 {
		t.Errorf("%s = %d, want 2", attrRows, got)
	}
	if got := attrs[attrRuns].AsInt64(); got != 2 {
		t.Errorf("%s = %d, want 2", attrRuns, got)
	}
	if got := attrs[attrFrameState].AsString(); got != "Presented" {
		t.Errorf("%s = %q", attrFrameState, got)
	}

	failed := spans[1]
	if failed.Status.Code != codes.Error {
		t.Errorf("failed frame status = %v, want Error", failed.Status.Code)
	}
}
