package sugarloaf

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/sugarloaf/font"
	"github.com/gogpu/sugarloaf/render"
)

func TestNew(t *testing.T) {
	s := newTestSugarloaf(t)
	if s.State() != StateIdle {
		t.Errorf("State() = %s, want Idle", s.State())
	}
	if s.Library().Len() != font.IDExtra {
		t.Errorf("Library().Len() = %d, want %d", s.Library().Len(), font.IDExtra)
	}
	if got := s.Context().Size(); got.Width != 320 || got.Height != 200 {
		t.Errorf("context size = %+v", got)
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New(nil, DefaultLayout(10, 10, 1), font.DefaultFamilies()); !errors.Is(err, render.ErrNilDevice) {
		t.Errorf("New(nil) error = %v, want ErrNilDevice", err)
	}
	if _, err := New(newTestDevice(), DefaultLayout(0, 10, 1), font.DefaultFamilies()); !errors.Is(err, render.ErrInvalidDimensions) {
		t.Errorf("New(0x10) error = %v, want ErrInvalidDimensions", err)
	}
}

func TestNewMissingFonts(t *testing.T) {
	families := font.Families{Regular: font.Font{Family: "No Such Family"}}
	s, err := New(newTestDevice(), DefaultLayout(320, 200, 1), families)
	var fe *Errors
	if !errors.As(err, &fe) {
		t.Fatalf("New() error = %v, want *Errors", err)
	}
	if s == nil {
		t.Fatal("New() returned nil instance with font errors")
	}
	t.Cleanup(s.Close)

	if len(fe.FontsNotFound) != 4 {
		t.Errorf("FontsNotFound = %v, want 4 slots", fe.FontsNotFound)
	}
	if !strings.Contains(fe.Error(), "No Such Family") {
		t.Errorf("Error() = %q", fe.Error())
	}

	// Fallback faces keep the instance usable.
	s.PushRow(CellsFromString("ok", white, black))
	if got := s.Render(context.Background()); got != StatePresented {
		t.Errorf("Render() = %s, want Presented", got)
	}
}

func TestUpdateFont(t *testing.T) {
	s := newTestSugarloaf(t)
	lib := s.Library()

	s.PushRow(repeat(2, blank))
	if err := s.UpdateFont(font.DefaultFamilies()); err != nil {
		t.Fatalf("UpdateFont(same) error = %v", err)
	}
	if s.Library() != lib {
		t.Error("UpdateFont with equal families reloaded the library")
	}
	if len(s.Rects()) == 0 {
		t.Error("no-op UpdateFont discarded rects")
	}

	missing := font.Families{Regular: font.Font{Family: "Missing"}}
	err := s.UpdateFont(missing)
	var fe *Errors
	if !errors.As(err, &fe) {
		t.Fatalf("UpdateFont(missing) error = %v, want *Errors", err)
	}
	if s.Library() == lib {
		t.Error("UpdateFont did not switch libraries")
	}
	if s.textBrush.Atlas().Len() != 0 {
		t.Error("font change kept stale glyphs")
	}
	if got := s.Render(context.Background()); got != StatePresented {
		t.Errorf("Render() after UpdateFont = %s", got)
	}
}

func TestFamiliesEqual(t *testing.T) {
	a := font.DefaultFamilies()
	b := font.DefaultFamilies()
	if !familiesEqual(a, b) {
		t.Error("default families should be equal")
	}
	b.Extras = []font.Font{{Family: "Extra"}}
	if familiesEqual(a, b) {
		t.Error("extras must be compared")
	}
	b = font.DefaultFamilies()
	b.Bold.Family = "Other"
	if familiesEqual(a, b) {
		t.Error("bold family must be compared")
	}
}

func TestStageIDString(t *testing.T) {
	if StageLayer.String() != "layer" || StageRect.String() != "rect" || StageText.String() != "text" {
		t.Error("unexpected stage names")
	}
	if got := StageID(9).String(); got != "StageID(9)" {
		t.Errorf("StageID(9).String() = %q", got)
	}
}

func TestMultipleFrames(t *testing.T) {
	dev := newTestDevice()
	s := newTestSugarloafOn(t, dev)
	for i := range 5 {
		s.PushRow(CellsFromString("frame", white, black))
		if got := s.Render(context.Background()); got != StatePresented {
			t.Fatalf("frame %d: Render() = %s", i, got)
		}
	}
	if s.Frames() != 5 {
		t.Errorf("Frames() = %d, want 5", s.Frames())
	}
	if got := s.Context().Staging().Stats(); got.Allocated > 2 {
		t.Errorf("staging allocated %d chunks across frames, want reuse", got.Allocated)
	}
}
