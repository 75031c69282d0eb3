package sugarloaf

import (
	"testing"

	"github.com/gogpu/sugarloaf/font"
	"github.com/gogpu/sugarloaf/render"
)

var (
	white = render.White
	black = render.Black
	red   = render.RGB(1, 0, 0)
)

func newTestDevice() *render.SoftwareDevice {
	return render.NewSoftwareDevice(1, 1)
}

func newTestSugarloafOn(t *testing.T, dev render.Device, opts ...Option) *Sugarloaf {
	t.Helper()
	s, err := New(dev, DefaultLayout(320, 200, 1), font.DefaultFamilies(), opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func newTestSugarloaf(t *testing.T, opts ...Option) *Sugarloaf {
	t.Helper()
	return newTestSugarloafOn(t, newTestDevice(), opts...)
}

func repeat(n int, c Cell) Stack {
	row := make(Stack, n)
	for i := range row {
		row[i] = c
	}
	return row
}
