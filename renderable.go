package sugarloaf

import (
	"strconv"

	"github.com/gogpu/sugarloaf/render"
)

// Renderable is a batch renderer driven once per frame. Prepare uploads the
// batch, Render records its draw commands. Either step may be disabled per
// stage.
type Renderable interface {
	// Resize is called after the context size or scale changed.
	Resize(ctx *render.Context)

	// Prepare builds the batch for the next Render.
	Prepare(ctx *render.Context) error

	// Render records the prepared batch.
	Render(enc render.Encoder, target render.RenderTarget, vp render.Viewport) error
}

// Trimmer is implemented by renderables with caches that are trimmed once
// per completed frame.
type Trimmer interface {
	Trim()
}

// StageID names a frame stage.
type StageID uint8

// Stages in draw order.
const (
	StageLayer StageID = iota
	StageRect
	StageText
	numStages
)

var stageNames = [...]string{
	StageLayer: "layer",
	StageRect:  "rect",
	StageText:  "text",
}

// String returns the stage name.
func (id StageID) String() string {
	if int(id) < len(stageNames) {
		return stageNames[id]
	}
	return "StageID(" + strconv.Itoa(int(id)) + ")"
}

// stage is one entry of the frame pipeline.
type stage struct {
	id       StageID
	r        Renderable
	prepare  bool
	render   bool
	runnable func() bool
}

func (st *stage) active() bool {
	return st.runnable == nil || st.runnable()
}
