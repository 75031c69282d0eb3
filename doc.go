// Package sugarloaf composites rows of styled terminal cells into frames.
//
// # Overview
//
// Each frame the caller pushes rows of cells with PushRow. Every row is folded
// into runs of adjacent cells that render identically; each run becomes one
// text span for the shaper and one background rectangle, plus one overlay
// rectangle when the cell carries a decoration (underline, strikethrough,
// cursor block). Render then draws one frame:
//
//	acquire surface → clear → background image → rects → text → submit → present
//
// and drains the pending rects and spans so nothing leaks into the next frame.
//
// # Quick Start
//
//	dev := render.NewSoftwareDevice(800, 600)
//	s, err := sugarloaf.New(dev, sugarloaf.DefaultLayout(800, 600, 1), font.DefaultFamilies())
//	if err != nil {
//		var fontErr *sugarloaf.Errors
//		if !errors.As(err, &fontErr) {
//			log.Fatal(err)
//		}
//		// Missing fonts fell back to the embedded Go Mono faces.
//	}
//	s.PushRow(sugarloaf.CellsFromString("hello", render.White, render.Black))
//	s.Render(context.Background())
//
// # Frames
//
// Render never returns an error. Recoverable surface errors drop the frame
// and are logged. Device loss and out-of-memory are fatal and handed to the
// fatal handler, which panics unless WithFatalHandler installs another one.
//
// # Concurrency
//
// A Sugarloaf is owned by one goroutine. Resize, Rescale and the push
// methods must not run concurrently with Render.
//
// # Logging
//
// Logging is silent by default. Use SetLogger or WithLogger to enable it.
package sugarloaf
