package sugarloaf

import (
	"strings"

	"github.com/gogpu/sugarloaf/render"
)

// Run is a maximal sequence of adjacent cells that render identically.
type Run struct {
	// Content is the concatenated content of the run's cells.
	Content string
	// Quantity is the number of cells, at least 1.
	Quantity int
	// Column is the index of the run's first cell.
	Column     int
	Foreground render.Color
	// Background, Style and Decoration come from the cell that ended the run.
	Background render.Color
	Style      *Style
	Decoration *Decoration
}

// runState is the accumulator state of the merger.
type runState uint8

const (
	// runEmpty holds no cells.
	runEmpty runState = iota
	// runAccumulating holds cells that merge with the next one.
	runAccumulating
	// runFinalizePending holds a run whose last cell has been seen.
	runFinalizePending
)

func (s runState) String() string {
	switch s {
	case runEmpty:
		return "Empty"
	case runAccumulating:
		return "Accumulating"
	case runFinalizePending:
		return "FinalizePending"
	default:
		return "Unknown"
	}
}

// runAccumulator folds cells into a run.
type runAccumulator struct {
	state      runState
	content    strings.Builder
	foreground render.Color
	count      int
	column     int
}

// extend adds a cell that merges with its successor.
func (a *runAccumulator) extend(c *Cell, column int) {
	if a.state == runEmpty {
		a.column = column
		a.foreground = c.Foreground
	}
	a.content.WriteString(c.Content)
	a.count++
	a.state = runAccumulating
}

// boundary adds the cell that ends the current run.
func (a *runAccumulator) boundary(c *Cell, column int) {
	if a.state == runEmpty {
		a.column = column
		a.foreground = c.Foreground
	}
	a.content.WriteString(c.Content)
	a.count++
	a.state = runFinalizePending
}

// finalize builds the run ended by last and resets the accumulator.
func (a *runAccumulator) finalize(last *Cell) Run {
	quantity := max(a.count, 1)
	r := Run{
		Quantity:   quantity,
		Column:     a.column,
		Background: last.Background,
		Style:      last.Style,
		Decoration: last.Decoration,
	}
	if quantity > 1 {
		r.Content = a.content.String()
		r.Foreground = a.foreground
	} else {
		r.Content = last.Content
		r.Foreground = last.Foreground
	}
	a.reset()
	return r
}

func (a *runAccumulator) reset() {
	a.state = runEmpty
	a.content.Reset()
	a.count = 0
	a.column = 0
}

// MergeRow folds row into runs in one left-to-right pass. Cells i and i+1
// share a run iff their content, foreground and background are equal and
// neither carries a decoration.
func MergeRow(row Stack) []Run {
	if len(row) == 0 {
		return nil
	}
	runs := make([]Run, 0, len(row))
	var acc runAccumulator
	for i := range row {
		cell := &row[i]
		if i < len(row)-1 && cell.mergeable(&row[i+1]) {
			acc.extend(cell, i)
			continue
		}
		acc.boundary(cell, i)
		runs = append(runs, acc.finalize(cell))
	}
	return runs
}
