package main

import (
	"github.com/gogpu/sugarloaf"
	"github.com/gogpu/sugarloaf/render"
)

var (
	fg      = render.MustParseColor("#c5c8c6")
	bg      = render.MustParseColor("#1d1f21")
	accent  = render.MustParseColor("#81a2be")
	warning = render.MustParseColor("#de935f")
)

// pushDemo queues one screen of sample rows.
func pushDemo(s *sugarloaf.Sugarloaf, title string) {
	s.PushRow(sugarloaf.CellsFromString(title, fg, bg))
	s.PushRow(nil)

	styled := func(text string, style *sugarloaf.Style, c render.Color) sugarloaf.Stack {
		row := sugarloaf.CellsFromString(text, c, bg)
		for i := range row {
			row[i].Style = style
		}
		return row
	}
	s.PushRow(styled("bold text", &sugarloaf.Style{IsBold: true}, accent))
	s.PushRow(styled("italic text", &sugarloaf.Style{IsItalic: true}, accent))
	s.PushRow(styled("bold italic text", &sugarloaf.Style{IsBoldItalic: true}, warning))

	underlined := sugarloaf.CellsFromString("underlined", fg, bg)
	for i := range underlined {
		underlined[i].Decoration = sugarloaf.Underline.WithColor(accent)
	}
	s.PushRow(underlined)

	// Runs of identical cells merge into one rect.
	s.PushRow(sugarloaf.Stack{
		{Content: " ", Background: accent},
		{Content: " ", Background: accent},
		{Content: " ", Background: accent},
		{Content: " ", Background: warning},
		{Content: " ", Background: warning},
	})

	wide := sugarloaf.CellsFromString("wide: 日本語", fg, bg)
	s.PushRow(wide)

	cursor := sugarloaf.CellsFromString("$ ", fg, bg)
	cursor = append(cursor, sugarloaf.Cell{Content: " ", Foreground: bg, Background: fg,
		Decoration: sugarloaf.Beam.WithColor(warning)})
	s.PushRow(cursor)
}
