package sugarloaf

import (
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/gogpu/sugarloaf/render"
)

func TestMergeRowScenarios(t *testing.T) {
	a := Cell{Content: "a", Foreground: white, Background: black}
	x := Cell{Content: "x", Foreground: red, Background: black}
	y := Cell{Content: "y", Foreground: red, Background: black}
	decorated := a
	decorated.Decoration = Underline.WithColor(white)

	tests := []struct {
		name    string
		row     Stack
		quants  []int
		content []string
	}{
		{"empty", nil, nil, nil},
		{"single", Stack{a}, []int{1}, []string{"a"}},
		{"five identical", repeat(5, a), []int{5}, []string{"aaaaa"}},
		{"xx then y", Stack{x, x, y}, []int{2, 1}, []string{"xx", "y"}},
		{"all different", Stack{a, x, y}, []int{1, 1, 1}, []string{"a", "x", "y"}},
		{"decoration splits", Stack{a, a, decorated, a}, []int{2, 1, 1}, []string{"aa", "a", "a"}},
		{"adjacent decorations", Stack{decorated, decorated}, []int{1, 1}, []string{"a", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs := MergeRow(tt.row)
			if len(runs) != len(tt.quants) {
				t.Fatalf("MergeRow() = %d runs, want %d", len(runs), len(tt.quants))
			}
			for i, r := range runs {
				if r.Quantity != tt.quants[i] {
					t.Errorf("run %d Quantity = %d, want %d", i, r.Quantity, tt.quants[i])
				}
				if r.Content != tt.content[i] {
					t.Errorf("run %d Content = %q, want %q", i, r.Content, tt.content[i])
				}
			}
		})
	}
}

func TestMergeRowColumnsAndColors(t *testing.T) {
	bgA := Cell{Content: "a", Foreground: white, Background: black}
	bgB := Cell{Content: "a", Foreground: white, Background: red}
	runs := MergeRow(Stack{bgA, bgA, bgB})
	if len(runs) != 2 {
		t.Fatalf("background change should split runs, got %d", len(runs))
	}
	if runs[0].Column != 0 || runs[1].Column != 2 {
		t.Errorf("columns = %d, %d, want 0, 2", runs[0].Column, runs[1].Column)
	}
	if runs[1].Background != red || runs[0].Background != black {
		t.Error("run background should come from its own cells")
	}
}

func TestMergeRowStyleFromLastCell(t *testing.T) {
	bold := &Style{IsBold: true}
	c := Cell{Content: "b", Foreground: white, Style: bold}
	runs := MergeRow(repeat(3, c))
	if runs[0].Style != bold {
		t.Error("run should carry the cell style")
	}
}

func TestRunAccumulatorStates(t *testing.T) {
	var acc runAccumulator
	c := Cell{Content: "z", Foreground: red}

	if acc.state != runEmpty {
		t.Fatalf("initial state = %s", acc.state)
	}
	acc.extend(&c, 4)
	if acc.state != runAccumulating || acc.column != 4 {
		t.Errorf("after extend: state = %s column = %d", acc.state, acc.column)
	}
	acc.extend(&c, 5)
	acc.boundary(&c, 6)
	if acc.state != runFinalizePending {
		t.Errorf("after boundary: state = %s", acc.state)
	}
	r := acc.finalize(&c)
	if r.Quantity != 3 || r.Content != "zzz" || r.Column != 4 || r.Foreground != red {
		t.Errorf("finalize() = %+v", r)
	}
	if acc.state != runEmpty || acc.count != 0 || acc.content.Len() != 0 {
		t.Errorf("accumulator not reset: %s %d %q", acc.state, acc.count, acc.content.String())
	}

	// A lone boundary finalizes a run of one.
	acc.boundary(&c, 9)
	if r := acc.finalize(&c); r.Quantity != 1 || r.Column != 9 {
		t.Errorf("single finalize() = %+v", r)
	}
	if runState(9).String() != "Unknown" {
		t.Error("unknown runState should stringify as Unknown")
	}
}

var palette = []render.Color{render.White, render.Black, render.RGB(1, 0, 0)}

func drawCell(t *rapid.T, label string) Cell {
	c := Cell{
		Content:    string(rune('a' + rapid.IntRange(0, 2).Draw(t, label+"-content"))),
		Foreground: palette[rapid.IntRange(0, len(palette)-1).Draw(t, label+"-fg")],
		Background: palette[rapid.IntRange(0, len(palette)-1).Draw(t, label+"-bg")],
	}
	if rapid.IntRange(0, 4).Draw(t, label+"-decorated") == 0 {
		c.Decoration = Underline.WithColor(render.White)
	}
	return c
}

func drawRow(t *rapid.T) Stack {
	n := rapid.IntRange(0, 40).Draw(t, "len")
	row := make(Stack, n)
	for i := range row {
		row[i] = drawCell(t, "cell")
	}
	return row
}

func TestMergeRowProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		row := drawRow(t)
		runs := MergeRow(row)

		total := 0
		var content strings.Builder
		for i, r := range runs {
			if r.Quantity < 1 {
				t.Fatalf("run %d has Quantity %d", i, r.Quantity)
			}
			if r.Column != total {
				t.Fatalf("run %d Column = %d, want %d", i, r.Column, total)
			}
			for j := r.Column; j < r.Column+r.Quantity; j++ {
				if row[j].Decoration != nil && r.Quantity != 1 {
					t.Fatalf("decorated cell %d merged into run of %d", j, r.Quantity)
				}
				if row[j].Content != row[r.Column].Content {
					t.Fatalf("run %d mixes content", i)
				}
			}
			// Adjacent runs must not be mergeable.
			if i > 0 {
				prev := &row[total-1]
				if prev.mergeable(&row[total]) {
					t.Fatalf("runs %d and %d should have merged", i-1, i)
				}
			}
			content.WriteString(r.Content)
			total += r.Quantity
		}
		if total != len(row) {
			t.Fatalf("runs cover %d cells, row has %d", total, len(row))
		}

		var want strings.Builder
		for _, c := range row {
			want.WriteString(c.Content)
		}
		if content.String() != want.String() {
			t.Fatalf("run content %q, want %q", content.String(), want.String())
		}
	})
}

func TestMergeRowIdenticalPrefix(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		k := rapid.IntRange(0, 30).Draw(t, "k")
		c := drawCell(t, "prefix")
		c.Decoration = nil
		row := repeat(k+1, c)
		// A differing tail cell must not change the prefix run.
		row = append(row, Cell{Content: "#", Foreground: c.Foreground, Background: c.Background})

		runs := MergeRow(row)
		if runs[0].Quantity != k+1 {
			t.Fatalf("prefix run Quantity = %d, want %d", runs[0].Quantity, k+1)
		}
		if runs[0].Content != strings.Repeat(c.Content, k+1) {
			t.Fatalf("prefix run Content = %q", runs[0].Content)
		}

		l := DefaultLayout(800, 600, 1)
		rects := l.runRects(nil, runs[0], 0)
		if rects[0].Size[0] != float32(k+1)*l.SugarWidth {
			t.Fatalf("rect width = %v, want %v", rects[0].Size[0], float32(k+1)*l.SugarWidth)
		}
	})
}

func TestMergeRowDecorationIsolation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := drawCell(t, "base")
		c.Decoration = nil
		d := c
		d.Decoration = Block.WithColor(render.White)

		row := Stack{c, d}
		if rapid.Bool().Draw(t, "swap") {
			row = Stack{d, c}
		}
		runs := MergeRow(row)
		if len(runs) != 2 || runs[0].Quantity != 1 || runs[1].Quantity != 1 {
			t.Fatalf("MergeRow() = %+v, want two runs of one", runs)
		}
	})
}

func TestCellsFromString(t *testing.T) {
	row := CellsFromString("ab日é", white, black)
	want := []string{"a", "b", "日", "", "é"}
	if len(row) != len(want) {
		t.Fatalf("CellsFromString() = %d cells, want %d", len(row), len(want))
	}
	for i, c := range row {
		if c.Content != want[i] {
			t.Errorf("cell %d = %q, want %q", i, c.Content, want[i])
		}
		if c.Foreground != white || c.Background != black {
			t.Errorf("cell %d colors = %v/%v", i, c.Foreground, c.Background)
		}
	}

	// e + combining acute accent is one cluster.
	if got := CellsFromString("e\u0301", white, black); len(got) != 1 {
		t.Errorf("combining sequence split into %d cells", len(got))
	}
	if got := CellsFromString("", white, black); len(got) != 0 {
		t.Errorf("empty string produced %d cells", len(got))
	}
}
