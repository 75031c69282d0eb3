package font

import (
	"strings"
)

// DefaultFamily is the family of the embedded fallback faces.
const DefaultFamily = "Go Mono"

// Slot IDs of a Library. Extra families start at IDExtra.
const (
	IDRegular = iota
	IDItalic
	IDBold
	IDBoldItalic
	IDExtra
)

// Weight is an OpenType weight class.
type Weight uint16

// Common weights.
const (
	WeightNormal Weight = 400
	WeightBold   Weight = 700
)

// IsBold reports whether w is semibold or heavier.
func (w Weight) IsBold() bool {
	return w >= 600
}

// Style is the slant of a face.
type Style uint8

// Styles.
const (
	StyleNormal Style = iota
	StyleItalic
)

// String returns the style name.
func (s Style) String() string {
	if s == StyleItalic {
		return "italic"
	}
	return "normal"
}

// Font describes a requested face. A zero Weight means normal.
type Font struct {
	Family string
	Weight Weight
	Style  Style
}

// IsZero reports whether no family was requested.
func (f Font) IsZero() bool {
	return f.Family == ""
}

func (f Font) bold() bool {
	return f.Weight.IsBold()
}

func (f Font) italic() bool {
	return f.Style == StyleItalic
}

// String returns the family followed by its style attributes, e.g.
// "Fira Code bold italic".
func (f Font) String() string {
	var b strings.Builder
	b.WriteString(f.Family)
	if f.bold() {
		b.WriteString(" bold")
	}
	if f.italic() {
		b.WriteString(" italic")
	}
	return b.String()
}

// Families lists the fonts of each Library slot.
// Empty slots use the default family with the slot's style.
type Families struct {
	Regular    Font
	Bold       Font
	Italic     Font
	BoldItalic Font
	Extras     []Font
}

// DefaultFamilies returns the embedded Go Mono families.
func DefaultFamilies() Families {
	return Families{
		Regular:    Font{Family: DefaultFamily},
		Bold:       Font{Family: DefaultFamily, Weight: WeightBold},
		Italic:     Font{Family: DefaultFamily, Style: StyleItalic},
		BoldItalic: Font{Family: DefaultFamily, Weight: WeightBold, Style: StyleItalic},
	}
}

// slots returns the requested fonts in slot ID order. Empty style slots
// inherit the regular family when one was given.
func (fs Families) slots() []Font {
	def := DefaultFamilies()
	family := DefaultFamily
	if !fs.Regular.IsZero() {
		family = fs.Regular.Family
	}

	pick := func(f, fallback Font) Font {
		if !f.IsZero() {
			return f
		}
		fallback.Family = family
		return fallback
	}

	out := make([]Font, 0, IDExtra+len(fs.Extras))
	out = append(out,
		pick(fs.Regular, def.Regular),
		pick(fs.Italic, def.Italic),
		pick(fs.Bold, def.Bold),
		pick(fs.BoldItalic, def.BoldItalic),
	)
	for _, f := range fs.Extras {
		if !f.IsZero() {
			out = append(out, f)
		}
	}
	return out
}
