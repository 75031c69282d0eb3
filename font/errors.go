package font

import "errors"

// Sentinel errors for font package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("font: empty font data")

	// ErrNotFound is returned by Database.Lookup for unknown families.
	ErrNotFound = errors.New("font: family not found")
)
