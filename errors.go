package sugarloaf

import (
	"strings"

	"github.com/gogpu/sugarloaf/font"
)

// Errors reports fonts that could not be resolved. It is returned alongside
// a usable instance: the unresolved slots use the embedded fallback faces.
type Errors struct {
	FontsNotFound []font.Font
}

// Error implements error.
func (e *Errors) Error() string {
	names := make([]string, len(e.FontsNotFound))
	for i, f := range e.FontsNotFound {
		names[i] = f.String()
	}
	return "sugarloaf: fonts not found: " + strings.Join(names, ", ")
}
