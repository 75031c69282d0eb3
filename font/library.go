package font

import "strings"

// Library is a resolved set of faces addressed by slot ID.
// Every slot holds a usable face.
type Library struct {
	faces    []*Face
	requests []Font
}

// Load resolves families against db. It returns the library and the fonts
// that could not be found; those slots use the embedded fallback faces.
// A nil db behaves like NewDatabase().
func Load(families Families, db *Database) (*Library, []Font) {
	if db == nil {
		db = NewDatabase()
	}

	var missing []Font
	slots := families.slots()
	lib := &Library{
		faces:    make([]*Face, len(slots)),
		requests: slots,
	}
	for id, want := range slots {
		face, err := db.Lookup(want)
		if err != nil {
			missing = append(missing, want)
			face = Fallback(id)
		}
		lib.faces[id] = face
	}
	return lib, missing
}

// Len returns the number of slots.
func (l *Library) Len() int {
	return len(l.faces)
}

// Face returns the face of slot id, or the regular face for unknown ids.
func (l *Library) Face(id int) *Face {
	if id < 0 || id >= len(l.faces) {
		return l.faces[IDRegular]
	}
	return l.faces[id]
}

// Regular returns the regular face.
func (l *Library) Regular() *Face {
	return l.faces[IDRegular]
}

// Select returns the style slot for the given flags.
func (l *Library) Select(bold, italic bool) *Face {
	switch {
	case bold && italic:
		return l.faces[IDBoldItalic]
	case bold:
		return l.faces[IDBold]
	case italic:
		return l.faces[IDItalic]
	default:
		return l.faces[IDRegular]
	}
}

// Family returns the first slot requested with the given family name.
func (l *Library) Family(name string) (*Face, bool) {
	for id, req := range l.requests {
		if strings.EqualFold(req.Family, name) {
			return l.faces[id], true
		}
	}
	return nil, false
}

// Metrics returns the regular face metrics at size.
func (l *Library) Metrics(size float32) Metrics {
	return l.Regular().Metrics(size)
}
