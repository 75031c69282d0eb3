package font

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
)

// Database holds registered faces indexed by lower-cased family name.
// A new Database already contains the embedded Go Mono faces.
//
// Database is safe for concurrent use.
type Database struct {
	mu       sync.RWMutex
	families map[string][]*Face
}

// NewDatabase creates a database holding the embedded faces.
func NewDatabase() *Database {
	db := &Database{families: make(map[string][]*Face)}
	for _, face := range embeddedFaces() {
		db.add(face)
	}
	return db
}

// LoadBytes parses data and registers the face under its family name.
func (db *Database) LoadBytes(data []byte) (*Face, error) {
	face, err := ParseFace(data)
	if err != nil {
		return nil, err
	}
	if face.Family() == "" {
		return nil, errors.New("font: face has no family name")
	}
	db.add(face)
	return face, nil
}

// LoadFile reads and registers one font file.
func (db *Database) LoadFile(path string) (*Face, error) {
	// #nosec G304 -- Font file path is provided by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("font: failed to read font file: %w", err)
	}
	face, err := db.LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return face, nil
}

// LoadDir registers every .ttf and .otf file below dir. It returns the
// number of faces loaded; files that fail to parse are reported in the
// joined error without stopping the walk.
func (db *Database) LoadDir(dir string) (int, error) {
	var (
		loaded int
		errs   []error
	)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		if d.IsDir() || !isFontFile(path) {
			return nil
		}
		if _, err := db.LoadFile(path); err != nil {
			errs = append(errs, err)
			return nil
		}
		loaded++
		return nil
	})
	if err != nil {
		errs = append(errs, err)
	}
	return loaded, errors.Join(errs...)
}

// Families returns the registered family names, sorted.
func (db *Database) Families() []string {
	db.mu.RLock()
	defer db.mu.RUnlock()

	names := make([]string, 0, len(db.families))
	for _, faces := range db.families {
		names = append(names, faces[0].Family())
	}
	sort.Strings(names)
	return names
}

// Lookup finds the face of f's family that best matches its weight and
// style. Matching is by exact family name, ignoring case. A face with the
// requested boldness and slant wins; otherwise the first registered face
// of the family is returned.
func (db *Database) Lookup(f Font) (*Face, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	faces := db.families[strings.ToLower(f.Family)]
	if len(faces) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, f)
	}
	for _, face := range faces {
		if face.font.bold() == f.bold() && face.font.italic() == f.italic() {
			return face, nil
		}
	}
	return faces[0], nil
}

func (db *Database) add(face *Face) {
	db.mu.Lock()
	defer db.mu.Unlock()
	key := strings.ToLower(face.Family())
	db.families[key] = append(db.families[key], face)
}

func isFontFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttf", ".otf":
		return true
	}
	return false
}

var (
	embeddedOnce sync.Once
	embedded     []*Face
)

// embeddedFaces returns the Go Mono faces in slot ID order. They are parsed
// once per process and shared by every Database.
func embeddedFaces() []*Face {
	embeddedOnce.Do(func() {
		sources := []struct {
			data []byte
			font Font
		}{
			{gomono.TTF, Font{Family: DefaultFamily, Weight: WeightNormal}},
			{gomonoitalic.TTF, Font{Family: DefaultFamily, Weight: WeightNormal, Style: StyleItalic}},
			{gomonobold.TTF, Font{Family: DefaultFamily, Weight: WeightBold}},
			{gomonobolditalic.TTF, Font{Family: DefaultFamily, Weight: WeightBold, Style: StyleItalic}},
		}
		for _, src := range sources {
			face, err := ParseFace(src.data)
			if err != nil {
				panic("font: embedded face: " + err.Error())
			}
			face.font = src.font
			embedded = append(embedded, face)
		}
	})
	return embedded
}

// Fallback returns the embedded face for a slot ID. Extra slots use the
// regular face.
func Fallback(id int) *Face {
	faces := embeddedFaces()
	if id < 0 || id >= len(faces) {
		return faces[IDRegular]
	}
	return faces[id]
}
