// Package font resolves font descriptors into loaded faces.
//
// A Database holds registered font files indexed by family name. Load maps
// a set of Families onto a Library, one face per slot, and reports the
// descriptors that could not be resolved. Unresolved slots fall back to the
// embedded Go Mono faces so a Library is always complete:
//
//	db := font.NewDatabase()
//	_, _ = db.LoadDir("/usr/share/fonts")
//	lib, missing := font.Load(font.Families{
//		Regular: font.Font{Family: "JetBrains Mono"},
//	}, db)
//	for _, f := range missing {
//		log.Printf("font %s not found, using fallback", f)
//	}
package font
