package paths

import "strings"

// File identifies one resource file in a comparison run. Path is the
// forward-slash path relative to the locale root; FullPath is where
// the file lives on disk.
type File struct {
	FullPath string
	Path     string
	Module   string
	Locale   string
}

// TreeParts returns the result-tree path for this file:
// locale / module / relative path segments.
func (f File) TreeParts() []string {
	var parts []string
	if f.Locale != "" {
		parts = append(parts, f.Locale)
	}
	if f.Module != "" {
		parts = append(parts, f.Module)
	}
	return append(parts, strings.Split(f.Path, "/")...)
}

func (f File) String() string {
	if f.Locale == "" {
		return f.Path
	}
	return f.Locale + "/" + f.Path
}
