package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// Pair is one (reference, localized) comparison unit for a locale.
// HasL10n is false when the localized file does not exist on disk.
type Pair struct {
	Ref     File
	L10n    File
	HasL10n bool
}

// Pairing is the work list for one locale: file pairs in reference
// order plus localized files with no reference counterpart.
type Pairing struct {
	Pairs    []Pair
	Obsolete []File
}

// PairLocale walks the reference tree and matches every file with a
// known extension against the same relative path under the locale
// root. Localized files without a reference become Obsolete.
func PairLocale(refRoot, l10nRoot, locale string, exts map[string]bool) (*Pairing, error) {
	refRoot, err := filepath.Abs(refRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve reference root: %w", err)
	}
	l10nRoot, err = filepath.Abs(l10nRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve l10n root: %w", err)
	}

	refRel, err := walkTree(refRoot, exts)
	if err != nil {
		return nil, fmt.Errorf("walk reference tree: %w", err)
	}

	pairing := &Pairing{}
	seen := make(map[string]bool, len(refRel))
	for _, rel := range refRel {
		seen[rel] = true
		l10nPath := filepath.Join(l10nRoot, filepath.FromSlash(rel))
		_, statErr := os.Stat(l10nPath)
		pairing.Pairs = append(pairing.Pairs, Pair{
			Ref:     File{FullPath: filepath.Join(refRoot, filepath.FromSlash(rel)), Path: rel},
			L10n:    File{FullPath: l10nPath, Path: rel, Locale: locale},
			HasL10n: statErr == nil,
		})
	}

	l10nRel, err := walkTree(l10nRoot, exts)
	if err != nil {
		// A locale with no directory at all is just all-missing.
		if os.IsNotExist(err) {
			return pairing, nil
		}
		return nil, fmt.Errorf("walk l10n tree: %w", err)
	}
	for _, rel := range l10nRel {
		if !seen[rel] {
			pairing.Obsolete = append(pairing.Obsolete, File{
				FullPath: filepath.Join(l10nRoot, filepath.FromSlash(rel)),
				Path:     rel,
				Locale:   locale,
			})
		}
	}

	return pairing, nil
}

// walkTree collects sorted relative forward-slash paths of files with
// a known extension under root.
func walkTree(root string, exts map[string]bool) ([]string, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, err
	}

	var rels []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error walking path")
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if !exts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rels = append(rels, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(rels)
	return rels, nil
}
