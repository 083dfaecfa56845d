package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestPairLocale(t *testing.T) {
	ref := t.TempDir()
	l10n := t.TempDir()
	writeFile(t, ref, "toolkit/foo.properties", "a=1\n")
	writeFile(t, ref, "browser/bar.dtd", "<!ENTITY a \"A\">\n")
	writeFile(t, ref, "notes.txt", "ignored\n")
	writeFile(t, l10n, "toolkit/foo.properties", "a=1\n")
	writeFile(t, l10n, "extra/old.properties", "gone=1\n")

	exts := map[string]bool{".properties": true, ".dtd": true}
	pairing, err := PairLocale(ref, l10n, "de", exts)
	if err != nil {
		t.Fatalf("PairLocale: %v", err)
	}

	if len(pairing.Pairs) != 2 {
		t.Fatalf("got %d pairs", len(pairing.Pairs))
	}
	// Reference walk order is sorted by relative path.
	if pairing.Pairs[0].Ref.Path != "browser/bar.dtd" || pairing.Pairs[1].Ref.Path != "toolkit/foo.properties" {
		t.Fatalf("pair order: %q, %q", pairing.Pairs[0].Ref.Path, pairing.Pairs[1].Ref.Path)
	}
	if pairing.Pairs[0].HasL10n {
		t.Fatal("bar.dtd has no localization")
	}
	if !pairing.Pairs[1].HasL10n {
		t.Fatal("foo.properties is localized")
	}
	if pairing.Pairs[1].L10n.Locale != "de" {
		t.Fatalf("locale: got %q", pairing.Pairs[1].L10n.Locale)
	}

	if len(pairing.Obsolete) != 1 || pairing.Obsolete[0].Path != "extra/old.properties" {
		t.Fatalf("obsolete: %+v", pairing.Obsolete)
	}
}

func TestPairLocaleMissingL10nRoot(t *testing.T) {
	ref := t.TempDir()
	writeFile(t, ref, "foo.properties", "a=1\n")

	pairing, err := PairLocale(ref, filepath.Join(ref, "no-such-locale"), "fr", map[string]bool{".properties": true})
	if err != nil {
		t.Fatalf("PairLocale: %v", err)
	}
	if len(pairing.Pairs) != 1 || pairing.Pairs[0].HasL10n {
		t.Fatalf("pairs: %+v", pairing.Pairs)
	}
	if len(pairing.Obsolete) != 0 {
		t.Fatalf("obsolete: %+v", pairing.Obsolete)
	}
}

func TestFileTreeParts(t *testing.T) {
	f := File{Path: "toolkit/foo.properties", Locale: "de"}
	got := f.TreeParts()
	want := []string{"de", "toolkit", "foo.properties"}
	if len(got) != len(want) {
		t.Fatalf("parts: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("parts: %v, want %v", got, want)
		}
	}
	if f.String() != "de/toolkit/foo.properties" {
		t.Fatalf("string: %q", f.String())
	}

	ref := File{Path: "foo.properties"}
	if ref.String() != "foo.properties" {
		t.Fatalf("ref string: %q", ref.String())
	}
	if parts := ref.TreeParts(); len(parts) != 1 || parts[0] != "foo.properties" {
		t.Fatalf("ref parts: %v", parts)
	}
}

func TestFileTreePartsWithModule(t *testing.T) {
	f := File{Path: "chrome/foo.dtd", Module: "browser", Locale: "fr"}
	parts := f.TreeParts()
	want := []string{"fr", "browser", "chrome", "foo.dtd"}
	if len(parts) != len(want) {
		t.Fatalf("parts: %v", parts)
	}
	for i := range want {
		if parts[i] != want[i] {
			t.Fatalf("parts: %v, want %v", parts, want)
		}
	}
}
