package app

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sources.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

func TestLoadSourceCatalog(t *testing.T) {
	path := writeCatalog(t, `
user_agents:
  - "Mozilla/5.0 test"
sources:
  - name: breedarchive
    base_url: https://example.org
    list_path: /api/dogs
    page_size: 25
    max_retries: 5
  - name: huskypedigree
    base_url: https://example.net
`)

	catalog, err := LoadSourceCatalog(path)
	if err != nil {
		t.Fatalf("LoadSourceCatalog: %v", err)
	}
	if len(catalog.Sources) != 2 || len(catalog.UserAgents) != 1 {
		t.Fatalf("catalog shape: %+v", catalog)
	}

	src, ok := catalog.Source("breedarchive")
	if !ok {
		t.Fatal("breedarchive missing")
	}
	if src.PageSize != 25 || src.MaxRetries != 5 {
		t.Errorf("explicit values: %+v", src)
	}

	// Unset numeric fields pick up defaults.
	src, _ = catalog.Source("huskypedigree")
	if src.PageSize != 100 || src.MaxRetries != 3 {
		t.Errorf("defaults: %+v", src)
	}

	if _, ok := catalog.Source("nope"); ok {
		t.Error("unknown source should miss")
	}
}

func TestLoadSourceCatalogRejectsUnnamedEntry(t *testing.T) {
	path := writeCatalog(t, `
sources:
  - base_url: https://example.org
`)
	if _, err := LoadSourceCatalog(path); err == nil {
		t.Fatal("unnamed source should fail")
	}
}

func TestLoadSourceCatalogMissingFile(t *testing.T) {
	if _, err := LoadSourceCatalog(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("missing file should fail")
	}
}
