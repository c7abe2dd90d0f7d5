package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"quill/internal/expand"
	"quill/internal/source"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestListSourceFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.ql"), "1")
	writeFile(t, filepath.Join(dir, "a.ql"), "1")
	writeFile(t, filepath.Join(dir, "sub", "c.ql"), "1")
	writeFile(t, filepath.Join(dir, "notes.txt"), "skip")

	files, err := listSourceFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 3 {
		t.Fatalf("files = %v", files)
	}
	if filepath.Base(files[0]) != "a.ql" || filepath.Base(files[1]) != "b.ql" {
		t.Errorf("order = %v", files)
	}
}

func TestExpandDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "one.ql"), `concat!("o", "ne")`)
	writeFile(t, filepath.Join(dir, "two.ql"), `concat!("t", "wo")`)
	writeFile(t, filepath.Join(dir, "bad.ql"), `nope!()`)

	results, err := ExpandDir(context.Background(), dir, Options{}, nil, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d", len(results))
	}
	// Sorted order: bad.ql, one.ql, two.ql.
	if !results[0].HasErrors() {
		t.Errorf("bad.ql expanded without errors")
	}
	if results[1].Output != "\"one\";\n" || results[2].Output != "\"two\";\n" {
		t.Errorf("outputs = %q, %q", results[1].Output, results[2].Output)
	}
}

func TestExpandDirEmpty(t *testing.T) {
	results, err := ExpandDir(context.Background(), t.TempDir(), Options{}, nil, 4)
	if err != nil {
		t.Fatal(err)
	}
	if results != nil {
		t.Errorf("results = %+v", results)
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	cache := &DiskCache{dir: t.TempDir()}
	key := Digest{1, 2, 3}

	var missing DiskPayload
	if ok, err := cache.Get(key, &missing); ok || err != nil {
		t.Fatalf("empty cache hit: %v, %v", ok, err)
	}

	in := DiskPayload{Schema: diskCacheSchemaVersion, Path: "a.ql", Output: "1;\n"}
	if err := cache.Put(key, &in); err != nil {
		t.Fatalf("Put: %v", err)
	}
	var out DiskPayload
	ok, err := cache.Get(key, &out)
	if !ok || err != nil {
		t.Fatalf("Get: %v, %v", ok, err)
	}
	if out.Path != in.Path || out.Output != in.Output || out.Schema != in.Schema {
		t.Errorf("round trip = %+v", out)
	}
}

func TestNilDiskCacheIsInert(t *testing.T) {
	var cache *DiskCache
	if err := cache.Put(Digest{}, &DiskPayload{}); err != nil {
		t.Errorf("nil Put: %v", err)
	}
	if ok, err := cache.Get(Digest{}, &DiskPayload{}); ok || err != nil {
		t.Errorf("nil Get: %v, %v", ok, err)
	}
}

func TestExpandDirUsesCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "one.ql")
	writeFile(t, path, `concat!("h", "i")`)
	cache := &DiskCache{dir: t.TempDir()}

	first, err := ExpandDir(context.Background(), dir, Options{}, cache, 1)
	if err != nil {
		t.Fatal(err)
	}
	if first[0].Files == nil {
		t.Fatalf("first run did not carry a file set")
	}

	second, err := ExpandDir(context.Background(), dir, Options{}, cache, 1)
	if err != nil {
		t.Fatal(err)
	}
	if second[0].Output != first[0].Output {
		t.Errorf("cached output %q differs from %q", second[0].Output, first[0].Output)
	}
	// Cache hits carry no file set; that is how the caller can tell.
	if second[0].Files != nil {
		t.Errorf("second run did not come from the cache")
	}
}

func TestCacheMissesOnOptionChange(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "one.ql"), `concat!("h", "i")`)
	cache := &DiskCache{dir: t.TempDir()}

	optsA := Options{Config: expand.ExpansionConfig{RecursionLimit: 16}}
	first, err := ExpandDir(context.Background(), dir, optsA, cache, 1)
	if err != nil {
		t.Fatal(err)
	}
	if first[0].Files == nil {
		t.Fatalf("first run did not carry a file set")
	}

	// Same content, different recursion limit: must not serve the
	// optsA entry.
	optsB := Options{Config: expand.ExpansionConfig{RecursionLimit: 32}}
	second, err := ExpandDir(context.Background(), dir, optsB, cache, 1)
	if err != nil {
		t.Fatal(err)
	}
	if second[0].Files == nil {
		t.Errorf("option change was served from the cache")
	}

	// Same options again: now it hits.
	third, err := ExpandDir(context.Background(), dir, optsA, cache, 1)
	if err != nil {
		t.Fatal(err)
	}
	if third[0].Files != nil {
		t.Errorf("identical rerun missed the cache")
	}
}

func TestCacheKeyCoversOptions(t *testing.T) {
	content := []byte(`1`)
	base := cacheKey(content, Options{})
	tests := []struct {
		name string
		opts Options
	}{
		{"edition", Options{Edition: source.Edition2025}},
		{"recursion limit", Options{Config: expand.ExpansionConfig{RecursionLimit: 7}}},
		{"trace", Options{Config: expand.ExpansionConfig{TraceMac: true}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if cacheKey(content, tt.opts) == base {
				t.Errorf("key did not change")
			}
		})
	}
	if cacheKey([]byte(`2`), Options{}) == base {
		t.Errorf("key ignores content")
	}
}

func TestFailedRunsAreNotCached(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.ql"), `nope!()`)
	cache := &DiskCache{dir: t.TempDir()}

	if _, err := ExpandDir(context.Background(), dir, Options{}, cache, 1); err != nil {
		t.Fatal(err)
	}
	results, err := ExpandDir(context.Background(), dir, Options{}, cache, 1)
	if err != nil {
		t.Fatal(err)
	}
	// A cached hit would have an empty bag; the error must reappear.
	if !results[0].HasErrors() {
		t.Errorf("failed run was served from the cache")
	}
}
