package fetch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"surveylens/internal/platform/config"
	perr "surveylens/internal/platform/errors"
	kit "surveylens/internal/platform/testkit"
)

func TestResolve_LocalFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "lex.txt")
	if err := os.WriteFile(p, []byte("love\t3\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	f := New(filepath.Join(dir, "cache"))
	res, err := f.Resolve(context.Background(), p)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Path != p || res.Remote || res.FromCache {
		t.Fatalf("unexpected result %+v", res)
	}
	b, err := f.Bytes(context.Background(), p)
	if err != nil || string(b) != "love\t3\n" {
		t.Fatalf("bytes: %q %v", b, err)
	}
}

func TestResolve_LocalErrors(t *testing.T) {
	f := New(t.TempDir())

	_, err := f.Resolve(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
	_, err = f.Resolve(context.Background(), t.TempDir())
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("want invalid argument for a directory, got %v", err)
	}
	_, err = f.Resolve(context.Background(), "  ")
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("want invalid argument for blank source, got %v", err)
	}
}

func TestResolve_RemoteCachesAndServesFromDisk(t *testing.T) {
	up := kit.NewUpstream(t, map[string][]byte{"/afinn.txt": []byte("good\t3\n")})
	f := New(t.TempDir())
	src := up.URLFor("/afinn.txt")

	res, err := f.Resolve(context.Background(), src)
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	if !res.Remote || res.FromCache || res.ETag == "" {
		t.Fatalf("first resolve result %+v", res)
	}
	if !strings.HasSuffix(res.Path, ".txt") || filepath.Dir(res.Path) != f.Dir() {
		t.Fatalf("cache path %q", res.Path)
	}
	if _, err := os.Stat(res.Path + ".meta"); err != nil {
		t.Fatalf("meta sidecar missing: %v", err)
	}

	// without refresh the second call never touches the network
	res2, err := f.Resolve(context.Background(), src)
	if err != nil || !res2.FromCache || res2.Path != res.Path {
		t.Fatalf("second resolve %+v %v", res2, err)
	}
	if up.Hits() != 1 {
		t.Fatalf("hits=%d, want 1", up.Hits())
	}
}

func TestResolve_RevalidatesAfterAge(t *testing.T) {
	up := kit.NewUpstream(t, map[string][]byte{"/b.geojson": []byte(`{"type":"FeatureCollection","features":[]}`)})
	f := New(t.TempDir(), WithRefreshAfter(time.Hour))
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	f.now = func() time.Time { return clock }
	src := up.URLFor("/b.geojson")

	if _, err := f.Resolve(context.Background(), src); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	// within the window: cached, no request
	clock = clock.Add(30 * time.Minute)
	if _, err := f.Resolve(context.Background(), src); err != nil {
		t.Fatal(err)
	}
	if up.Hits() != 1 {
		t.Fatalf("hits=%d, want 1", up.Hits())
	}

	// past the window and unchanged: 304, cached
	clock = clock.Add(2 * time.Hour)
	res, err := f.Resolve(context.Background(), src)
	if err != nil || !res.FromCache {
		t.Fatalf("revalidate: %+v %v", res, err)
	}
	if up.Hits() != 2 || up.Fresh() != 1 {
		t.Fatalf("hits=%d fresh=%d", up.Hits(), up.Fresh())
	}

	// changed upstream: new body replaces the cache
	up.Set("/b.geojson", []byte(`{"changed":true}`))
	clock = clock.Add(2 * time.Hour)
	res, err = f.Resolve(context.Background(), src)
	if err != nil || res.FromCache {
		t.Fatalf("refetch: %+v %v", res, err)
	}
	b, _ := os.ReadFile(res.Path)
	if string(b) != `{"changed":true}` {
		t.Fatalf("cache not replaced: %s", b)
	}
}

func TestResolve_RemoteMissingIsUnavailable(t *testing.T) {
	up := kit.NewUpstream(t, nil)
	f := New(t.TempDir())

	_, err := f.Resolve(context.Background(), up.URLFor("/missing.csv"))
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("want unavailable, got %v", err)
	}
	if up.Hits() != 1 {
		t.Fatalf("no retries expected, hits=%d", up.Hits())
	}
	entries, _ := os.ReadDir(f.Dir())
	if len(entries) != 0 {
		t.Fatalf("nothing should be cached, found %d entries", len(entries))
	}
}

func TestCachePath_Stable(t *testing.T) {
	f := New("/cache")
	a := f.CachePath("https://example.org/data/survey.xlsx?x=1")
	b := f.CachePath("https://example.org/data/survey.xlsx?x=1")
	c := f.CachePath("https://example.org/data/other.xlsx")
	if a != b || a == c {
		t.Fatalf("cache paths not stable/distinct: %s %s %s", a, b, c)
	}
	if !strings.HasSuffix(a, ".xlsx") {
		t.Fatalf("extension not kept: %s", a)
	}
}

func TestFromConfig(t *testing.T) {
	t.Setenv("CORE_FETCH_CACHE_DIR", "/tmp/x/../cache")
	t.Setenv("CORE_FETCH_HTTP_TIMEOUT_SECONDS", "5")
	t.Setenv("CORE_FETCH_REFRESH_AFTER_HOURS", "24")

	c := FromConfig(config.New())
	if c.CacheDir != "/tmp/cache" || c.Timeout != 5*time.Second || c.RefreshAfter != 24*time.Hour {
		t.Fatalf("config %+v", c)
	}
	f := NewFromConfig(c)
	if f.Dir() != "/tmp/cache" || f.refreshAfter != 24*time.Hour || f.client.Timeout != 5*time.Second {
		t.Fatalf("fetcher not configured: %+v", f)
	}
}
