package testkit

import (
	"io"
	"net/http"
	"testing"
)

func TestUpstream_ServesAndRevalidates(t *testing.T) {
	t.Parallel()

	u := NewUpstream(t, map[string][]byte{"/a.txt": []byte("hello")})

	resp, err := http.Get(u.URLFor("/a.txt"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != "hello" {
		t.Fatalf("got %d %q", resp.StatusCode, body)
	}
	etag := resp.Header.Get("ETag")
	if etag == "" {
		t.Fatalf("missing ETag")
	}

	req, _ := http.NewRequest(http.MethodGet, u.URLFor("/a.txt"), nil)
	req.Header.Set("If-None-Match", etag)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("conditional get: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNotModified {
		t.Fatalf("want 304, got %d", resp.StatusCode)
	}

	u.Set("/a.txt", []byte("changed"))
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("conditional get after change: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200 after change, got %d", resp.StatusCode)
	}

	if u.Hits() != 3 || u.Fresh() != 2 {
		t.Fatalf("hits=%d fresh=%d", u.Hits(), u.Fresh())
	}
}

func TestUpstream_NotFound(t *testing.T) {
	t.Parallel()

	u := NewUpstream(t, nil)
	resp, err := http.Get(u.URLFor("/missing"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("want 404, got %d", resp.StatusCode)
	}
}
