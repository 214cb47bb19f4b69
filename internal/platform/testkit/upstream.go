package testkit

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

// Upstream is an in-memory HTTP fixture for resources fetched by the pipeline
// (survey exports, lexicons, boundary files). It honors If-None-Match with 304
type Upstream struct {
	*httptest.Server

	mu    sync.RWMutex
	files map[string][]byte
	hits  atomic.Int64
	fresh atomic.Int64
}

// NewUpstream starts a fixture server serving files keyed by URL path ("/afinn.txt")
// The server is closed on test cleanup
func NewUpstream(t *testing.T, files map[string][]byte) *Upstream {
	t.Helper()
	u := &Upstream{files: map[string][]byte{}}
	for k, v := range files {
		u.files[k] = v
	}

	r := chi.NewRouter()
	r.Get("/*", u.serve)
	u.Server = httptest.NewServer(r)
	t.Cleanup(u.Close)
	return u
}

// Set replaces (or adds) the body served at path
func (u *Upstream) Set(path string, body []byte) {
	u.mu.Lock()
	u.files[path] = body
	u.mu.Unlock()
}

// URLFor returns the absolute URL of path on this server
func (u *Upstream) URLFor(path string) string { return u.URL + path }

// Hits is the number of requests received
func (u *Upstream) Hits() int { return int(u.hits.Load()) }

// Fresh is the number of requests answered with a full 200 body
func (u *Upstream) Fresh() int { return int(u.fresh.Load()) }

func (u *Upstream) serve(w http.ResponseWriter, r *http.Request) {
	u.hits.Add(1)

	u.mu.RLock()
	body, ok := u.files[r.URL.Path]
	u.mu.RUnlock()
	if !ok {
		http.NotFound(w, r)
		return
	}

	sum := sha256.Sum256(body)
	etag := `"` + hex.EncodeToString(sum[:8]) + `"`
	w.Header().Set("ETag", etag)
	w.Header().Set("Last-Modified", time.Unix(0, 0).UTC().Format(http.TimeFormat))

	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	u.fresh.Add(1)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
