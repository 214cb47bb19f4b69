// Package fetch resolves pipeline resources (survey exports, lexicons, boundary files)
// from local paths or http(s) URLs. Remote resources are cached on disk with a .meta
// sidecar and may be revalidated with ETag and Last-Modified after a configured age.
// There are no retries: a failed download is an Unavailable error
package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	perr "surveylens/internal/platform/errors"
	"surveylens/internal/platform/logger"
	pstrings "surveylens/internal/platform/strings"
)

const defaultHTTPTO = 60 * time.Second

// Result describes where a resource ended up on disk
type Result struct {
	Source    string
	Path      string
	Remote    bool
	FromCache bool
	ETag      string
}

// Fetcher resolves sources to local files
type Fetcher struct {
	dir          string
	client       *http.Client
	refreshAfter time.Duration
	now          func() time.Time
}

// cacheMeta is a tiny sidecar json with fields we actually use
type cacheMeta struct {
	Source       string    `json:"source"`
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	Size         int64     `json:"size,omitempty"`
	FetchedAt    time.Time `json:"fetched_at"`
	LastChecked  time.Time `json:"last_checked"`
}

// Option configures the fetcher
type Option func(*Fetcher)

// WithRefreshAfter enables conditional GET for cached entries last checked more than d ago
// Zero disables revalidation (a cached copy is always served)
func WithRefreshAfter(d time.Duration) Option {
	return func(f *Fetcher) { f.refreshAfter = d }
}

// WithHTTPClient replaces the default client
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithTimeout sets the per request timeout of the default client
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.client = &http.Client{Timeout: d}
		}
	}
}

// New builds a fetcher caching into dir
func New(dir string, opts ...Option) *Fetcher {
	f := &Fetcher{
		dir:    dir,
		client: &http.Client{Timeout: defaultHTTPTO},
		now:    time.Now,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Dir returns the cache directory
func (f *Fetcher) Dir() string { return f.dir }

// CachePath returns the cache file a remote source maps to
// Name is a sha256 prefix of the URL plus the URL path extension
func (f *Fetcher) CachePath(src string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(src)))
	name := hex.EncodeToString(sum[:12])
	if u, err := url.Parse(src); err == nil {
		if ext := strings.ToLower(path.Ext(u.Path)); ext != "" && len(ext) <= 8 {
			name += ext
		}
	}
	return filepath.Join(f.dir, name)
}

// Resolve makes src available on local disk and reports where
func (f *Fetcher) Resolve(ctx context.Context, src string) (Result, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return Result{}, perr.WithOp(perr.InvalidArgf("empty source"), "fetch.Resolve")
	}
	if !pstrings.IsRemote(src) {
		fi, err := os.Stat(src)
		if err != nil {
			if os.IsNotExist(err) {
				return Result{}, perr.WithOp(perr.WithField(perr.NotFoundf("no such file %s", src), "source"), "fetch.Resolve")
			}
			return Result{}, perr.WithOp(perr.Wrapf(err, perr.ErrorCodeIO, "stat %s", src), "fetch.Resolve")
		}
		if !fi.Mode().IsRegular() {
			return Result{}, perr.WithOp(perr.InvalidArgf("%s is not a regular file", src), "fetch.Resolve")
		}
		return Result{Source: src, Path: src}, nil
	}

	p := f.CachePath(src)
	metaPath := p + ".meta"
	log := logger.C(ctx).With().Str("source", src).Str("path", p).Logger()

	if fi, err := os.Stat(p); err == nil && fi.Mode().IsRegular() {
		meta, _ := loadMeta(metaPath)
		if f.shouldRevalidate(meta) {
			res, err := f.conditionalFetch(ctx, src, p, metaPath, meta)
			if err == nil {
				return res, nil
			}
			// a usable copy is on disk
			log.Warn().Err(err).Msg("revalidation failed; serving cached copy")
		}
		log.Debug().Msg("cache hit")
		return Result{Source: src, Path: p, Remote: true, FromCache: true, ETag: etagOf(meta)}, nil
	}

	return f.download(ctx, src, p, metaPath)
}

// Open resolves src and opens it for reading
func (f *Fetcher) Open(ctx context.Context, src string) (io.ReadCloser, error) {
	res, err := f.Resolve(ctx, src)
	if err != nil {
		return nil, err
	}
	fh, err := os.Open(res.Path)
	if err != nil {
		return nil, perr.WithOp(perr.Wrapf(err, perr.ErrorCodeIO, "open %s", res.Path), "fetch.Open")
	}
	return fh, nil
}

// Bytes resolves src and reads it whole
func (f *Fetcher) Bytes(ctx context.Context, src string) ([]byte, error) {
	res, err := f.Resolve(ctx, src)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(res.Path)
	if err != nil {
		return nil, perr.WithOp(perr.Wrapf(err, perr.ErrorCodeIO, "read %s", res.Path), "fetch.Bytes")
	}
	return b, nil
}

func (f *Fetcher) shouldRevalidate(meta *cacheMeta) bool {
	if f.refreshAfter <= 0 {
		return false
	}
	if meta == nil {
		return true
	}
	return f.now().Sub(meta.LastChecked) >= f.refreshAfter
}

// conditionalFetch issues a GET with If-None-Match and If-Modified-Since when available
func (f *Fetcher) conditionalFetch(ctx context.Context, src, p, metaPath string, meta *cacheMeta) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return Result{}, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "bad url %s", src)
	}
	if meta != nil {
		if meta.ETag != "" {
			req.Header.Set("If-None-Match", meta.ETag)
		}
		if meta.LastModified != "" {
			req.Header.Set("If-Modified-Since", meta.LastModified)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return Result{}, perr.Wrapf(err, perr.ErrorCodeUnavailable, "get %s", src)
	}

	switch resp.StatusCode {
	case http.StatusNotModified:
		_ = resp.Body.Close()
		if meta == nil {
			meta = &cacheMeta{Source: src}
		}
		meta.LastChecked = f.now().UTC()
		_ = saveMeta(metaPath, meta)
		return Result{Source: src, Path: p, Remote: true, FromCache: true, ETag: meta.ETag}, nil

	case http.StatusOK:
		return f.writeResponseToCache(resp, src, p, metaPath)

	default:
		_ = resp.Body.Close()
		return Result{}, perr.Unavailablef("unexpected status %d for %s", resp.StatusCode, src)
	}
}

func (f *Fetcher) download(ctx context.Context, src, p, metaPath string) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return Result{}, perr.WithOp(perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "bad url %s", src), "fetch.Resolve")
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return Result{}, perr.WithOp(perr.Wrapf(err, perr.ErrorCodeUnavailable, "get %s", src), "fetch.Resolve")
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return Result{}, perr.WithOp(perr.Unavailablef("unexpected status %d for %s", resp.StatusCode, src), "fetch.Resolve")
	}
	res, err := f.writeResponseToCache(resp, src, p, metaPath)
	if err != nil {
		return Result{}, perr.WithOp(err, "fetch.Resolve")
	}
	logger.C(ctx).Info().Str("source", src).Str("path", p).Int64("bytes", fileSize(p)).Msg("fetched")
	return res, nil
}

// writeResponseToCache saves body atomically via a .part file then writes meta
func (f *Fetcher) writeResponseToCache(resp *http.Response, src, p, metaPath string) (Result, error) {
	defer func() { _ = resp.Body.Close() }()

	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return Result{}, perr.Wrapf(err, perr.ErrorCodeIO, "create cache dir %s", filepath.Dir(p))
	}

	tmp := p + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return Result{}, perr.Wrapf(err, perr.ErrorCodeIO, "create %s", tmp)
	}
	n, werr := io.Copy(out, resp.Body)
	cerr := out.Close()
	if werr != nil {
		_ = os.Remove(tmp)
		return Result{}, perr.Wrapf(werr, perr.ErrorCodeUnavailable, "read body of %s", src)
	}
	if cerr != nil {
		_ = os.Remove(tmp)
		return Result{}, perr.Wrapf(cerr, perr.ErrorCodeIO, "close %s", tmp)
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return Result{}, perr.Wrapf(err, perr.ErrorCodeIO, "rename %s", tmp)
	}

	now := f.now().UTC()
	meta := &cacheMeta{
		Source:       src,
		ETag:         strings.TrimSpace(resp.Header.Get("ETag")),
		LastModified: strings.TrimSpace(resp.Header.Get("Last-Modified")),
		Size:         n,
		FetchedAt:    now,
		LastChecked:  now,
	}
	_ = saveMeta(metaPath, meta)

	return Result{Source: src, Path: p, Remote: true, ETag: meta.ETag}, nil
}

func etagOf(m *cacheMeta) string {
	if m == nil {
		return ""
	}
	return m.ETag
}

func fileSize(p string) int64 {
	if fi, err := os.Stat(p); err == nil {
		return fi.Size()
	}
	return 0
}

// loadMeta reads a sidecar json file
func loadMeta(p string) (*cacheMeta, error) {
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	var m cacheMeta
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// saveMeta writes the sidecar json atomically
func saveMeta(p string, m *cacheMeta) error {
	tmp := p + ".part"
	fh, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(fh).Encode(m); err != nil {
		_ = fh.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := fh.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, p)
}
