package service

import (
	"io"
	"os"
	"path/filepath"

	perr "surveylens/internal/platform/errors"
)

// writeAtomic streams wt into dir/name through a temp file in the same directory
func writeAtomic(dir, name string, wt io.WriterTo) (string, error) {
	const op = "export.write"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", perr.WithOp(perr.Wrapf(err, perr.ErrorCodeIO, "create output dir %s", dir), op)
	}
	p := filepath.Join(dir, name)
	tmp, err := os.CreateTemp(dir, "."+name+".*.part")
	if err != nil {
		return "", perr.WithOp(perr.Wrapf(err, perr.ErrorCodeIO, "create temp for %s", p), op)
	}
	_, werr := wt.WriteTo(tmp)
	cerr := tmp.Close()
	if werr != nil {
		_ = os.Remove(tmp.Name())
		return "", perr.WithOp(perr.Wrapf(werr, perr.ErrorCodeIO, "write %s", p), op)
	}
	if cerr != nil {
		_ = os.Remove(tmp.Name())
		return "", perr.WithOp(perr.Wrapf(cerr, perr.ErrorCodeIO, "close %s", tmp.Name()), op)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		_ = os.Remove(tmp.Name())
		return "", perr.WithOp(perr.Wrapf(err, perr.ErrorCodeIO, "chmod %s", tmp.Name()), op)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		_ = os.Remove(tmp.Name())
		return "", perr.WithOp(perr.Wrapf(err, perr.ErrorCodeIO, "rename %s", tmp.Name()), op)
	}
	return p, nil
}

// writerFunc adapts an encoder callback to io.WriterTo
type writerFunc func(w io.Writer) error

func (f writerFunc) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	err := f(cw)
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
