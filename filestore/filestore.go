// Package filestore keeps a weekgo plan in a single file.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/benjamonnguyen/weekgo"
)

type Repo struct {
	path  string
	codec weekgo.Codec
	l     weekgo.Logger
}

var _ weekgo.PlanRepo = (*Repo)(nil)

func New(path string, codec weekgo.Codec, logger weekgo.Logger) *Repo {
	return &Repo{
		path:  path,
		codec: codec,
		l:     logger,
	}
}

func (r *Repo) Path() string {
	return r.path
}

// SavePlan writes atomically: a temp file in the same directory is synced,
// restricted to 0600 and renamed over the plan file.
func (r *Repo) SavePlan(_ context.Context, p weekgo.Plan) error {
	data, err := r.codec.Encode(p)
	if err != nil {
		return err
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return &weekgo.IoError{Op: "create plan dir", Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".weekgo-plan-*.tmp")
	if err != nil {
		return &weekgo.IoError{Op: "create temp plan file", Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return &weekgo.IoError{Op: "write plan", Err: err}
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return &weekgo.IoError{Op: "sync plan", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &weekgo.IoError{Op: "close plan", Err: err}
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return &weekgo.IoError{Op: "chmod plan", Err: err}
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return &weekgo.IoError{Op: "replace plan", Err: err}
	}

	r.l.Debug("wrote plan file", "path", r.path, "bytes", len(data))
	return nil
}

// LoadPlan returns weekgo.ErrNoPlan if the file does not exist. Any other
// read or decode failure is a weekgo.CorruptDataError.
func (r *Repo) LoadPlan(_ context.Context) (weekgo.Plan, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		r.l.Debug("no plan file", "path", r.path)
		return weekgo.Plan{}, fmt.Errorf("%s: %w", r.path, weekgo.ErrNoPlan)
	}
	if err != nil {
		return weekgo.Plan{}, &weekgo.CorruptDataError{Err: fmt.Errorf("read %s: %w", r.path, err)}
	}

	p, err := r.codec.Decode(data)
	if err != nil {
		return weekgo.Plan{}, fmt.Errorf("%s: %w", r.path, err)
	}
	r.l.Debug("read plan file", "path", r.path, "bytes", len(data))
	return p, nil
}
