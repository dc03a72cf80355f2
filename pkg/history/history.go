// Package history keeps before/after copies of the bangs directory around
// every mutating command so the last command can be undone.
//
// Each command gets one entry folder under the history root, named
// "<timestamp>-<operation>" with a sortable millisecond timestamp. The folder
// holds a "before" copy taken ahead of the command and an "after" copy taken
// once it succeeded.
package history

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/bangmap/pkg/constants"
	"github.com/agentstation/bangmap/pkg/errors"
	"github.com/agentstation/bangmap/pkg/logging"
)

// TimeLayout formats entry timestamps. Lexical order equals time order.
const TimeLayout = "2006.01.02__15.04__05.000"

// Snapshot folder names inside an entry.
const (
	BeforeDir = "before"
	AfterDir  = "after"
)

// Entry is one history folder.
type Entry struct {
	Name      string
	Path      string
	Operation string
	Time      time.Time
}

// Before returns the path of the entry's before snapshot.
func (e Entry) Before() string {
	return filepath.Join(e.Path, BeforeDir)
}

// After returns the path of the entry's after snapshot.
func (e Entry) After() string {
	return filepath.Join(e.Path, AfterDir)
}

// Recorder manages the entries under one history root.
type Recorder struct {
	root string
	now  func() time.Time
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithClock replaces the clock used to name entries.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) {
		r.now = now
	}
}

// New creates a recorder for the history root.
func New(root string, opts ...Option) *Recorder {
	if root == "" {
		root = constants.DefaultHistoryDir
	}
	r := &Recorder{
		root: root,
		now:  func() time.Time { return utc.Now().Time },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Root returns the history root.
func (r *Recorder) Root() string {
	return r.root
}

// Do runs fn between a before and an after snapshot of dir. When fn fails the
// entry keeps only its before snapshot, so the failed command can still be
// undone.
func (r *Recorder) Do(ctx context.Context, dir, operation string, fn func(context.Context) error) (Entry, error) {
	logger := logging.FromContext(ctx)

	if err := r.checkOutside(dir); err != nil {
		return Entry{}, err
	}

	stamp := r.now().UTC()
	name := stamp.Format(TimeLayout) + "-" + operation
	entry := Entry{
		Name:      name,
		Path:      filepath.Join(r.root, name),
		Operation: operation,
		Time:      stamp.Truncate(time.Millisecond),
	}

	if err := os.MkdirAll(r.root, constants.DirPermissions); err != nil {
		return Entry{}, errors.WrapIO("create", r.root, err)
	}
	if err := os.Mkdir(entry.Path, constants.DirPermissions); err != nil {
		return Entry{}, errors.WrapIO("create", entry.Path, err)
	}

	if err := snapshot(dir, entry.Before()); err != nil {
		return entry, err
	}

	if err := fn(ctx); err != nil {
		logger.Warn().Err(err).Str("entry", entry.Name).Msg("Operation failed, history keeps the before snapshot")
		return entry, err
	}

	if err := snapshot(dir, entry.After()); err != nil {
		return entry, err
	}

	logger.Debug().Str("entry", entry.Name).Msg("Recorded history")
	return entry, nil
}

// Entries lists the entry folders under the root, oldest first.
func (r *Recorder) Entries() ([]Entry, error) {
	info, err := os.Stat(r.root)
	if os.IsNotExist(err) {
		return nil, errors.NewHistoryError(r.root, errors.ErrNoHistory)
	}
	if err != nil {
		return nil, errors.NewHistoryError(r.root, err)
	}
	if !info.IsDir() {
		return nil, errors.NewHistoryError(r.root, errors.ErrHistoryNotDir)
	}

	dirents, err := os.ReadDir(r.root)
	if err != nil {
		return nil, errors.NewHistoryError(r.root, err)
	}

	var entries []Entry
	for _, d := range dirents {
		if !d.IsDir() {
			continue
		}
		entries = append(entries, parseEntry(r.root, d.Name()))
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

// Undo replaces dir with the before snapshot of the latest entry and removes
// that entry. It fails with a HistoryError when the root is missing, is not a
// directory or holds no entries.
func (r *Recorder) Undo(ctx context.Context, dir string) (Entry, error) {
	if err := r.checkOutside(dir); err != nil {
		return Entry{}, err
	}

	entries, err := r.Entries()
	if err != nil {
		return Entry{}, err
	}
	if len(entries) == 0 {
		return Entry{}, errors.NewHistoryError(r.root, errors.ErrHistoryEmpty)
	}
	last := entries[len(entries)-1]

	if err := os.RemoveAll(dir); err != nil {
		return last, errors.WrapIO("remove", dir, err)
	}
	if err := snapshot(last.Before(), dir); err != nil {
		return last, err
	}
	if err := os.RemoveAll(last.Path); err != nil {
		return last, errors.WrapIO("remove", last.Path, err)
	}

	logging.FromContext(ctx).Info().
		Str("entry", last.Name).
		Str("operation", last.Operation).
		Str("dir", dir).
		Msg("Restored history entry")
	return last, nil
}

// checkOutside rejects a directory that contains the history root. Copying
// such a directory would copy the root into itself, and restoring it would
// delete the history.
func (r *Recorder) checkOutside(dir string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return errors.WrapIO("resolve", dir, err)
	}
	absRoot, err := filepath.Abs(r.root)
	if err != nil {
		return errors.WrapIO("resolve", r.root, err)
	}

	rel, err := filepath.Rel(absDir, absRoot)
	if err != nil {
		return nil
	}
	if rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))) {
		return errors.NewValidationError("history_dir", r.root,
			"history directory "+r.root+" must not be inside "+dir)
	}
	return nil
}

// snapshot copies the tree at src to dst, which must not exist yet. A missing
// src yields an empty dst.
func snapshot(src, dst string) error {
	if _, err := os.Stat(src); os.IsNotExist(err) {
		if err := os.MkdirAll(dst, constants.DirPermissions); err != nil {
			return errors.WrapIO("create", dst, err)
		}
		return nil
	}

	if err := os.CopyFS(dst, os.DirFS(src)); err != nil {
		return errors.WrapIO("copy", src, err)
	}
	return nil
}

// parseEntry splits an entry folder name into timestamp and operation. Names
// that do not follow the layout keep a zero Time.
func parseEntry(root, name string) Entry {
	e := Entry{Name: name, Path: filepath.Join(root, name)}
	stamp, op, _ := strings.Cut(name, "-")
	if t, err := time.Parse(TimeLayout, stamp); err == nil {
		e.Time = t
		e.Operation = op
	}
	return e
}
