package merge

import (
	"context"
	stderrors "errors"
	"io/fs"
	"path/filepath"

	"github.com/agentstation/bangmap/pkg/bangs"
	"github.com/agentstation/bangmap/pkg/errors"
	"github.com/agentstation/bangmap/pkg/logging"
)

// Load reads the primary source and every secondary source from dir.
// A missing primary file or an unreadable secondary file is an error.
func Load(ctx context.Context, dir string) (Primary, []Source, error) {
	primaryPath := filepath.Join(dir, bangs.PrimaryFile)
	primaryRaw, err := bangs.ReadRaw(primaryPath)
	if stderrors.Is(err, fs.ErrNotExist) {
		nf := errors.NewNotFoundError("primary source", primaryPath)
		nf.Err = err
		return nil, nil, nf
	}
	if err != nil {
		return nil, nil, err
	}

	files, err := bangs.SecondaryFiles(dir)
	if err != nil {
		return nil, nil, err
	}

	sources := make([]Source, 0, len(files))
	for _, file := range files {
		raw, err := bangs.ReadRaw(file)
		if err != nil {
			return nil, nil, err
		}
		sources = append(sources, Source{Name: filepath.Base(file), Bangs: raw})
	}

	logging.FromContext(ctx).Info().
		Int("primary_triggers", len(primaryRaw)).
		Int("sources", len(sources)).
		Msg("Loaded bang sources")

	return NewPrimary(primaryRaw), sources, nil
}
