// Package download fetches the raw provider bang files into a bangs directory.
package download

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/agentstation/bangmap/internal/transport"
	"github.com/agentstation/bangmap/pkg/bangs"
	"github.com/agentstation/bangmap/pkg/constants"
	"github.com/agentstation/bangmap/pkg/errors"
	"github.com/agentstation/bangmap/pkg/logging"
)

// Source is one provider file to download.
type Source struct {
	// Name identifies the provider in logs and errors.
	Name string
	URL  string
	// File is the name the body is stored under.
	File string
}

// DefaultSources are the provider files the merge stage expects.
var DefaultSources = []Source{
	{
		Name: "duckduckgo",
		URL:  "https://duckduckgo.com/bang.js",
		File: bangs.PrimaryFile,
	},
	{
		Name: "kagi-community",
		URL:  "https://github.com/kagisearch/bangs/raw/refs/heads/main/data/bangs.json",
		File: "bangs.json",
	},
	{
		Name: "kagi",
		URL:  "https://github.com/kagisearch/bangs/raw/refs/heads/main/data/kagi_bangs.json",
		File: "kagi_bangs.json",
	},
}

// Result describes one downloaded file.
type Result struct {
	Source Source
	Path   string
	Bytes  int
}

// Downloader fetches provider files.
type Downloader struct {
	client  *transport.Client
	sources []Source
}

// New creates a downloader for sources, or DefaultSources when none are given.
func New(client *transport.Client, sources ...Source) *Downloader {
	if client == nil {
		client = transport.New()
	}
	if len(sources) == 0 {
		sources = DefaultSources
	}
	return &Downloader{client: client, sources: sources}
}

// Sources returns the configured sources.
func (d *Downloader) Sources() []Source {
	return d.sources
}

type fetched struct {
	index  int
	result Result
	err    error
}

// Download fetches every source concurrently and writes each body, indented,
// to dir. A body that is not JSON is rejected. All sources are attempted; the
// returned error joins every failure and the results hold the successes in
// source order.
func (d *Downloader) Download(ctx context.Context, dir string) ([]Result, error) {
	logger := logging.FromContext(ctx)

	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("create", dir, err)
	}

	logger.Info().
		Int("source_count", len(d.sources)).
		Str("dir", dir).
		Msg("Downloading bang files")

	var wg sync.WaitGroup
	resultChan := make(chan fetched, len(d.sources))

	for i, source := range d.sources {
		wg.Add(1)
		go func(i int, s Source) {
			defer wg.Done()

			result, err := d.fetch(logging.WithSource(ctx, s.Name), s, dir)
			resultChan <- fetched{index: i, result: result, err: err}
		}(i, source)
	}

	wg.Wait()
	close(resultChan)

	ordered := make([]*Result, len(d.sources))
	var errs []error
	for f := range resultChan {
		if f.err != nil {
			errs = append(errs, f.err)
			continue
		}
		ordered[f.index] = &f.result
	}

	results := make([]Result, 0, len(d.sources))
	for _, r := range ordered {
		if r != nil {
			results = append(results, *r)
		}
	}
	return results, stderrors.Join(errs...)
}

func (d *Downloader) fetch(ctx context.Context, s Source, dir string) (Result, error) {
	logger := logging.FromContext(ctx)
	logger.Debug().Str("url", s.URL).Msg("Downloading")

	resp, err := d.client.Get(ctx, s.URL)
	if err != nil {
		apiErr := errors.NewAPIError(s.Name, 0, "failed to download "+s.File)
		apiErr.Endpoint = s.URL
		apiErr.Err = err
		return Result{}, apiErr
	}
	if err := transport.CheckResponse(resp, s.Name); err != nil {
		return Result{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, errors.WrapIO("read", s.URL, err)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		return Result{}, errors.WrapParse("json", s.URL, err)
	}
	pretty.WriteByte('\n')

	path := filepath.Join(dir, s.File)
	if err := writeAtomic(dir, path, pretty.Bytes()); err != nil {
		return Result{}, err
	}

	logger.Info().
		Str("file", path).
		Int("bytes", pretty.Len()).
		Msg("Downloaded bang file")

	return Result{Source: s, Path: path, Bytes: pretty.Len()}, nil
}

// writeAtomic writes data to a temp file in dir and renames it onto path.
func writeAtomic(dir, path string, data []byte) error {
	tempFile, err := os.CreateTemp(dir, "download_*.tmp")
	if err != nil {
		return errors.WrapIO("create", "temp file", err)
	}
	tempPath := tempFile.Name()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		_ = os.Remove(tempPath)
		return errors.WrapIO("write", path, err)
	}
	if err := tempFile.Close(); err != nil {
		_ = os.Remove(tempPath)
		return errors.WrapIO("write", path, err)
	}
	if err := os.Chmod(tempPath, constants.FilePermissions); err != nil {
		_ = os.Remove(tempPath)
		return errors.WrapIO("chmod", path, err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return errors.WrapIO("move", path, err)
	}
	return nil
}
