package bangs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentstation/bangmap/pkg/constants"
	"github.com/agentstation/bangmap/pkg/errors"
)

// Well-known file names inside a bangs directory.
const (
	// SnapshotFile is the canonical record set.
	SnapshotFile = "zbangs.json"
	// PrimaryFile is the DuckDuckGo reference source.
	PrimaryFile = "duckduckgo_bangs.json"
	// ReportFile is the generated liveness report.
	ReportFile = "dead-bangs.md"
)

// ReadSet reads a canonical record set from path.
func ReadSet(path string) (Set, error) {
	var set Set
	if err := readJSON(path, &set); err != nil {
		return nil, err
	}
	return set, nil
}

// ReadRaw reads a provider file holding an array of raw bangs.
func ReadRaw(path string) ([]RawBang, error) {
	var raw []RawBang
	if err := readJSON(path, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// WriteSet writes set to path as indented JSON, creating parent directories.
func WriteSet(path string, set Set) error {
	if set == nil {
		set = Set{}
	}
	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return errors.WrapParse("json", path, err)
	}
	return WriteFile(path, data)
}

// WriteFile writes data to path, creating parent directories.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return errors.WrapIO("create", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// SecondaryFiles lists the provider files in dir that feed the merge stage:
// every *.json file except the primary source and the canonical snapshot,
// in lexical order.
func SecondaryFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WrapIO("read", dir, err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		if name == PrimaryFile || name == SnapshotFile {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	return files, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.WrapIO("read", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.WrapParse("json", path, err)
	}
	return nil
}

func containsPlaceholder(s string) bool {
	return strings.Contains(s, ProviderPlaceholder)
}
