package schema

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultDir is the conventional location of schema files.
const DefaultDir = "docs/data_schemas/schemas"

// Schema file suffixes, in lookup order.
var fileSuffixes = []string{".schema.yaml", ".schema.yml"}

// Sentinel errors returned by Resolver.
var (
	ErrNotFound             = errors.New("schema not found")
	ErrAmbiguous            = errors.New("unable to resolve schema")
	ErrConflictingSelectors = errors.New("specify either a schema path or a dataset id, not both")
)

// Resolver locates schema files in a directory.
type Resolver struct {
	Dir string
}

// NewResolver returns a Resolver for dir, or DefaultDir when dir is empty.
func NewResolver(dir string) *Resolver {
	if dir == "" {
		dir = DefaultDir
	}
	return &Resolver{Dir: dir}
}

// Resolve loads a schema from an explicit path, from a dataset id, or by
// auto-detecting the only schema in the directory. It returns the schema and
// the file it was loaded from.
func (r *Resolver) Resolve(path, datasetID string) (*Schema, string, error) {
	switch {
	case path != "" && datasetID != "":
		return nil, "", ErrConflictingSelectors
	case path != "":
		return r.load(path)
	case datasetID != "":
		p, err := r.PathFor(datasetID)
		if err != nil {
			return nil, "", err
		}
		return r.load(p)
	}

	candidates, err := r.files()
	if err != nil {
		return nil, "", err
	}
	switch len(candidates) {
	case 1:
		return r.load(candidates[0])
	case 0:
		return nil, "", fmt.Errorf("%w: no schema files in %s; provide a schema path or dataset id", ErrNotFound, r.Dir)
	default:
		return nil, "", fmt.Errorf("%w: %d schema files in %s; provide a schema path or dataset id", ErrAmbiguous, len(candidates), r.Dir)
	}
}

// PathFor returns the schema file for datasetID.
func (r *Resolver) PathFor(datasetID string) (string, error) {
	if strings.ContainsAny(datasetID, `/\`) || datasetID == "." || datasetID == ".." {
		return "", fmt.Errorf("%w: invalid dataset id %q", ErrNotFound, datasetID)
	}
	for _, suffix := range fileSuffixes {
		p := filepath.Join(r.Dir, datasetID+suffix)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w for dataset '%s' at %s", ErrNotFound, datasetID, filepath.Join(r.Dir, datasetID+fileSuffixes[0]))
}

func (r *Resolver) load(path string) (*Schema, string, error) {
	s, err := Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("%w at %s", ErrNotFound, path)
		}
		return nil, "", err
	}
	return s, path, nil
}

// files returns the schema files in the directory, sorted.
func (r *Resolver) files() ([]string, error) {
	var out []string
	for _, suffix := range fileSuffixes {
		matches, err := filepath.Glob(filepath.Join(r.Dir, "*"+suffix))
		if err != nil {
			return nil, err
		}
		out = append(out, matches...)
	}
	sort.Strings(out)
	return out, nil
}

// Entry is one schema file found by List. Err is set when the file failed
// to load, in which case Schema is nil.
type Entry struct {
	Path   string
	Schema *Schema
	Err    error
}

// List loads every schema file in the directory. A missing directory yields
// no entries.
func (r *Resolver) List() ([]Entry, error) {
	files, err := r.files()
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(files))
	for _, f := range files {
		s, err := Load(f)
		entries = append(entries, Entry{Path: f, Schema: s, Err: err})
	}
	return entries, nil
}
