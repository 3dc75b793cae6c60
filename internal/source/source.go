// Package source discovers the tabular inputs of a validation run: a local
// file, every matching file below a local directory, or objects under an
// s3:// URL.
package source

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultPattern selects files in directory mode when the schema declares
// no file_pattern.
const DefaultPattern = "*.csv"

// Input is one tabular input. Local inputs are files on disk; remote inputs
// are opened through Open.
type Input struct {
	Name  string
	Local bool
	open  func(ctx context.Context) (io.ReadCloser, error)
}

// Open returns the content of the input.
func (in Input) Open(ctx context.Context) (io.ReadCloser, error) {
	if in.open != nil {
		return in.open(ctx)
	}
	return os.Open(in.Name)
}

// LocalFile returns an Input for a file path. The file need not exist.
func LocalFile(path string) Input {
	return Input{Name: path, Local: true}
}

// IsRemote reports whether location is an object storage URL.
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "s3://")
}

// Discover resolves location to its inputs. A directory yields every file
// below it whose base name matches pattern, sorted by path; anything else
// is a single file. Remote locations require store.
func Discover(ctx context.Context, location, pattern string, store *ObjectStore) ([]Input, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid file pattern %q: %w", pattern, err)
	}

	if IsRemote(location) {
		if store == nil {
			return nil, fmt.Errorf("%s: object_store is not configured", location)
		}
		bucket, prefix, err := ParseURL(location)
		if err != nil {
			return nil, err
		}
		return store.List(ctx, bucket, prefix, pattern)
	}

	info, err := os.Stat(location)
	if err != nil || !info.IsDir() {
		return []Input{LocalFile(location)}, nil
	}
	return walkDir(location, pattern)
}

func walkDir(root, pattern string) ([]Input, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if ok, _ := filepath.Match(pattern, d.Name()); ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	sort.Strings(paths)
	inputs := make([]Input, len(paths))
	for i, p := range paths {
		inputs[i] = LocalFile(p)
	}
	return inputs, nil
}
