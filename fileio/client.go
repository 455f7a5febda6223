package fileio

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Client is the interface to a file system
type Client interface {
	// OpenReadCloser opens the file for reading.
	OpenReadCloser(name string) (io.ReadCloser, error)
	// OpenWriteCloser creates or truncates the file for writing, creating parent directories as needed.
	OpenWriteCloser(name string) (io.WriteCloser, error)
	Exists(name string) (bool, error)
	// List returns the names of all the data files designated by path, sorted.
	// path may name a file, a directory or a glob pattern, or be a comma-separated list of those.
	// Files in a directory whose names begin with "_" or "." are skipped.
	List(path string) ([]string, error)
	// Remove removes a file or directory, with all its contents
	Remove(name string) error
}

type localFSClient struct{}

// NewLocalFSClient produces a Client for the local file system
func NewLocalFSClient() Client {
	return &localFSClient{}
}

func (c *localFSClient) OpenReadCloser(name string) (io.ReadCloser, error) {
	return os.Open(name)
}

func (c *localFSClient) OpenWriteCloser(name string) (io.WriteCloser, error) {
	if dir := filepath.Dir(name); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	return os.Create(name)
}

func (c *localFSClient) Exists(name string) (bool, error) {
	_, err := os.Stat(name)
	return existCommon(err)
}

func (c *localFSClient) Remove(name string) error {
	return os.RemoveAll(name)
}

func (c *localFSClient) List(path string) ([]string, error) {
	result := make([]string, 0)
	for _, p := range strings.Split(path, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, err
		}
		sort.Strings(matches)
		for _, m := range matches {
			files, err := listLocal(m)
			if err != nil {
				return nil, err
			}
			result = append(result, files...)
		}
	}
	return result, nil
}

func listLocal(name string) ([]string, error) {
	info, err := os.Stat(name)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{name}, nil
	}
	entries, err := os.ReadDir(name)
	if err != nil {
		return nil, err
	}
	result := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || isHidden(e.Name()) {
			continue
		}
		result = append(result, filepath.Join(name, e.Name()))
	}
	return result, nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")
}

func existCommon(err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
