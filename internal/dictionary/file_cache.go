package dictionary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
)

// FileCache stores the entries of each term as a JSON file under rootDir.
type FileCache struct {
	rootDir string
}

var _ Cache = (*FileCache)(nil)

func NewFileCache(cacheDirectory string) *FileCache {
	return &FileCache{
		rootDir: cacheDirectory,
	}
}

func (f *FileCache) filePath(term string) string {
	// terms can contain a path separator
	return filepath.Join(f.rootDir, url.PathEscape(term)+".json")
}

func (cache *FileCache) Get(_ context.Context, term string) ([]Entry, bool, error) {
	contents, err := cache.read(term)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache.read > %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(contents, &entries); err != nil {
		return nil, false, fmt.Errorf("json.Unmarshal > %w", err)
	}
	return entries, true, nil
}

func (cache *FileCache) Put(_ context.Context, term string, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	contents, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("json.Marshal > %w", err)
	}

	if err := os.MkdirAll(cache.rootDir, 0755); err != nil {
		return fmt.Errorf("os.MkdirAll > %w", err)
	}
	file, err := os.Create(cache.filePath(term))
	if err != nil {
		return fmt.Errorf("os.Create > %w", err)
	}
	defer func() {
		_ = file.Close()
	}()
	if _, err := file.Write(contents); err != nil {
		return fmt.Errorf("file.Write > %w", err)
	}
	return nil
}

func (cache *FileCache) read(term string) ([]byte, error) {
	file, err := os.Open(cache.filePath(term))
	if err != nil {
		return nil, fmt.Errorf("os.Open > %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	contents, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll > %w", err)
	}
	return contents, nil
}
