package stores

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/goccy/go-json"
)

/*
FileDriver keeps every key in a single JSON document on disk. Each write
rewrites the whole document through a temporary file and a rename, so a
crash mid-write leaves the previous version intact. Writes are serialized.
*/
type FileDriver struct {
	mu   sync.RWMutex
	path string
	data map[string]json.RawMessage
}

func OpenFileDriver(path string) (*FileDriver, error) {
	var (
		err error
		b   []byte
	)

	if path == "" {
		return nil, fmt.Errorf("file store requires a data file path")
	}

	result := &FileDriver{
		path: path,
		data: map[string]json.RawMessage{},
	}

	if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("error creating data directory for '%s': %w", path, err)
	}

	if b, err = os.ReadFile(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return result, nil
		}

		return nil, fmt.Errorf("error reading data file '%s': %w", path, err)
	}

	if len(b) == 0 {
		return result, nil
	}

	if err = json.Unmarshal(b, &result.data); err != nil {
		return nil, fmt.Errorf("error decoding data file '%s': %w", path, err)
	}

	return result, nil
}

func (d *FileDriver) Get(_ context.Context, key string) ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	value, ok := d.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}

	return slices.Clone([]byte(value)), nil
}

func (d *FileDriver) Put(_ context.Context, key string, value []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	next := maps.Clone(d.data)
	next[key] = json.RawMessage(slices.Clone(value))

	if err := d.write(next); err != nil {
		return err
	}

	d.data = next
	return nil
}

func (d *FileDriver) Delete(_ context.Context, key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.data[key]; !ok {
		return nil
	}

	next := maps.Clone(d.data)
	delete(next, key)

	if err := d.write(next); err != nil {
		return err
	}

	d.data = next
	return nil
}

func (d *FileDriver) Keys(_ context.Context, prefix string) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	result := []string{}

	for key := range d.data {
		if strings.HasPrefix(key, prefix) {
			result = append(result, key)
		}
	}

	slices.Sort(result)
	return result, nil
}

func (d *FileDriver) Close() error {
	return nil
}

func (d *FileDriver) write(data map[string]json.RawMessage) error {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding data file: %w", err)
	}

	tmp := d.path + ".tmp"

	if err = os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("error writing data file '%s': %w", tmp, err)
	}

	if err = os.Rename(tmp, d.path); err != nil {
		return fmt.Errorf("error replacing data file '%s': %w", d.path, err)
	}

	return nil
}
