package stores

import (
	"context"
	"slices"
	"strings"
	"sync"
)

/*
MemoryDriver keeps everything in process memory. Data is lost on restart.
*/
type MemoryDriver struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryDriver() *MemoryDriver {
	return &MemoryDriver{
		data: map[string][]byte{},
	}
}

func (d *MemoryDriver) Get(_ context.Context, key string) ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	value, ok := d.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}

	return slices.Clone(value), nil
}

func (d *MemoryDriver) Put(_ context.Context, key string, value []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.data[key] = slices.Clone(value)
	return nil
}

func (d *MemoryDriver) Delete(_ context.Context, key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.data, key)
	return nil
}

func (d *MemoryDriver) Keys(_ context.Context, prefix string) ([]string, error) {
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

func (d *MemoryDriver) Close() error {
	return nil
}
