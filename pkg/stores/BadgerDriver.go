package stores

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

/*
BadgerDriver stores keys in an embedded BadgerDB. An empty directory opens
an in-memory database.
*/
type BadgerDriver struct {
	db *badger.DB
}

func OpenBadgerDriver(dir string) (*BadgerDriver, error) {
	var (
		err  error
		opts badger.Options
	)

	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(dir)
	}

	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("error opening badger database at '%s': %w", dir, err)
	}

	return &BadgerDriver{db: db}, nil
}

func (d *BadgerDriver) Get(_ context.Context, key string) ([]byte, error) {
	var result []byte

	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrKeyNotFound
		}

		if err != nil {
			return fmt.Errorf("get %s: %w", key, err)
		}

		result, err = item.ValueCopy(nil)
		return err
	})

	return result, err
}

func (d *BadgerDriver) Put(_ context.Context, key string, value []byte) error {
	return d.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

func (d *BadgerDriver) Delete(_ context.Context, key string) error {
	return d.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(key)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete %s: %w", key, err)
		}

		return nil
	})
}

func (d *BadgerDriver) Keys(_ context.Context, prefix string) ([]string, error) {
	result := []string{}

	err := d.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			result = append(result, string(it.Item().KeyCopy(nil)))
		}

		return nil
	})

	return result, err
}

func (d *BadgerDriver) Close() error {
	return d.db.Close()
}
