package pebble

import (
	"errors"
	"testing"

	"github.com/NethermindEth/juno-cheatnet/db"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
)

var _ db.KeyValueStore = (*DB)(nil)

type DB struct {
	pebble *pebble.DB
}

// New opens a new database at the given path
func New(path string, options ...Option) (*DB, error) {
	opts := &pebble.Options{}
	for _, option := range options {
		if err := option(opts); err != nil {
			return nil, err
		}
	}
	return newPebble(path, opts)
}

// NewMem opens a new in-memory database
func NewMem() (*DB, error) {
	return newPebble("", &pebble.Options{
		FS: vfs.NewMem(),
	})
}

// NewMemTest opens a new in-memory database, fails the test on error
func NewMemTest(t testing.TB) *DB {
	memDB, err := NewMem()
	if err != nil {
		t.Fatalf("create in-memory db: %v", err)
	}
	t.Cleanup(func() {
		if err := memDB.Close(); err != nil {
			t.Errorf("close in-memory db: %v", err)
		}
	})
	return memDB
}

func newPebble(path string, options *pebble.Options) (*DB, error) {
	pDB, err := pebble.Open(path, options)
	if err != nil {
		return nil, err
	}
	return &DB{pebble: pDB}, nil
}

func (d *DB) Get(key []byte, cb func(value []byte) error) error {
	val, closer, err := d.pebble.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return db.ErrKeyNotFound
		}
		return err
	}
	defer closer.Close()
	return cb(val)
}

func (d *DB) Put(key, value []byte) error {
	return d.pebble.Set(key, value, pebble.NoSync)
}

func (d *DB) Delete(key []byte) error {
	return d.pebble.Delete(key, pebble.NoSync)
}

// Close : see io.Closer.Close
func (d *DB) Close() error {
	return d.pebble.Close()
}
