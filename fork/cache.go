package fork

import (
	"errors"

	"github.com/NethermindEth/juno-cheatnet/core/felt"
	"github.com/NethermindEth/juno-cheatnet/db"
	"github.com/NethermindEth/juno-cheatnet/encoder"
	"github.com/NethermindEth/juno-cheatnet/utils"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// Cache keeps fork responses in memory and optionally in a persistent store.
// Values are immutable once the block is pinned, so entries never expire.
type Cache struct {
	mem *lru.Cache[string, []byte]
	db  db.KeyValueStore
	log utils.StructuredLogger
}

func NewCache(size int, store db.KeyValueStore, log utils.StructuredLogger) (*Cache, error) {
	mem, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, err
	}
	return &Cache{mem: mem, db: store, log: log}, nil
}

// Get decodes the cached value for key into v and reports whether it was present
func (c *Cache) Get(key []byte, v any) bool {
	if raw, ok := c.mem.Get(string(key)); ok {
		cacheLookups.WithLabelValues("memory", "true").Inc()
		return c.decode(key, raw, v)
	}
	cacheLookups.WithLabelValues("memory", "false").Inc()
	if c.db == nil {
		return false
	}

	var raw []byte
	err := c.db.Get(key, func(val []byte) error {
		raw = append([]byte(nil), val...)
		return nil
	})
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.log.Warn("Fork cache read failed", zap.Error(err))
		}
		cacheLookups.WithLabelValues("disk", "false").Inc()
		return false
	}
	cacheLookups.WithLabelValues("disk", "true").Inc()
	c.mem.Add(string(key), raw)
	return c.decode(key, raw, v)
}

func (c *Cache) decode(key, raw []byte, v any) bool {
	if err := encoder.Unmarshal(raw, v); err != nil {
		c.log.Warn("Dropping undecodable fork cache entry", zap.Binary("key", key), zap.Error(err))
		c.mem.Remove(string(key))
		if c.db != nil {
			if err = c.db.Delete(key); err != nil {
				c.log.Warn("Fork cache delete failed", zap.Error(err))
			}
		}
		return false
	}
	return true
}

func (c *Cache) Put(key []byte, v any) {
	raw, err := encoder.Marshal(v)
	if err != nil {
		c.log.Warn("Failed to encode fork cache entry", zap.Error(err))
		return
	}
	c.mem.Add(string(key), raw)
	if c.db != nil {
		if err = c.db.Put(key, raw); err != nil {
			c.log.Warn("Fork cache write failed", zap.Error(err))
		}
	}
}

func (c *Cache) Len() int {
	return c.mem.Len()
}

func feltKey(f *felt.Felt) []byte {
	b := f.Bytes()
	return b[:]
}
