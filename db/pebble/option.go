package pebble

import (
	"fmt"

	"github.com/NethermindEth/juno-cheatnet/utils"
	"github.com/cockroachdb/pebble"
)

// pebble's own default block cache size
const (
	minCacheSizeMB = 8
	megabyte       = 1 << 20
)

type Option func(*pebble.Options) error

// WithCacheSize sets the block cache size, never below pebble's default
func WithCacheSize(cacheSizeMB uint) Option {
	size := int64(max(cacheSizeMB, minCacheSizeMB)) * megabyte
	return func(opts *pebble.Options) error {
		opts.Cache = pebble.NewCache(size)
		return nil
	}
}

func WithMaxOpenFiles(maxOpenFiles int) Option {
	return func(opts *pebble.Options) error {
		if maxOpenFiles <= 0 {
			return fmt.Errorf("max open files must be positive, got %d", maxOpenFiles)
		}
		opts.MaxOpenFiles = maxOpenFiles
		return nil
	}
}

// WithLogger reports pebble's errors through a zap logger named "pebble"
func WithLogger(colour bool) Option {
	return func(opts *pebble.Options) error {
		log, err := utils.NewZapLogger(utils.NewLogLevel(utils.ERROR), colour)
		if err != nil {
			return fmt.Errorf("create fork cache logger: %w", err)
		}
		opts.Logger = log.Named("pebble")
		return nil
	}
}
