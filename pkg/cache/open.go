package cache

import (
	"context"
	"fmt"
)

// Backend names accepted by [Open].
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Backends lists the accepted backend names.
var Backends = []string{BackendNone, BackendMemory, BackendFile, BackendRedis, BackendMongo}

// Options selects and configures a backend.
type Options struct {
	Backend       string
	Dir           string
	RedisAddr     string
	MongoURI      string
	MongoDatabase string
}

// Open constructs the backend named by opts.Backend. An empty name opens a
// file cache when Dir is set and a null cache otherwise.
func Open(ctx context.Context, opts Options) (Cache, error) {
	backend := opts.Backend
	if backend == "" {
		backend = BackendNone
		if opts.Dir != "" {
			backend = BackendFile
		}
	}

	switch backend {
	case BackendNone:
		return NewNullCache(), nil
	case BackendMemory:
		return NewMemoryCache(), nil
	case BackendFile:
		if opts.Dir == "" {
			return nil, fmt.Errorf("file cache: no directory")
		}
		c, err := NewFileCache(opts.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendRedis:
		if opts.RedisAddr == "" {
			return nil, fmt.Errorf("redis cache: no address")
		}
		c, err := NewRedisCache(ctx, opts.RedisAddr)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendMongo:
		if opts.MongoURI == "" {
			return nil, fmt.Errorf("mongo cache: no uri")
		}
		c, err := NewMongoCache(ctx, opts.MongoURI, opts.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}
