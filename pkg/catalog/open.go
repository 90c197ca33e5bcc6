package catalog

import (
	"context"
	"strings"

	jerrors "github.com/matzehuels/jeweler/pkg/errors"
)

// Backend names accepted by [Open].
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Config selects and configures a catalog backend.
type Config struct {
	Backend string
	Dir     string
	Redis   RedisConfig
	Mongo   MongoConfig
}

// Open returns the store selected by cfg.Backend. An empty backend selects
// the file store.
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		store Store
		err   error
	)
	switch strings.ToLower(cfg.Backend) {
	case "", BackendFile:
		store, err = NewFileStore(cfg.Dir)
	case BackendRedis:
		store, err = NewRedisStore(ctx, cfg.Redis)
	case BackendMongo:
		store, err = NewMongoStore(ctx, cfg.Mongo)
	case BackendNone, "null":
		return NewNullStore(), nil
	default:
		return nil, jerrors.New(jerrors.ErrCodeUnsupported,
			"unknown catalog backend %q (want file, redis, mongo or none)", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}
