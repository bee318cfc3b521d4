package pipeline

import (
	"context"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/uniquepaths/pkg/cache"
	errs "github.com/matzehuels/uniquepaths/pkg/errors"
	"github.com/matzehuels/uniquepaths/pkg/estimate"
	"github.com/matzehuels/uniquepaths/pkg/paths"
	"github.com/matzehuels/uniquepaths/pkg/store"
)

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

// Config is the on-disk configuration shared by the CLI and the server.
//
//	[estimator]
//	pilot_walks = 2000
//	sample_walks = 50000
//	seed = 42
//
//	[traversal]
//	gating = "crossed"
//	combine = "additive"
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[store]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
//
//	[server]
//	addr = ":8080"
type Config struct {
	Estimator EstimatorConfig `toml:"estimator"`
	Traversal TraversalConfig `toml:"traversal"`
	Cache     CacheConfig     `toml:"cache"`
	Store     StoreConfig     `toml:"store"`
	Server    ServerConfig    `toml:"server"`
}

// EstimatorConfig holds the [estimator] section.
type EstimatorConfig struct {
	estimate.Options
	Seed    uint64 `toml:"seed"`
	Workers int    `toml:"workers"`
}

// TraversalConfig holds the [traversal] section.
type TraversalConfig struct {
	Gating        paths.Gating  `toml:"gating"`
	Combine       paths.Combine `toml:"combine"`
	MaxDepth      int           `toml:"max_depth"`
	ExactMaxDepth int           `toml:"exact_max_depth"`
}

// CacheConfig holds the [cache] section.
type CacheConfig struct {
	Backend  string `toml:"backend"`   // none, file (default) or redis
	Dir      string `toml:"dir"`       // file backend; defaults to the user cache dir
	RedisURL string `toml:"redis_url"` // redis backend
	Prefix   string `toml:"prefix"`    // key scope, e.g. "staging:"
}

// StoreConfig holds the [store] section.
type StoreConfig struct {
	Backend    string `toml:"backend"` // memory (default) or mongo
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// ServerConfig holds the [server] section.
type ServerConfig struct {
	Addr           string        `toml:"addr"`
	DataDir        string        `toml:"data_dir"` // graphs addressable by name
	MaxBodyBytes   int64         `toml:"max_body_bytes"`
	RequestTimeout time.Duration `toml:"request_timeout"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Traversal: TraversalConfig{Gating: DefaultGating, Combine: DefaultCombine},
		Cache:     CacheConfig{Backend: CacheFile},
		Store:     StoreConfig{Backend: StoreMemory},
		Server: ServerConfig{
			Addr:           ":8080",
			MaxBodyBytes:   32 << 20,
			RequestTimeout: 5 * time.Minute,
		},
	}
}

// LoadConfig reads a TOML file on top of DefaultConfig and validates it.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "unknown config key %q in %s", undecoded[0].String(), path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks backend names and connection strings.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "", CacheNone, CacheFile:
	case CacheRedis:
		if err := errs.ValidateRedisURL(c.Cache.RedisURL); err != nil {
			return err
		}
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	switch c.Store.Backend {
	case "", StoreMemory:
	case StoreMongo:
		if err := errs.ValidateMongoURI(c.Store.MongoURI); err != nil {
			return err
		}
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "unknown store backend %q", c.Store.Backend)
	}
	opts := c.Options()
	if err := opts.Estimator.ValidateAndSetDefaults(); err != nil {
		return err
	}
	return opts.traversal().ValidateAndSetDefaults()
}

// Options returns run options seeded from the configuration. Callers set
// the input and endpoints.
func (c *Config) Options() Options {
	return Options{
		Estimator:     c.Estimator.Options,
		Seed:          c.Estimator.Seed,
		Workers:       c.Estimator.Workers,
		Gating:        c.Traversal.Gating,
		Combine:       c.Traversal.Combine,
		MaxDepth:      c.Traversal.MaxDepth,
		ExactMaxDepth: c.Traversal.ExactMaxDepth,
	}
}

// OpenCache creates the configured cache backend.
func (c *Config) OpenCache() (cache.Cache, error) {
	switch c.Cache.Backend {
	case CacheNone:
		return cache.NewNullCache(), nil
	case CacheRedis:
		return cache.NewRedisCache(cache.RedisOptions{URL: c.Cache.RedisURL})
	default:
		dir := c.Cache.Dir
		if dir == "" {
			var err error
			if dir, err = cache.DefaultDir(); err != nil {
				return cache.NewNullCache(), nil
			}
		}
		return cache.NewFileCache(dir)
	}
}

// Keyer returns the cache keyer, scoped when a prefix is configured.
func (c *Config) Keyer() cache.Keyer {
	if c.Cache.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, c.Cache.Prefix)
}

// OpenStore creates the configured report store.
func (c *Config) OpenStore(ctx context.Context) (store.Store, error) {
	if c.Store.Backend == StoreMongo {
		return store.NewMongoStore(ctx, store.MongoOptions{
			URI:        c.Store.MongoURI,
			Database:   c.Store.Database,
			Collection: c.Store.Collection,
		})
	}
	return store.NewMemoryStore(), nil
}
