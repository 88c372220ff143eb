package aio

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/mwantia/aio/data"
	"github.com/mwantia/aio/engine/objstore"
	"github.com/mwantia/aio/log"
	"github.com/spf13/cast"
)

// Engine choices accepted by AIO_ENGINE.
const (
	EngineAuto     = "auto"
	EngineAsync    = "async"
	EngineBlocking = "blocking"
	EngineObjStore = "objstore"
)

// Config holds the process wide settings read from the environment.
type Config struct {
	Engine    string
	Workers   int
	ChunkSize int

	LogLevel log.LogLevel
	LogFile  string
	LogJSON  bool

	ObjStore objstore.Config
}

func DefaultConfig() *Config {
	return &Config{
		Engine:    EngineAuto,
		Workers:   runtime.NumCPU(),
		ChunkSize: DefaultChunkSize,
		LogLevel:  log.Warn,
	}
}

// LoadConfig reads the AIO_* environment variables on top of DefaultConfig.
func LoadConfig() (*Config, error) {
	return loadConfig(os.LookupEnv)
}

func loadConfig(lookup func(string) (string, bool)) (*Config, error) {
	cfg := DefaultConfig()
	var errs data.Errors

	if v, ok := lookup("AIO_ENGINE"); ok && v != "" {
		switch choice := strings.ToLower(strings.TrimSpace(v)); choice {
		case EngineAuto, EngineAsync, EngineBlocking, EngineObjStore:
			cfg.Engine = choice
		default:
			errs.Add(fmt.Errorf("%w: AIO_ENGINE '%s'", data.ErrInvalid, v))
		}
	}

	if v, ok := lookup("AIO_WORKERS"); ok && v != "" {
		workers, err := cast.ToIntE(v)
		if err != nil || workers < 1 {
			errs.Add(fmt.Errorf("%w: AIO_WORKERS '%s'", data.ErrInvalid, v))
		} else {
			cfg.Workers = workers
		}
	}

	if v, ok := lookup("AIO_CHUNK_SIZE"); ok && v != "" {
		size, err := cast.ToIntE(v)
		if err != nil || size < 1 {
			errs.Add(fmt.Errorf("%w: AIO_CHUNK_SIZE '%s'", data.ErrInvalid, v))
		} else {
			cfg.ChunkSize = size
		}
	}

	if v, ok := lookup("AIO_LOG_LEVEL"); ok {
		level, err := log.Parse(v)
		if err != nil {
			errs.Add(err)
		}
		cfg.LogLevel = level
	}

	if v, ok := lookup("AIO_LOG_FILE"); ok {
		cfg.LogFile = v
	}

	if v, ok := lookup("AIO_LOG_JSON"); ok && v != "" {
		enabled, err := cast.ToBoolE(v)
		if err != nil {
			errs.Add(fmt.Errorf("%w: AIO_LOG_JSON '%s'", data.ErrInvalid, v))
		}
		cfg.LogJSON = enabled
	}

	cfg.ObjStore.Endpoint, _ = lookup("AIO_OBJSTORE_ENDPOINT")
	cfg.ObjStore.Bucket, _ = lookup("AIO_OBJSTORE_BUCKET")
	cfg.ObjStore.AccessKey, _ = lookup("AIO_OBJSTORE_ACCESS_KEY")
	cfg.ObjStore.SecretKey, _ = lookup("AIO_OBJSTORE_SECRET_KEY")
	if v, ok := lookup("AIO_OBJSTORE_SSL"); ok && v != "" {
		cfg.ObjStore.UseSSL = cast.ToBool(v)
	}

	if cfg.Engine == EngineObjStore && (cfg.ObjStore.Endpoint == "" || cfg.ObjStore.Bucket == "") {
		errs.Add(fmt.Errorf("%w: objstore engine requires AIO_OBJSTORE_ENDPOINT and AIO_OBJSTORE_BUCKET", data.ErrInvalid))
	}

	if errs.Len() > 0 {
		return cfg, errs.Errors()
	}
	return cfg, nil
}

// Logger creates the logger described by the configuration.
func (c *Config) Logger() *log.Logger {
	l := log.NewLogger("aio", c.LogLevel, c.LogFile, false)
	l.JSON = c.LogJSON
	return l
}
