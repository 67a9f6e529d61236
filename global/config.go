package global

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

// AppConfig carries every runtime knob, loaded from the environment with
// the SNAPPY_ prefix (SNAPPY_HTTP_ADDR, SNAPPY_MONGO_URI, ...).
type AppConfig struct {
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
	NodeID   int64  `envconfig:"NODE_ID" default:"1"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	MongoURI      string        `envconfig:"MONGO_URI" default:""`
	MongoDatabase string        `envconfig:"MONGO_DATABASE" default:"snappy"`
	MongoTimeout  time.Duration `envconfig:"MONGO_TIMEOUT" default:"10s"`

	RedisAddr     string `envconfig:"REDIS_ADDR" default:""`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	JWTSecret string        `envconfig:"JWT_SECRET" default:""`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"2h"`

	SendQueueSize int           `envconfig:"SEND_QUEUE_SIZE" default:"256"`
	FanoutWorkers int           `envconfig:"FANOUT_WORKERS" default:"4"`
	FanoutQueue   int           `envconfig:"FANOUT_QUEUE" default:"1024"`
	PresenceTTL   time.Duration `envconfig:"PRESENCE_TTL" default:"5m"`
}

// Load reads the configuration from the environment.
func Load() (AppConfig, error) {
	var c AppConfig
	if err := envconfig.Process("snappy", &c); err != nil {
		return AppConfig{}, errors.Wrap(err, "load config")
	}
	if c.SendQueueSize <= 0 {
		c.SendQueueSize = 256
	}
	if c.FanoutWorkers <= 0 {
		c.FanoutWorkers = 4
	}
	if c.FanoutQueue <= 0 {
		c.FanoutQueue = 1024
	}
	return c, nil
}
