package config

import (
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	validator "gopkg.in/go-playground/validator.v9"
)

// Schema versions the resolver Lambda can serve. Each deployment mirrors one
// revision of the AppSync schema.
const (
	SchemaV1 = "v1"
	SchemaV2 = "v2"
)

// Config is read from the environment: Lambda environment variables, or a
// local .env loaded by the dev server.
type Config struct {
	Debug         bool   `envconfig:"DEBUG" default:"false"`
	SchemaVersion string `envconfig:"SCHEMA_VERSION" default:"v2" validate:"oneof=v1 v2"`

	// Port is only used by the local dev server.
	Port int `envconfig:"PORT" default:"8080" validate:"min=1,max=65535"`
}

var validate = validator.New()

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to read environment config")
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &cfg, nil
}
