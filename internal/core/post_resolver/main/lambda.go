package main

import (
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/blogcore/post-resolver/internal/core/post_resolver/appsync"
	"github.com/blogcore/post-resolver/internal/core/post_resolver/blog"
	"github.com/blogcore/post-resolver/internal/core/post_resolver/config"
)

var mux *appsync.Mux

func init() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %s", err)
	}

	logger, err := buildLogger(cfg.Debug)
	if err != nil {
		log.Fatalf("failed to start logger: %s", err)
	}

	mux = appsync.NewMux(logger.With(zap.String("schemaVersion", cfg.SchemaVersion)))
	if err := blog.Register(mux, cfg.SchemaVersion); err != nil {
		log.Fatalf("failed to register resolvers: %s", err)
	}
}

func main() {
	lambda.Start(mux.Invoke)
}

func buildLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
