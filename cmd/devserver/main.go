package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/blogcore/post-resolver/internal/core/post_resolver/appsync"
	"github.com/blogcore/post-resolver/internal/core/post_resolver/blog"
	"github.com/blogcore/post-resolver/internal/core/post_resolver/config"
	"github.com/blogcore/post-resolver/internal/core/resolver_http/api"
)

func main() {
	// .env is optional, env vars win either way
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %s", err)
	}

	logger, err := buildLogger(cfg.Debug)
	if err != nil {
		log.Fatalf("failed to start logger: %s", err)
	}

	resolvers := appsync.NewMux(logger)
	if err := blog.Register(resolvers, cfg.SchemaVersion); err != nil {
		logger.Sugar().Fatalf("failed to register resolvers: %s", err)
	}

	router := api.NewRouter(resolvers, logger)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Sugar().Infof("serving %s schema resolvers on http://localhost%s/resolve", cfg.SchemaVersion, addr)
	log.Fatal(http.ListenAndServe(addr, router))
}

func buildLogger(debug bool) (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	if !debug {
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return config.Build()
}
