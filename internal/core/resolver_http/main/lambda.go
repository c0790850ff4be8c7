package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/gorillamux"
	"go.uber.org/zap"

	"github.com/blogcore/post-resolver/internal/core/post_resolver/appsync"
	"github.com/blogcore/post-resolver/internal/core/post_resolver/blog"
	"github.com/blogcore/post-resolver/internal/core/post_resolver/config"
	"github.com/blogcore/post-resolver/internal/core/resolver_http/api"
)

var muxAdapter *gorillamux.GorillaMuxAdapter

func init() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %s", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to start logger: %s", err)
	}

	resolvers := appsync.NewMux(logger.With(zap.String("schemaVersion", cfg.SchemaVersion)))
	if err := blog.Register(resolvers, cfg.SchemaVersion); err != nil {
		log.Fatalf("failed to register resolvers: %s", err)
	}

	muxAdapter = gorillamux.New(api.NewRouter(resolvers, logger))
}

func Handler(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	rsp, err := muxAdapter.ProxyWithContext(ctx, req)
	if err != nil {
		log.Println(err)
	}
	return rsp, err
}

func main() {
	lambda.Start(Handler)
}
