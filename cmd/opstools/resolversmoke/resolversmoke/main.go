package main

import (
	"context"
	"flag"
	"io/ioutil"
	"log"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/lambda"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/blogcore/post-resolver/internal/opstools/smoke"
)

var opts = struct {
	Function    *string
	Fixtures    *string
	Field       *string
	ID          *string
	DryRun      *bool
	Debug       *bool
	Region      *string
	NumRequests *int
	MaxRetries  *int
}{
	Function:    flag.String("function", "appsync-post-resolver", "Name of the deployed resolver Lambda"),
	Fixtures:    flag.String("fixtures", "", "YAML file with invocations to run"),
	Field:       flag.String("field", "getPostWithAuthor", "Query field to invoke when no fixtures file is given"),
	ID:          flag.String("id", "123", "Post id argument when no fixtures file is given"),
	DryRun:      flag.Bool("dry-run", false, "List the invocations without calling the Lambda"),
	Debug:       flag.Bool("debug", false, "Enable additional logging"),
	Region:      flag.String("region", "", "Set the AWS region to run on"),
	MaxRetries:  flag.Int("max-retries", 5, "Max retries for throttled invocations"),
	NumRequests: flag.Int("num-requests", 4, "Number of parallel invocations"),
}

func main() {
	flag.Parse()
	logger, err := buildLogger(*opts.Debug)
	if err != nil {
		log.Fatalf("failed to start logger: %s", err)
	}

	sess, err := buildSession()
	if err != nil {
		logger.Fatalf("failed to start AWS session: %s", err)
	}

	fixtures, err := loadFixtures()
	if err != nil {
		logger.Fatalf("failed to load fixtures: %s", err)
	}

	task := smoke.Task{
		DryRun:       *opts.DryRun,
		NumRequests:  *opts.NumRequests,
		MaxRetries:   *opts.MaxRetries,
		FunctionName: *opts.Function,
		Logger:       logger.Desugar(),
		LambdaClient: lambda.New(sess),
	}

	logger.Infof("running %d invocations against %q", len(fixtures), *opts.Function)
	result, err := task.Run(context.Background(), fixtures)
	logger.Infof("number of invocations: %d", result.NumInvoked)
	logger.Infof("number passed: %d", result.NumPassed)
	logger.Infof("number failed: %d", result.NumFailed)
	if result.NumSkipped > 0 {
		logger.Infof("number skipped (dry run): %d", result.NumSkipped)
	}
	if err != nil {
		logger.Fatalf("smoke run failed: %s", err)
	}
}

func loadFixtures() ([]smoke.Fixture, error) {
	if *opts.Fixtures != "" {
		data, err := ioutil.ReadFile(*opts.Fixtures)
		if err != nil {
			return nil, err
		}
		return smoke.ParseFixtures(data)
	}
	return []smoke.Fixture{{
		Field:  *opts.Field,
		Args:   map[string]string{"id": *opts.ID},
		Expect: map[string]string{"id": *opts.ID},
	}}, nil
}

func buildSession() (*session.Session, error) {
	config := aws.Config{
		MaxRetries: opts.MaxRetries,
	}
	if *opts.Region != "" {
		config.Region = opts.Region
	}
	ss, err := session.NewSession(&config)
	if err != nil {
		return nil, err
	}
	if aws.StringValue(ss.Config.Region) == "" {
		return nil, errors.New("missing AWS region")
	}
	return ss, nil
}

func buildLogger(debug bool) (*zap.SugaredLogger, error) {
	config := zap.NewDevelopmentConfig()
	// Disable file/line numbers and error traces, use color-coded log levels and short timestamps
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	if !debug {
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
