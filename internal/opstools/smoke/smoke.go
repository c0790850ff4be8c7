// Package smoke invokes a deployed resolver Lambda with AppSync-shaped
// events and checks the responses against expected values.
package smoke

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/lambda"
	"github.com/aws/aws-sdk-go/service/lambda/lambdaiface"
	"github.com/cenkalti/backoff/v4"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Fixture is one invocation to run against the deployed resolver.
type Fixture struct {
	// Field is the query field name to put in the event's info block.
	Field string `yaml:"field"`
	// Args become the event's arguments.
	Args map[string]string `yaml:"args"`
	// Expect maps gjson paths in the response payload to expected values.
	Expect map[string]string `yaml:"expect"`
}

// ParseFixtures reads a YAML fixtures document.
func ParseFixtures(data []byte) ([]Fixture, error) {
	var fixtures []Fixture
	if err := yaml.UnmarshalStrict(data, &fixtures); err != nil {
		return nil, errors.Wrap(err, "failed to parse fixtures file")
	}
	return fixtures, nil
}

// Payload builds the AppSync direct-resolver event for this fixture.
func (f *Fixture) Payload() ([]byte, error) {
	args := f.Args
	if args == nil {
		args = map[string]string{}
	}
	event := map[string]interface{}{
		"arguments": args,
		"identity":  nil,
		"source":    nil,
		"request": map[string]interface{}{
			"headers": map[string]string{},
		},
		"info": map[string]interface{}{
			"fieldName":      f.Field,
			"parentTypeName": "Query",
			"variables":      map[string]interface{}{},
		},
		"prev":  nil,
		"stash": map[string]interface{}{},
	}
	payload, err := jsonAPI.Marshal(event)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build event for field %q", f.Field)
	}
	return payload, nil
}

type Task struct {
	DryRun       bool
	NumRequests  int
	MaxRetries   int
	FunctionName string
	Logger       *zap.Logger
	LambdaClient lambdaiface.LambdaAPI
}

// Run invokes every fixture, NumRequests at a time, and combines the
// per-worker summaries.
func (t *Task) Run(ctx context.Context, fixtures []Fixture) (*Summary, error) {
	log := t.log()
	queue := make(chan Fixture)
	wg := sync.WaitGroup{}
	wg.Add(1)
	go func(out chan<- Fixture) {
		defer wg.Done()
		defer close(out)
		for _, f := range fixtures {
			select {
			case out <- f:
			case <-ctx.Done():
				return
			}
		}
	}(queue)

	numWorkers := t.numWorkers()
	// Record worker results without concurrency issues
	workerResults := make([]Summary, numWorkers)
	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		result := &workerResults[i]
		go func(in <-chan Fixture) {
			defer wg.Done()
			for f := range in {
				if t.DryRun {
					result.NumSkipped++
					log.Debug("dry run: skipping invocation", zap.String("fieldName", f.Field))
					continue
				}
				err := t.invoke(ctx, f)
				result.Observe(err)
				if err != nil {
					log.Error("invocation failed", zap.String("fieldName", f.Field), zap.Error(err))
				} else {
					log.Debug("invocation passed", zap.String("fieldName", f.Field))
				}
			}
		}(queue)
	}
	wg.Wait()
	result := CombineSummaries(workerResults...)
	return &result, result.Err()
}

func (t *Task) invoke(ctx context.Context, f Fixture) error {
	payload, err := f.Payload()
	if err != nil {
		return err
	}
	input := &lambda.InvokeInput{
		FunctionName: aws.String(t.FunctionName),
		Payload:      payload,
	}

	var output *lambda.InvokeOutput
	operation := func() error {
		out, err := t.LambdaClient.InvokeWithContext(ctx, input)
		if err != nil {
			if isThrottled(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		output = out
		return nil
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(t.maxRetries())), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return errors.Wrapf(err, "failed to invoke %q for field %q", t.FunctionName, f.Field)
	}
	if output.FunctionError != nil {
		return errors.Errorf("field %q: function error: %s %s",
			f.Field, aws.StringValue(output.FunctionError), string(output.Payload))
	}
	return verify(f, output.Payload)
}

func verify(f Fixture, payload []byte) (err error) {
	for path, want := range f.Expect {
		got := gjson.GetBytes(payload, path)
		if !got.Exists() {
			err = multierr.Append(err, errors.Errorf("field %q: response has no value at %q", f.Field, path))
			continue
		}
		if got.String() != want {
			err = multierr.Append(err, errors.Errorf("field %q: %q is %q, want %q", f.Field, path, got.String(), want))
		}
	}
	return err
}

func isThrottled(err error) bool {
	if awsErr, ok := err.(awserr.Error); ok {
		return awsErr.Code() == lambda.ErrCodeTooManyRequestsException
	}
	return false
}

func (t *Task) log() *zap.Logger {
	log := t.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return log.With(zap.String("functionName", t.FunctionName))
}

func (t *Task) numWorkers() int {
	numWorkers := t.NumRequests
	if numWorkers < 1 {
		numWorkers = 1
	}
	return numWorkers
}

func (t *Task) maxRetries() int {
	if t.MaxRetries < 0 {
		return 0
	}
	return t.MaxRetries
}

type Summary struct {
	// Number of fixtures invoked
	NumInvoked int64
	// Number of responses matching their expectations
	NumPassed int64
	// Number of failed or mismatched invocations
	NumFailed int64
	// Number of fixtures skipped by a dry run
	NumSkipped int64
	// Accumulate all failures here
	failures []error
}

func (s *Summary) Observe(err error) {
	s.NumInvoked++
	if err != nil {
		s.NumFailed++
		s.failures = append(s.failures, err)
		return
	}
	s.NumPassed++
}

func CombineSummaries(results ...Summary) (out Summary) {
	for _, r := range results {
		out.NumInvoked += r.NumInvoked
		out.NumPassed += r.NumPassed
		out.NumFailed += r.NumFailed
		out.NumSkipped += r.NumSkipped
		out.failures = append(out.failures, r.failures...)
	}
	return
}

func (s *Summary) Err() error {
	return multierr.Combine(s.failures...)
}
