package smoke

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/lambda"
	"github.com/aws/aws-sdk-go/service/lambda/lambdaiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type fakeLambda struct {
	lambdaiface.LambdaAPI
	invoke func(*lambda.InvokeInput) (*lambda.InvokeOutput, error)
	calls  int64
}

func (f *fakeLambda) InvokeWithContext(_ aws.Context, input *lambda.InvokeInput, _ ...request.Option) (*lambda.InvokeOutput, error) {
	atomic.AddInt64(&f.calls, 1)
	return f.invoke(input)
}

const fixturesYAML = `
- field: getPost
  args:
    id: "123"
  expect:
    id: "123"
    title: Deep Dive into GraphQL
- field: getPost
  args:
    id: "42"
  expect:
    id: "42"
`

func TestParseFixtures(t *testing.T) {
	fixtures, err := ParseFixtures([]byte(fixturesYAML))
	require.NoError(t, err)
	require.Len(t, fixtures, 2)
	assert.Equal(t, "getPost", fixtures[0].Field)
	assert.Equal(t, map[string]string{"id": "123"}, fixtures[0].Args)
	assert.Equal(t, "Deep Dive into GraphQL", fixtures[0].Expect["title"])
}

func TestParseFixturesRejectsUnknownKeys(t *testing.T) {
	_, err := ParseFixtures([]byte("- field: getPost\n  arguments: {}\n"))
	require.Error(t, err)
}

func TestFixturePayload(t *testing.T) {
	f := Fixture{Field: "getPost", Args: map[string]string{"id": "123"}}
	payload, err := f.Payload()
	require.NoError(t, err)

	assert.Equal(t, "getPost", gjson.GetBytes(payload, "info.fieldName").String())
	assert.Equal(t, "Query", gjson.GetBytes(payload, "info.parentTypeName").String())
	assert.Equal(t, "123", gjson.GetBytes(payload, "arguments.id").String())
}

func TestRunVerifiesResponses(t *testing.T) {
	client := &fakeLambda{
		invoke: func(input *lambda.InvokeInput) (*lambda.InvokeOutput, error) {
			id := gjson.GetBytes(input.Payload, "arguments.id").String()
			return &lambda.InvokeOutput{
				Payload: []byte(`{"id": "` + id + `", "title": "Deep Dive into GraphQL"}`),
			}, nil
		},
	}
	task := Task{
		NumRequests:  2,
		FunctionName: "appsync-post-resolver",
		LambdaClient: client,
	}

	fixtures, err := ParseFixtures([]byte(fixturesYAML))
	require.NoError(t, err)

	result, err := task.Run(context.Background(), fixtures)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.NumInvoked)
	assert.Equal(t, int64(2), result.NumPassed)
	assert.Equal(t, int64(0), result.NumFailed)
	assert.Equal(t, int64(2), atomic.LoadInt64(&client.calls))
}

func TestRunReportsMismatch(t *testing.T) {
	client := &fakeLambda{
		invoke: func(*lambda.InvokeInput) (*lambda.InvokeOutput, error) {
			return &lambda.InvokeOutput{Payload: []byte(`{"id": "999"}`)}, nil
		},
	}
	task := Task{FunctionName: "appsync-post-resolver", LambdaClient: client}

	fixtures := []Fixture{{
		Field:  "getPost",
		Args:   map[string]string{"id": "123"},
		Expect: map[string]string{"id": "123", "title": "Deep Dive into GraphQL"},
	}}

	result, err := task.Run(context.Background(), fixtures)
	require.Error(t, err)
	assert.Equal(t, int64(1), result.NumFailed)
	assert.Contains(t, err.Error(), `"id" is "999"`)
}

func TestRunReportsFunctionError(t *testing.T) {
	client := &fakeLambda{
		invoke: func(*lambda.InvokeInput) (*lambda.InvokeOutput, error) {
			return &lambda.InvokeOutput{
				FunctionError: aws.String("Unhandled"),
				Payload:       []byte(`{"errorMessage": "boom"}`),
			}, nil
		},
	}
	task := Task{FunctionName: "appsync-post-resolver", LambdaClient: client}

	result, err := task.Run(context.Background(), []Fixture{{Field: "getPost"}})
	require.Error(t, err)
	assert.Equal(t, int64(1), result.NumFailed)
	assert.Contains(t, err.Error(), "Unhandled")
}

func TestRunRetriesThrottling(t *testing.T) {
	throttle := awserr.New(lambda.ErrCodeTooManyRequestsException, "rate exceeded", nil)
	var attempts int64
	client := &fakeLambda{
		invoke: func(*lambda.InvokeInput) (*lambda.InvokeOutput, error) {
			if atomic.AddInt64(&attempts, 1) == 1 {
				return nil, throttle
			}
			return &lambda.InvokeOutput{Payload: []byte(`{"id": "123"}`)}, nil
		},
	}
	task := Task{
		MaxRetries:   3,
		FunctionName: "appsync-post-resolver",
		LambdaClient: client,
	}

	fixtures := []Fixture{{
		Field:  "getPost",
		Args:   map[string]string{"id": "123"},
		Expect: map[string]string{"id": "123"},
	}}
	result, err := task.Run(context.Background(), fixtures)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.NumPassed)
	assert.Equal(t, int64(2), atomic.LoadInt64(&attempts))
}

func TestRunDryRun(t *testing.T) {
	client := &fakeLambda{
		invoke: func(*lambda.InvokeInput) (*lambda.InvokeOutput, error) {
			return &lambda.InvokeOutput{Payload: []byte(`{}`)}, nil
		},
	}
	task := Task{
		DryRun:       true,
		FunctionName: "appsync-post-resolver",
		LambdaClient: client,
	}

	result, err := task.Run(context.Background(), []Fixture{{Field: "getPost"}})
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.NumInvoked)
	assert.Equal(t, int64(1), result.NumSkipped)
	assert.Equal(t, int64(0), atomic.LoadInt64(&client.calls), "dry run must not invoke the Lambda")
}

func TestCombineSummaries(t *testing.T) {
	combined := CombineSummaries(
		Summary{NumInvoked: 2, NumPassed: 1, NumFailed: 1, failures: []error{assert.AnError}},
		Summary{NumInvoked: 3, NumPassed: 3},
		Summary{NumSkipped: 1},
	)
	assert.Equal(t, int64(5), combined.NumInvoked)
	assert.Equal(t, int64(4), combined.NumPassed)
	assert.Equal(t, int64(1), combined.NumFailed)
	assert.Equal(t, int64(1), combined.NumSkipped)
	assert.Error(t, combined.Err())
}
