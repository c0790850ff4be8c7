package appsync

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"go.uber.org/zap"
)

// ResolverFunc produces the value for one GraphQL field.
type ResolverFunc func(ctx context.Context, event *Event) (interface{}, error)

// Mux routes AppSync invocations to the resolver registered for the
// requested field.
type Mux struct {
	resolvers map[string]ResolverFunc
	log       *zap.Logger
}

func NewMux(log *zap.Logger) *Mux {
	if log == nil {
		log = zap.NewNop()
	}
	return &Mux{
		resolvers: map[string]ResolverFunc{},
		log:       log,
	}
}

// Register binds a resolver to a query field name. Registering the same
// field twice panics, the way conflicting http routes do.
func (m *Mux) Register(field string, fn ResolverFunc) {
	if _, ok := m.resolvers[field]; ok {
		panic("appsync: duplicate resolver for field " + field)
	}
	m.resolvers[field] = fn
}

// Fields returns the registered field names, sorted.
func (m *Mux) Fields() []string {
	fields := make([]string, 0, len(m.resolvers))
	for field := range m.resolvers {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// Invoke is the Lambda handler. Taking the raw payload keeps unmarshaling
// under our control instead of the Lambda runtime's.
func (m *Mux) Invoke(ctx context.Context, payload json.RawMessage) (interface{}, error) {
	var event Event
	if err := jsonAPI.Unmarshal(payload, &event); err != nil {
		m.log.Error("failed to decode invocation payload", zap.Error(err))
		return nil, gqlerror.Errorf("malformed resolver invocation: %s", err)
	}

	log := m.log.With(
		zap.String("fieldName", event.Info.FieldName),
		zap.String("parentTypeName", event.Info.ParentTypeName),
	)
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		log = log.With(zap.String("awsRequestID", lc.AwsRequestID))
	}

	resolve, ok := m.resolvers[event.Info.FieldName]
	if !ok {
		log.Warn("no resolver registered for field")
		return nil, gqlerror.Errorf("no resolver registered for field %q", event.Info.FieldName)
	}

	value, err := resolve(ctx, &event)
	if err != nil {
		log.Error("resolver failed", zap.Error(err))
		return nil, gqlerror.Errorf(err.Error())
	}
	log.Debug("field resolved")
	return value, nil
}
