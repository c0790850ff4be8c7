package appsync

import (
	"encoding/json"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Event is the payload AppSync sends to a direct Lambda resolver.
// https://docs.aws.amazon.com/appsync/latest/devguide/resolver-context-reference.html
type Event struct {
	Arguments json.RawMessage        `json:"arguments"`
	Source    json.RawMessage        `json:"source"`
	Identity  *Identity              `json:"identity"`
	Request   Request                `json:"request"`
	Info      Info                   `json:"info"`
	Prev      json.RawMessage        `json:"prev"`
	Stash     map[string]interface{} `json:"stash"`
}

// Info identifies the field being resolved. AppSync owns the schema, so the
// field name is all the routing information a resolver gets.
type Info struct {
	FieldName           string                 `json:"fieldName"`
	ParentTypeName      string                 `json:"parentTypeName"`
	SelectionSetList    []string               `json:"selectionSetList"`
	SelectionSetGraphQL string                 `json:"selectionSetGraphQL"`
	Variables           map[string]interface{} `json:"variables"`
}

// Identity carries the caller identity AppSync attaches for authorized
// requests. Present for completeness, nothing in this service reads it.
type Identity struct {
	Sub      string   `json:"sub"`
	Username string   `json:"username"`
	Groups   []string `json:"groups"`
	SourceIP []string `json:"sourceIp"`
}

type Request struct {
	Headers map[string]string `json:"headers"`
}

// DecodeArguments unmarshals the field arguments into out.
func (e *Event) DecodeArguments(out interface{}) error {
	if len(e.Arguments) == 0 {
		return nil
	}
	if err := jsonAPI.Unmarshal(e.Arguments, out); err != nil {
		return errors.Wrap(err, "failed to decode field arguments")
	}
	return nil
}
