package blog

import (
	"context"

	"github.com/pkg/errors"

	"github.com/blogcore/post-resolver/internal/core/post_resolver/appsync"
)

// Query field names as declared by each schema revision.
const (
	FieldGetPost           = "getPost"
	FieldGetPostWithAuthor = "getPostWithAuthor"
)

// Register wires the resolvers for one schema revision into the mux. Each
// deployment serves exactly one revision.
func Register(m *appsync.Mux, schemaVersion string) error {
	switch schemaVersion {
	case "v1":
		m.Register(FieldGetPost, resolvePost(GetPost))
	case "v2":
		m.Register(FieldGetPostWithAuthor, resolvePost(GetPostWithAuthor))
	default:
		return errors.Errorf("unknown schema version %q", schemaVersion)
	}
	return nil
}

func resolvePost(fn func(context.Context, PostArgs) (*Post, error)) appsync.ResolverFunc {
	return func(ctx context.Context, event *appsync.Event) (interface{}, error) {
		var args PostArgs
		if err := event.DecodeArguments(&args); err != nil {
			return nil, err
		}
		return fn(ctx, args)
	}
}
