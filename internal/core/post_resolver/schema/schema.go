// Package schema keeps the GraphQL documents the resolvers are written
// against. The live schema is defined in AppSync, not here; these are the
// contract, and tests use them to catch drift between the schema and the
// registered resolvers.
package schema

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	gqlparser "github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// SDLv1 is the initial schema revision: a single getPost query and no
// author on Post.
const SDLv1 = `
type Reply {
  id: ID!
  text: String!
}

type Comment {
  id: ID!
  text: String!
  replies: [Reply!]!
}

type Post {
  id: ID!
  title: String!
  content: String!
  comments: [Comment!]!
}

type Query {
  getPost(id: ID!): Post
}
`

// SDLv2 is the revised schema: the query is renamed and Post gains an
// author.
const SDLv2 = `
type Reply {
  id: ID!
  text: String!
}

type Comment {
  id: ID!
  text: String!
  replies: [Reply!]!
}

type Author {
  id: ID!
  name: String!
}

type Post {
  id: ID!
  title: String!
  content: String!
  author: Author
  comments: [Comment!]!
}

type Query {
  getPostWithAuthor(id: ID!): Post
}
`

var sdlByVersion = map[string]string{
	"v1": SDLv1,
	"v2": SDLv2,
}

// Versions lists the known schema revisions, oldest first.
func Versions() []string {
	return []string{"v1", "v2"}
}

// Load parses the schema document for a version.
func Load(version string) (*ast.Schema, error) {
	sdl, ok := sdlByVersion[version]
	if !ok {
		return nil, errors.Errorf("unknown schema version %q", version)
	}
	s, err := gqlparser.LoadSchema(&ast.Source{
		Name:  "schema-" + version + ".graphql",
		Input: sdl,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s schema", version)
	}
	return s, nil
}

// QueryFields lists the root query field names a schema version declares,
// sorted.
func QueryFields(version string) ([]string, error) {
	s, err := Load(version)
	if err != nil {
		return nil, err
	}
	var fields []string
	for _, f := range s.Query.Fields {
		// skip introspection fields added by the parser
		if strings.HasPrefix(f.Name, "__") {
			continue
		}
		fields = append(fields, f.Name)
	}
	sort.Strings(fields)
	return fields, nil
}
