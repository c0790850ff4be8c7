package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogcore/post-resolver/internal/core/post_resolver/appsync"
	"github.com/blogcore/post-resolver/internal/core/post_resolver/blog"
)

func TestQueryFields(t *testing.T) {
	v1, err := QueryFields("v1")
	require.NoError(t, err)
	assert.Equal(t, []string{"getPost"}, v1)

	v2, err := QueryFields("v2")
	require.NoError(t, err)
	assert.Equal(t, []string{"getPostWithAuthor"}, v2)
}

func TestUnknownVersion(t *testing.T) {
	_, err := Load("v3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "v3")
}

func TestAuthorOnlyInRevisedSchema(t *testing.T) {
	v1, err := Load("v1")
	require.NoError(t, err)
	require.Contains(t, v1.Types, "Post")
	assert.Nil(t, v1.Types["Post"].Fields.ForName("author"))
	assert.NotContains(t, v1.Types, "Author")

	v2, err := Load("v2")
	require.NoError(t, err)
	require.Contains(t, v2.Types, "Post")
	author := v2.Types["Post"].Fields.ForName("author")
	require.NotNil(t, author)
	assert.Equal(t, "Author", author.Type.Name())
}

// Every query field a schema revision declares must have a resolver
// registered for it, and nothing more.
func TestResolversCoverSchema(t *testing.T) {
	for _, version := range Versions() {
		m := appsync.NewMux(nil)
		require.NoError(t, blog.Register(m, version))

		declared, err := QueryFields(version)
		require.NoError(t, err)
		assert.Equal(t, declared, m.Fields(), "schema %s", version)
	}
}
