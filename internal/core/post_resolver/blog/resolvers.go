package blog

import (
	"context"
)

// PostArgs are the arguments AppSync passes for the post queries.
type PostArgs struct {
	ID string `json:"id"`
}

const (
	postTitle   = "Deep Dive into GraphQL"
	postContent = "Content of the post..."
)

// GetPost resolves the initial schema's getPost query. Only the id comes
// from the request; everything else is the canned payload.
func GetPost(ctx context.Context, args PostArgs) (*Post, error) {
	return newPost(args.ID), nil
}

// GetPostWithAuthor resolves the revised schema's getPostWithAuthor query.
// Same payload as GetPost plus the author the revised schema declares.
func GetPostWithAuthor(ctx context.Context, args PostArgs) (*Post, error) {
	post := newPost(args.ID)
	post.Author = &Author{
		ID:   "author1",
		Name: "Jane Doe",
	}
	return post, nil
}

// Simulated fetch, replace with real data fetch logic.
func newPost(id string) *Post {
	return &Post{
		ID:      id,
		Title:   postTitle,
		Content: postContent,
		Comments: []*Comment{
			{
				ID:   "1",
				Text: "Great article!",
				Replies: []*Reply{
					{
						ID:   "1",
						Text: "Thank you!",
					},
				},
			},
		},
	}
}
