package blog

// These shapes mirror the Post type tree declared in the AppSync schema.
// JSON field names follow the schema, so the structs marshal straight into
// the response AppSync expects from a Lambda resolver.

type Post struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`

	// Author is only declared in the revised schema.
	Author *Author `json:"author,omitempty"`

	Comments []*Comment `json:"comments"`
}

type Author struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Comment struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Replies []*Reply `json:"replies"`
}

type Reply struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}
