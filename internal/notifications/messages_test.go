package notifications

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPostMessage(t *testing.T) {
	msg := NewPostMessage("https://hub.example.com/", 12, "Ada", "Go generics", "https://go.dev/blog/generics", []string{"go", "types"})

	assert.Contains(t, msg.Text, "Ada shared a new article: Go generics")
	assert.Contains(t, msg.Text, "https://go.dev/blog/generics")
	assert.Contains(t, msg.Text, "#go #types")
	assert.True(t, strings.HasSuffix(msg.Text, "https://hub.example.com/posts/12"))
}

func TestCommentAndReplyMessages(t *testing.T) {
	c := CommentMessage("http://localhost:5173", 3, "", "Title", "nice   read\n\nthanks")
	assert.Contains(t, c.Text, "Someone commented on \"Title\": nice read thanks")
	assert.Contains(t, c.Text, "http://localhost:5173/posts/3")

	r := ReplyMessage("http://localhost:5173", 3, "bob", "Title", strings.Repeat("a", 500))
	assert.Contains(t, r.Text, "bob replied to your comment")
	assert.Contains(t, r.Text, strings.Repeat("a", 200)+"…")
	assert.NotContains(t, r.Text, strings.Repeat("a", 201))
}
