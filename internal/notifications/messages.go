package notifications

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const excerptLength = 200

// PostLink returns the public URL of a post page.
func PostLink(baseURL string, postID uint) string {
	return fmt.Sprintf("%s/posts/%d", strings.TrimRight(baseURL, "/"), postID)
}

// NewPostMessage announces a freshly shared article.
func NewPostMessage(baseURL string, postID uint, author, title, articleURL string, tags []string) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "📚 %s shared a new article: %s\n%s", displayName(author), title, articleURL)
	if len(tags) > 0 {
		fmt.Fprintf(&b, "\nTags: #%s", strings.Join(tags, " #"))
	}
	fmt.Fprintf(&b, "\n%s", PostLink(baseURL, postID))
	return Message{Text: b.String()}
}

// CommentMessage tells a post author someone commented on their post.
func CommentMessage(baseURL string, postID uint, commenter, postTitle, content string) Message {
	return Message{Text: fmt.Sprintf("💬 %s commented on \"%s\": %s\n%s",
		displayName(commenter), postTitle, excerpt(content), PostLink(baseURL, postID))}
}

// ReplyMessage tells a comment author someone replied to them.
func ReplyMessage(baseURL string, postID uint, replier, postTitle, content string) Message {
	return Message{Text: fmt.Sprintf("↩️ %s replied to your comment on \"%s\": %s\n%s",
		displayName(replier), postTitle, excerpt(content), PostLink(baseURL, postID))}
}

func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "Someone"
	}
	return name
}

func excerpt(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= excerptLength {
		return s
	}
	r := []rune(s)
	return string(r[:excerptLength]) + "…"
}
