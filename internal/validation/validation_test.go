package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"Already Canonical", "https://example.com/a/b", "https://example.com/a/b", false},
		{"Whitespace", "  https://example.com/a  ", "https://example.com/a", false},
		{"Upper Scheme And Host", "HTTPS://Example.COM/Path", "https://example.com/Path", false},
		{"Fragment Dropped", "https://example.com/a#section", "https://example.com/a", false},
		{"Default Port Dropped", "https://example.com:443/a", "https://example.com/a", false},
		{"HTTP Default Port Dropped", "http://example.com:80/a", "http://example.com/a", false},
		{"Custom Port Kept", "http://example.com:8080/a", "http://example.com:8080/a", false},
		{"Trailing Slash Dropped", "https://example.com/a/", "https://example.com/a", false},
		{"Root Slash Dropped", "https://example.com/", "https://example.com", false},
		{"Query Kept", "https://example.com/a?x=1", "https://example.com/a?x=1", false},
		{"Encoded Slash Kept", "https://x.com/a%2Fb", "https://x.com/a%2Fb", false},
		{"Encoded Slash Trailing Slash Dropped", "https://x.com/a%2Fb/", "https://x.com/a%2Fb", false},
		{"Empty", "", "", true},
		{"Relative", "/just/a/path", "", true},
		{"FTP", "ftp://example.com/file", "", true},
		{"Too Long", "https://example.com/" + strings.Repeat("a", MaxURLLength), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeURL(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeURL_Equivalence(t *testing.T) {
	t.Parallel()
	a, err := NormalizeURL("https://Blog.example.com:443/post/1/#comments")
	require.NoError(t, err)
	b, err := NormalizeURL("https://blog.example.com/post/1")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	encoded, err := NormalizeURL("https://x.com/a%2Fb")
	require.NoError(t, err)
	plain, err := NormalizeURL("https://x.com/a/b")
	require.NoError(t, err)
	assert.NotEqual(t, encoded, plain)
}

func TestNormalizeTags(t *testing.T) {
	t.Parallel()
	got, err := NormalizeTags([]string{" Go ", "#golang", "go", "", "  ", "Machine   Learning"})
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "golang", "machine-learning"}, got)

	_, err = NormalizeTags([]string{strings.Repeat("x", MaxTagLength+1)})
	assert.Error(t, err)

	many := make([]string, 0, MaxTags+1)
	for i := 0; i <= MaxTags; i++ {
		many = append(many, strings.Repeat("t", i+1))
	}
	_, err = NormalizeTags(many)
	assert.Error(t, err)

	dupes := []string{"a", "A", "#a", "b"}
	got, err = NormalizeTags(dupes)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestValidateEmoji(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		emoji   string
		wantErr bool
	}{
		{"Simple", "👍", false},
		{"ZWJ Sequence", "👨‍👩‍👧", false},
		{"Shortcode", ":tada:", false},
		{"Empty", "", true},
		{"Whitespace", "👍 ", true},
		{"Too Many Runes", "abcdefghi", true},
		{"Too Many Bytes", strings.Repeat("👍", 9), true},
		{"Invalid UTF8", string([]byte{0xff, 0xfe}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmoji(tt.emoji)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"Valid", "test_user123", false},
		{"Too Short", "tu", true},
		{"Too Long", strings.Repeat("a", 33), true},
		{"Upper Case", "TestUser", true},
		{"Illegal Chars", "user@123", true},
		{"Hyphen", "user-name", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizeUsername(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "janedoe_42", NormalizeUsername("  Jane.Doe_42 "))
	assert.Equal(t, "", NormalizeUsername("--"))
	assert.NoError(t, ValidateUsername(NormalizeUsername("Bob-Smith")))
}

func TestValidateText(t *testing.T) {
	t.Parallel()
	assert.Error(t, ValidateText("title", "   ", true, 10))
	assert.NoError(t, ValidateText("content", "", false, 10))
	assert.Error(t, ValidateText("content", strings.Repeat("é", 11), false, 10))
	assert.NoError(t, ValidateText("content", strings.Repeat("é", 10), false, 10))
}
