// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Limits applied to user-supplied content.
const (
	MaxTitleLength       = 300
	MaxContentLength     = 50000
	MaxCommentLength     = 10000
	MaxNoteLength        = 2000
	MaxURLLength         = 2048
	MaxTags              = 10
	MaxTagLength         = 32
	MaxEmojiBytes        = 32
	MaxEmojiRunes        = 8
	MaxServiceNameLength = 64
	MaxUsernameLength    = 32
)

var (
	usernameRegex   = regexp.MustCompile(`^[a-z0-9_]{3,32}$`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// NormalizeUsername lowercases the name and drops characters a username
// cannot hold.
func NormalizeUsername(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(raw)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateUsername checks if a username meets requirements
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username must be 3-32 characters of lowercase letters, numbers, and underscores")
	}
	return nil
}

// NormalizeURL canonicalises a link so that trivially different spellings of
// the same article compare equal. Only absolute http(s) URLs are accepted.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("url is required")
	}
	if len(raw) > MaxURLLength {
		return "", fmt.Errorf("url must not exceed %d characters", MaxURLLength)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("url must use http or https")
	}
	if u.Host == "" {
		return "", fmt.Errorf("url must be absolute")
	}

	host := strings.ToLower(u.Hostname())
	port := u.Port()
	if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
		port = ""
	}
	if port != "" {
		u.Host = host + ":" + port
	} else if strings.Contains(host, ":") {
		u.Host = "[" + host + "]"
	} else {
		u.Host = host
	}

	u.Fragment = ""
	u.RawFragment = ""
	// Trim on the escaped form so encoded slashes like %2F survive.
	if escaped := u.EscapedPath(); len(escaped) > 1 {
		escaped = strings.TrimRight(escaped, "/")
		if escaped == "" {
			escaped = "/"
		}
		path, err := url.PathUnescape(escaped)
		if err != nil {
			return "", fmt.Errorf("invalid url: %w", err)
		}
		u.Path = path
		u.RawPath = escaped
	}
	if u.Path == "/" && u.RawQuery == "" {
		u.Path = ""
		u.RawPath = ""
	}

	return u.String(), nil
}

// NormalizeTag returns the stored form of a tag name, or "" when nothing is left.
func NormalizeTag(raw string) string {
	tag := strings.ToLower(strings.TrimSpace(raw))
	tag = strings.TrimLeft(tag, "#")
	tag = strings.TrimSpace(tag)
	return whitespaceRegex.ReplaceAllString(tag, "-")
}

// NormalizeTags normalises, drops empties and deduplicates while keeping the
// first-seen order.
func NormalizeTags(raw []string) ([]string, error) {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		tag := NormalizeTag(r)
		if tag == "" {
			continue
		}
		if utf8.RuneCountInString(tag) > MaxTagLength {
			return nil, fmt.Errorf("tag %q must not exceed %d characters", tag, MaxTagLength)
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	if len(out) > MaxTags {
		return nil, fmt.Errorf("a post can have at most %d tags", MaxTags)
	}
	return out, nil
}

// ValidateEmoji checks the shape of a reaction key. It does not try to decide
// whether the value is a real emoji.
func ValidateEmoji(emoji string) error {
	if emoji == "" {
		return fmt.Errorf("emoji is required")
	}
	if len(emoji) > MaxEmojiBytes {
		return fmt.Errorf("emoji must not exceed %d bytes", MaxEmojiBytes)
	}
	if !utf8.ValidString(emoji) {
		return fmt.Errorf("emoji must be valid UTF-8")
	}
	if utf8.RuneCountInString(emoji) > MaxEmojiRunes {
		return fmt.Errorf("emoji must not exceed %d characters", MaxEmojiRunes)
	}
	for _, r := range emoji {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return fmt.Errorf("emoji cannot contain whitespace")
		}
	}
	return nil
}

// ValidateText enforces required/max-length rules on a free-text field.
func ValidateText(field, value string, required bool, maxLen int) error {
	if required && strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", field)
	}
	if utf8.RuneCountInString(value) > maxLen {
		return fmt.Errorf("%s must not exceed %d characters", field, maxLen)
	}
	return nil
}
