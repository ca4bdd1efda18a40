package render

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// htmlSanitizer strips unsafe markup from rendered content. UGCPolicy
// allows the tags reasonable in user-generated content and nothing
// executable.
var htmlSanitizer = bluemonday.UGCPolicy()

// Markdown converts Markdown to sanitized HTML for template output.
// Post bodies and comments both pass through here, so even
// admin-authored markup is sanitized.
func Markdown(source string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(source), &buf); err != nil {
		slog.Error("markdown conversion failed", "error", err)
		return template.HTML(template.HTMLEscapeString(source))
	}
	return template.HTML(htmlSanitizer.SanitizeBytes(buf.Bytes()))
}

// GravatarURL returns the Gravatar avatar URL for an email address
// (100px, "retro" fallback), used for comment author avatars.
func GravatarURL(email string) string {
	digest := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=100&d=retro&r=g", digest)
}
