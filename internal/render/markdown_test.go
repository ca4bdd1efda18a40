package render

import (
	"strings"
	"testing"
)

func TestMarkdown_Basic(t *testing.T) {
	out := string(Markdown("# Heading\n\nSome **bold** text."))

	if !strings.Contains(out, "<h1") {
		t.Errorf("missing heading in output: %s", out)
	}
	if !strings.Contains(out, "<strong>bold</strong>") {
		t.Errorf("missing bold in output: %s", out)
	}
}

func TestMarkdown_StripsScript(t *testing.T) {
	out := string(Markdown(`Hello <script>alert("xss")</script> world`))

	if strings.Contains(out, "<script") {
		t.Errorf("script tag survived sanitization: %s", out)
	}
	if !strings.Contains(out, "Hello") {
		t.Errorf("benign text was lost: %s", out)
	}
}

func TestMarkdown_StripsEventHandlers(t *testing.T) {
	out := string(Markdown(`<a href="https://example.com" onclick="steal()">link</a>`))

	if strings.Contains(out, "onclick") {
		t.Errorf("event handler survived sanitization: %s", out)
	}
}

func TestGravatarURL(t *testing.T) {
	// md5("a@x.com") is stable; case and whitespace are normalized.
	url := GravatarURL("a@x.com")
	if url != GravatarURL("  A@X.COM  ") {
		t.Error("gravatar URL should be case- and whitespace-insensitive")
	}
	if !strings.HasPrefix(url, "https://www.gravatar.com/avatar/") {
		t.Errorf("unexpected gravatar URL: %s", url)
	}
	if !strings.Contains(url, "d=retro") {
		t.Errorf("missing retro fallback: %s", url)
	}
}
