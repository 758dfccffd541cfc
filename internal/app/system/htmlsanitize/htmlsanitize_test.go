package htmlsanitize

import (
	"strings"
	"testing"
)

func TestSanitize_StripsScripts(t *testing.T) {
	got := Sanitize(`<p>Hello</p><script>alert("x")</script>`)
	if strings.Contains(got, "script") {
		t.Errorf("Sanitize() kept a script tag: %q", got)
	}
	if !strings.Contains(got, "<p>Hello</p>") {
		t.Errorf("Sanitize() dropped safe markup: %q", got)
	}
}

func TestSanitize_StripsEventHandlers(t *testing.T) {
	got := Sanitize(`<b onclick="steal()">bold</b>`)
	if strings.Contains(got, "onclick") {
		t.Errorf("Sanitize() kept an event handler: %q", got)
	}
}

func TestSanitize_KeepsFormatting(t *testing.T) {
	in := `<p><strong>Fresh</strong> <em>daily</em></p><ul><li>one</li></ul>`
	got := Sanitize(in)
	for _, tag := range []string{"<strong>", "<em>", "<ul>", "<li>"} {
		if !strings.Contains(got, tag) {
			t.Errorf("Sanitize() dropped %s: %q", tag, got)
		}
	}
}

func TestSanitize_Empty(t *testing.T) {
	if got := Sanitize(""); got != "" {
		t.Errorf("Sanitize(empty) = %q", got)
	}
}

func TestIsPlainText(t *testing.T) {
	tests := []struct {
		content string
		want    bool
	}{
		{"just text", true},
		{"", true},
		{"a < b", true},
		{"<p>html</p>", false},
	}
	for _, tt := range tests {
		if got := IsPlainText(tt.content); got != tt.want {
			t.Errorf("IsPlainText(%q) = %v, want %v", tt.content, got, tt.want)
		}
	}
}

func TestPlainTextToHTML(t *testing.T) {
	got := PlainTextToHTML("line one\nline <two>")
	want := "<p>line one<br>line &lt;two&gt;</p>"
	if got != want {
		t.Errorf("PlainTextToHTML() = %q, want %q", got, want)
	}
}

func TestPrepareForDisplay(t *testing.T) {
	got := string(PrepareForDisplay("hello\nworld"))
	if !strings.Contains(got, "<br>") {
		t.Errorf("plain text should gain <br>: %q", got)
	}

	got = string(PrepareForDisplay(`<p>x</p><script>bad()</script>`))
	if strings.Contains(got, "script") {
		t.Errorf("HTML content should be sanitized: %q", got)
	}
}
