package rendering

import (
	"strings"
	"testing"

	"github.com/vykhand/mydocs2/internal/core/domain"
)

func TestRenderMarkdownMode(t *testing.T) {
	r := NewMarkdownRenderer()
	pages := []domain.Page{
		{PageNumber: 1, Content: "raw one", ContentMarkdown: "# one"},
		{PageNumber: 2, Content: "raw two"},
	}

	got := r.Render(pages, domain.ContentModeMarkdown)
	if !strings.Contains(got, "## Page 1\n\n# one") {
		t.Fatalf("expected markdown preferred for page 1, got %q", got)
	}
	if !strings.Contains(got, "## Page 2\n\nraw two") {
		t.Fatalf("expected plain content fallback for page 2, got %q", got)
	}
	if strings.Contains(got, "raw one") {
		t.Fatalf("expected raw content hidden when markdown present, got %q", got)
	}
}

func TestRenderHTMLModeFallsBackThroughMarkdown(t *testing.T) {
	r := NewMarkdownRenderer()
	pages := []domain.Page{
		{PageNumber: 1, Content: "raw", ContentMarkdown: "md", ContentHTML: "<p>html</p>"},
		{PageNumber: 2, Content: "raw", ContentMarkdown: "md"},
		{PageNumber: 3, Content: "raw"},
	}

	got := r.Render(pages, domain.ContentModeHTML)
	if !strings.Contains(got, "<p>html</p>") {
		t.Fatalf("expected html used when present, got %q", got)
	}
	if !strings.Contains(got, "## Page 2\n\nmd") {
		t.Fatalf("expected markdown fallback, got %q", got)
	}
	if !strings.Contains(got, "## Page 3\n\nraw") {
		t.Fatalf("expected raw fallback, got %q", got)
	}
}

func TestRenderEmpty(t *testing.T) {
	if got := NewMarkdownRenderer().Render(nil, domain.ContentModeMarkdown); got != "" {
		t.Fatalf("expected empty context, got %q", got)
	}
}
