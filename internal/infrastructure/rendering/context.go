package rendering

import (
	"fmt"
	"strings"

	"github.com/vykhand/mydocs2/internal/core/domain"
)

// MarkdownRenderer flattens extracted pages into the classifier context.
// Each page is introduced by a "## Page N" heading so the model can
// reference pages by number.
type MarkdownRenderer struct{}

func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

func (r *MarkdownRenderer) Render(pages []domain.Page, mode domain.ContentMode) string {
	var sb strings.Builder
	for i, page := range pages {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "## Page %d\n\n", page.PageNumber)
		sb.WriteString(pageContent(page, mode))
	}
	return sb.String()
}

func pageContent(page domain.Page, mode domain.ContentMode) string {
	switch mode {
	case domain.ContentModeHTML:
		if page.ContentHTML != "" {
			return page.ContentHTML
		}
	}
	if page.ContentMarkdown != "" {
		return page.ContentMarkdown
	}
	return page.Content
}
