package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// AnswerRenderer renders model answers about code for the terminal.
type AnswerRenderer struct {
	tr   *glamour.TermRenderer
	lang string
}

// NewAnswerRenderer returns a renderer that wraps at width. Code fences
// without a language tag are highlighted as lang.
func NewAnswerRenderer(width int, lang string) (*AnswerRenderer, error) {
	style := GlamourStyle()
	margin := uint(0)
	style.Document.Margin = &margin
	style.Document.BlockPrefix = ""
	style.Document.BlockSuffix = ""
	// Same chroma theme as the diff and new-file previews.
	style.CodeBlock.Chroma = nil
	style.CodeBlock.Theme = codeTheme

	tr, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return &AnswerRenderer{tr: tr, lang: lang}, nil
}

// Render returns the rendered answer without surrounding blank lines.
func (r *AnswerRenderer) Render(answer string) (string, error) {
	out, err := r.tr.Render(TagFences(answer, r.lang))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// RenderAnswer renders answer at width. The answer comes back unchanged when
// it is blank or cannot be rendered.
func RenderAnswer(answer string, width int, lang string) string {
	if strings.TrimSpace(answer) == "" {
		return answer
	}
	r, err := NewAnswerRenderer(width, lang)
	if err != nil {
		return answer
	}
	out, err := r.Render(answer)
	if err != nil {
		return answer
	}
	return out
}

// TagFences adds lang to every opening ``` fence that has no tag of its own.
// Closing fences and tagged fences are left alone.
func TagFences(md, lang string) string {
	if lang == "" || !strings.Contains(md, "```") {
		return md
	}
	lines := strings.SplitAfter(md, "\n")
	open := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "```") {
			continue
		}
		if !open && trimmed == "```" {
			lines[i] = strings.Replace(line, "```", "```"+lang, 1)
		}
		open = !open
	}
	return strings.Join(lines, "")
}
