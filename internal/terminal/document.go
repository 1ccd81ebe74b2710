package terminal

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
)

// Cursor is a 1-based position in a document. A Line of 0 means the end of
// the document; a Col of 0 means the end of the line.
type Cursor struct {
	Line int
	Col  int
}

// LineRange is an inclusive, 1-based range of lines. The zero value selects
// nothing.
type LineRange struct {
	Start int
	End   int
}

// IsZero reports whether r selects nothing.
func (r LineRange) IsZero() bool { return r.Start <= 0 }

// DetectKind returns the lower-cased language name chroma associates with
// path, falling back to the bare extension.
func DetectKind(path string) string {
	if path == "" {
		return ""
	}
	if lexer := lexers.Match(filepath.Base(path)); lexer != nil {
		return strings.ToLower(lexer.Config().Name)
	}
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// InsertAt returns content with text inserted at c. Positions past the end
// of a line or of the document are clamped.
func InsertAt(content string, c Cursor, text string) string {
	off := Offset(content, c)
	return content[:off] + text + content[off:]
}

// Offset converts c to a byte offset in content. Columns count runes.
func Offset(content string, c Cursor) int {
	if c.Line <= 0 {
		return len(content)
	}

	start := 0
	for line := 1; line < c.Line; line++ {
		i := strings.IndexByte(content[start:], '\n')
		if i < 0 {
			return len(content)
		}
		start += i + 1
	}

	end := strings.IndexByte(content[start:], '\n')
	if end < 0 {
		end = len(content)
	} else {
		end += start
	}
	lineText := strings.TrimSuffix(content[start:end], "\r")
	if c.Col <= 0 {
		return start + len(lineText)
	}

	col := 1
	for i := range lineText {
		if col == c.Col {
			return start + i
		}
		col++
	}
	return start + len(lineText)
}

// SelectLines returns the lines of content covered by r, joined with their
// original line endings.
func SelectLines(content string, r LineRange) string {
	if r.IsZero() || content == "" {
		return ""
	}
	end := r.End
	if end < r.Start {
		end = r.Start
	}

	lines := strings.SplitAfter(content, "\n")
	if r.Start > len(lines) {
		return ""
	}
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[r.Start-1:end], "")
}
