package ui

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// codeTheme is the chroma style for all code shown in the terminal; monokai
// keeps good contrast on dark backgrounds.
const codeTheme = "monokai"

// Highlighter applies terminal syntax highlighting for one language.
type Highlighter struct {
	lexer chroma.Lexer
	style *chroma.Style
}

// NewHighlighter creates a highlighter for the given file path.
// Returns nil if the language is not recognized.
func NewHighlighter(filePath string) *Highlighter {
	return newHighlighter(lexers.Match(filePath))
}

// NewHighlighterForLang creates a highlighter from a language name or alias
// such as "go" or "py". Returns nil if the language is not recognized.
func NewHighlighterForLang(lang string) *Highlighter {
	if lang == "" {
		return nil
	}
	return newHighlighter(lexers.Get(lang))
}

func newHighlighter(lexer chroma.Lexer) *Highlighter {
	if lexer == nil {
		return nil
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(codeTheme)
	if style == nil {
		style = styles.Fallback
	}
	return &Highlighter{lexer: lexer, style: style}
}

// HighlightLine applies syntax highlighting to a line without a background color.
func (h *Highlighter) HighlightLine(line string) string {
	return h.format(line, noBgFormatter{})
}

// HighlightLineWithBg applies syntax highlighting to a line with a specific background color.
// bg is an RGB array [r, g, b] for true color background.
func (h *Highlighter) HighlightLineWithBg(line string, bg [3]int) string {
	return h.format(line, bgFormatter{bg: bg})
}

// HighlightCode highlights a multi-line snippet line by line.
func (h *Highlighter) HighlightCode(code string) string {
	if h == nil {
		return code
	}
	lines := strings.Split(code, "\n")
	for i, l := range lines {
		lines[i] = h.HighlightLine(l)
	}
	return strings.Join(lines, "\n")
}

func (h *Highlighter) format(line string, f chroma.Formatter) string {
	if h == nil {
		return line
	}
	iterator, err := h.lexer.Tokenise(nil, line)
	if err != nil {
		return line
	}
	var buf strings.Builder
	if err := f.Format(&buf, h.style, iterator); err != nil {
		return line
	}
	return buf.String()
}

func tokenCodes(entry chroma.StyleEntry) []string {
	var codes []string
	if entry.Colour.IsSet() {
		codes = append(codes, fmt.Sprintf("38;2;%d;%d;%d", entry.Colour.Red(), entry.Colour.Green(), entry.Colour.Blue()))
	}
	if entry.Bold == chroma.Yes {
		codes = append(codes, "1")
	}
	if entry.Italic == chroma.Yes {
		codes = append(codes, "3")
	}
	if entry.Underline == chroma.Yes {
		codes = append(codes, "4")
	}
	return codes
}

// noBgFormatter is a Chroma formatter that applies only foreground colors
type noBgFormatter struct{}

func (noBgFormatter) Format(w io.Writer, style *chroma.Style, iterator chroma.Iterator) error {
	for token := iterator(); token != chroma.EOF; token = iterator() {
		value := strings.TrimRight(token.Value, "\n")
		if value == "" {
			continue
		}
		codes := tokenCodes(style.Get(token.Type))
		if len(codes) > 0 {
			fmt.Fprintf(w, "\x1b[%sm%s\x1b[0m", strings.Join(codes, ";"), value)
		} else {
			fmt.Fprint(w, value)
		}
	}
	return nil
}

// bgFormatter is a Chroma formatter that applies a consistent background color
type bgFormatter struct {
	bg [3]int
}

func (f bgFormatter) Format(w io.Writer, style *chroma.Style, iterator chroma.Iterator) error {
	for token := iterator(); token != chroma.EOF; token = iterator() {
		// Skip newlines; a trailing newline token would create phantom lines
		value := strings.TrimRight(token.Value, "\n")
		if value == "" {
			continue
		}
		codes := append([]string{fmt.Sprintf("48;2;%d;%d;%d", f.bg[0], f.bg[1], f.bg[2])}, tokenCodes(style.Get(token.Type))...)
		fmt.Fprintf(w, "\x1b[%sm%s", strings.Join(codes, ";"), value)
	}
	fmt.Fprint(w, "\x1b[0m")
	return nil
}

// ANSI escape code pattern for stripping/measuring
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripANSI removes all ANSI escape codes from a string
func StripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}
