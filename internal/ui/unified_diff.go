package ui

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	diff "github.com/shogoki/gotextdiff"
)

var (
	diffAddBg    = [3]int{30, 60, 30} // dark green tint
	diffRemoveBg = [3]int{60, 30, 30} // dark red tint
)

var hunkRe = regexp.MustCompile(`^@@ -(\d+)(?:,\d+)? \+(\d+)(?:,\d+)? @@`)

// WriteUnifiedDiff writes a colored, line-numbered unified diff of a change
// to filePath. Nothing is written when the contents are equal.
func WriteUnifiedDiff(w io.Writer, filePath, oldContent, newContent string) {
	if oldContent == newContent {
		return
	}

	styles := NewStyles(w)
	fmt.Fprintf(w, "%s %s\n", styles.Bold.Render("Edit:"), filePath)

	diffBytes := diff.Diff(filePath, []byte(oldContent), filePath, []byte(newContent))
	if len(diffBytes) == 0 {
		return
	}

	highlighter := NewHighlighter(filePath)

	oldLines := strings.Count(oldContent, "\n") + 1
	newLines := strings.Count(newContent, "\n") + 1
	lineNumWidth := len(strconv.Itoa(max(oldLines, newLines)))
	if lineNumWidth < 3 {
		lineNumWidth = 3
	}

	var newLineNum int
	var deletionOffset int // position within a run of deleted lines
	hunkCount := 0

	for _, line := range strings.Split(string(diffBytes), "\n") {
		if strings.HasPrefix(line, "diff ") ||
			strings.HasPrefix(line, "--- ") ||
			strings.HasPrefix(line, "+++ ") {
			continue
		}
		if len(line) == 0 {
			continue
		}

		prefix := line[0]
		content := line[1:]

		switch prefix {
		case '@':
			if matches := hunkRe.FindStringSubmatch(line); matches != nil {
				newLineNum, _ = strconv.Atoi(matches[2])
			}
			if hunkCount > 0 {
				fmt.Fprintf(w, "\x1b[38;2;100;100;100m%s\x1b[0m\n", strings.Repeat(" ", lineNumWidth)+"  ...")
			}
			hunkCount++

		case '-':
			// Deleted lines are numbered at their virtual position in the new file
			fmt.Fprintf(w, "\x1b[38;2;160;80;80m%*d- \x1b[0m%s\n", lineNumWidth, newLineNum+deletionOffset, withBg(highlighter, content, diffRemoveBg))
			deletionOffset++

		case '+':
			deletionOffset = 0
			fmt.Fprintf(w, "\x1b[38;2;80;160;80m%*d+ \x1b[0m%s\n", lineNumWidth, newLineNum, withBg(highlighter, content, diffAddBg))
			newLineNum++

		case ' ':
			deletionOffset = 0
			fmt.Fprintf(w, "\x1b[38;2;100;100;100m%*d  \x1b[0m%s\n", lineNumWidth, newLineNum, highlighter.HighlightLine(content))
			newLineNum++

		default:
			fmt.Fprintln(w, line)
		}
	}
}

func withBg(h *Highlighter, content string, bg [3]int) string {
	if h != nil {
		return h.HighlightLineWithBg(content, bg)
	}
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm%s\x1b[0m", bg[0], bg[1], bg[2], content)
}
