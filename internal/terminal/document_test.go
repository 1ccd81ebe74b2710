package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectKind(t *testing.T) {
	tests := map[string]string{
		"main.go":         "go",
		"script.py":       "python",
		"app.js":          "javascript",
		"notes.unknownzz": "unknownzz",
		"":                "",
	}
	for path, want := range tests {
		assert.Equal(t, want, DetectKind(path), path)
	}
}

func TestInsertAt(t *testing.T) {
	doc := "line1\nline2\nline3\n"
	tests := []struct {
		name string
		c    Cursor
		text string
		want string
	}{
		{"end of document", Cursor{}, "x", doc + "x"},
		{"start of line 2", Cursor{Line: 2, Col: 1}, "# ", "line1\n# line2\nline3\n"},
		{"middle of line", Cursor{Line: 1, Col: 3}, "_", "li_ne1\nline2\nline3\n"},
		{"end of line 1", Cursor{Line: 1}, "\ndef add(a,b): return a+b", "line1\ndef add(a,b): return a+b\nline2\nline3\n"},
		{"column past end", Cursor{Line: 3, Col: 99}, "!", "line1\nline2\nline3!\n"},
		{"line past end", Cursor{Line: 50, Col: 1}, "z", doc + "z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InsertAt(doc, tt.c, tt.text))
		})
	}
}

func TestOffsetCountsRunes(t *testing.T) {
	doc := "héllo\n"
	assert.Equal(t, 3, Offset(doc, Cursor{Line: 1, Col: 3}))
	assert.Equal(t, len("héllo"), Offset(doc, Cursor{Line: 1}))
}

func TestOffsetCRLF(t *testing.T) {
	doc := "a\r\nb\r\n"
	assert.Equal(t, 1, Offset(doc, Cursor{Line: 1}))
	assert.Equal(t, 4, Offset(doc, Cursor{Line: 2}))
}

func TestSelectLines(t *testing.T) {
	doc := "one\ntwo\nthree\nfour"
	assert.Equal(t, "two\nthree\n", SelectLines(doc, LineRange{Start: 2, End: 3}))
	assert.Equal(t, "four", SelectLines(doc, LineRange{Start: 4, End: 10}))
	assert.Equal(t, "one\n", SelectLines(doc, LineRange{Start: 1}))
	assert.Empty(t, SelectLines(doc, LineRange{}))
	assert.Empty(t, SelectLines(doc, LineRange{Start: 9, End: 10}))
}
