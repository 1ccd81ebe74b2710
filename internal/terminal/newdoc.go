package terminal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/gosimple/slug"
)

// ExtensionFor maps a document kind to a file extension. Kinds that already
// are extensions ("py", "go") are kept; language names ("python") are
// resolved through chroma's filename patterns.
func ExtensionFor(kind string) string {
	kind = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(kind)), ".")
	if kind == "" {
		return "txt"
	}
	if lexers.Match("file."+kind) != nil {
		return kind
	}
	if lexer := lexers.Get(kind); lexer != nil {
		for _, pattern := range lexer.Config().Filenames {
			ext, ok := strings.CutPrefix(pattern, "*.")
			if ok && !strings.ContainsAny(ext, "*?[") {
				return ext
			}
		}
	}
	return kind
}

// DocumentName builds the file name for a new document: the slug of name
// (or "untitled") with the extension for kind.
func DocumentName(name, kind string) string {
	ext := ExtensionFor(kind)
	base := strings.TrimSuffix(name, "."+ext)
	s := slug.Make(base)
	if s == "" {
		s = "untitled"
	}
	return s + "." + ext
}

// UniquePath returns dir/name, or dir/<stem>-N.<ext> for the first N that
// does not exist yet.
func UniquePath(dir, name string) (string, error) {
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path, nil
	} else if err != nil {
		return "", err
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 2; i < 10000; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s-%d%s", stem, i, ext))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no free file name for %s in %s", name, dir)
}
