// Package extract pulls code out of free-form model replies.
package extract

import (
	"regexp"
)

// Block is a fenced code block found in a model reply.
type Block struct {
	Lang string // language tag from the opening fence, may be empty
	Code string // content between the fences, tag line removed
}

var (
	// fenceRe matches the first ``` pair; the body is non-greedy so later
	// blocks are never merged into the first one.
	fenceRe = regexp.MustCompile("(?s)```(.*?)```")

	// langTagRe matches a language tag that sits alone on the opening line.
	// The newline is captured so it stays part of the code.
	langTagRe = regexp.MustCompile(`^([A-Za-z0-9_+#.\-]+)(\r?\n)`)
)

// First returns the first fenced block in text.
// ok is false when text has no complete ``` pair.
func First(text string) (Block, bool) {
	m := fenceRe.FindStringSubmatch(text)
	if m == nil {
		return Block{}, false
	}
	body := m[1]
	if tag := langTagRe.FindStringSubmatch(body); tag != nil {
		return Block{Lang: tag[1], Code: body[len(tag[1]):]}, true
	}
	return Block{Code: body}, true
}

// Code returns the content of the first fenced block in text, or "" when
// there is none. An empty result means "nothing to insert", not an error.
func Code(text string) string {
	b, _ := First(text)
	return b.Code
}
