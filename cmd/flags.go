package cmd

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/samsaffron/term-copilot/internal/terminal"
	"github.com/spf13/cobra"
)

// AddFileFlag adds the --file/-f flag naming the active document
func AddFileFlag(cmd *cobra.Command, dest *string, usage string) {
	cmd.Flags().StringVarP(dest, "file", "f", "", usage)
}

var (
	lineRangeRe = regexp.MustCompile(`^(\d*)[:-](\d*)$`)
	fileSpecRe  = regexp.MustCompile(`^(.+?):(\d*-\d*|\d+)$`)
)

// parseLineRange parses a 1-based range of lines:
//   - 7      - line 7
//   - 10:42  - lines 10-42 (10-42 works too)
//   - 11:    - line 11 to end of file
//   - :22    - lines 1-22
func parseLineRange(s string) (terminal.LineRange, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return terminal.LineRange{}, nil
	}

	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 {
			return terminal.LineRange{}, fmt.Errorf("invalid line range %q: lines start at 1", s)
		}
		return terminal.LineRange{Start: n, End: n}, nil
	}

	m := lineRangeRe.FindStringSubmatch(s)
	if m == nil || (m[1] == "" && m[2] == "") {
		return terminal.LineRange{}, fmt.Errorf("invalid line range %q: use start:end", s)
	}
	r := terminal.LineRange{Start: 1, End: math.MaxInt}
	if m[1] != "" {
		r.Start, _ = strconv.Atoi(m[1])
	}
	if m[2] != "" {
		r.End, _ = strconv.Atoi(m[2])
	}
	if r.Start < 1 || r.End < r.Start {
		return terminal.LineRange{}, fmt.Errorf("invalid line range %q: end must not be before start", s)
	}
	return r, nil
}

// parseFileSpec splits a file specification like "main.go:11-22" into the
// path and its line range. A plain path has no range.
func parseFileSpec(spec string) (string, terminal.LineRange, error) {
	m := fileSpecRe.FindStringSubmatch(spec)
	if m == nil {
		return spec, terminal.LineRange{}, nil
	}
	r, err := parseLineRange(m[2])
	if err != nil {
		return "", terminal.LineRange{}, err
	}
	return m[1], r, nil
}
