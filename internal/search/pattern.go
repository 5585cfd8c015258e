// Package search finds literal and regular-expression matches in a
// grid.Grid. Matches may continue across wrapped rows but always start on
// the row being searched.
package search

import (
	"errors"
	"fmt"
	"regexp"
	"regexp/syntax"
	"strings"

	"github.com/Gaurav-Gosain/copyscope/internal/grid"
	uv "github.com/charmbracelet/ultraviolet"
)

// ErrEmptyPattern is returned when compiling an empty search string.
var ErrEmptyPattern = errors.New("empty search pattern")

// regexChars are the characters that make a search string a regular
// expression. A string without any of them is searched literally.
const regexChars = `^$*+()?[].\`

// IsPlain reports whether s contains no regular expression syntax.
func IsPlain(s string) bool {
	return !strings.ContainsAny(s, regexChars)
}

// IsLowercase reports whether s has no upper case characters. Such strings
// are matched case-insensitively.
func IsLowercase(s string) bool {
	return strings.ToLower(s) == s
}

// Pattern is a compiled search string.
type Pattern struct {
	Text       string
	Regex      bool
	IgnoreCase bool

	// cells is the search string laid out as grid cells.
	cells []uv.Cell

	re *regexp.Regexp
	// reNotBOL is re with beginning-of-line anchors that can never match,
	// used when matching starts partway into a row.
	reNotBOL *regexp.Regexp
}

// Compile compiles text as a literal or, when regex is set, as a POSIX
// extended regular expression with leftmost-longest matching. Strings with no
// upper case characters match case-insensitively.
func Compile(text string, regex bool) (*Pattern, error) {
	if text == "" {
		return nil, ErrEmptyPattern
	}
	p := &Pattern{
		Text:       text,
		Regex:      regex,
		IgnoreCase: IsLowercase(text),
	}
	if !regex {
		p.cells = grid.Layout(len(text)*2+1, text)[0].Cells
		if len(p.cells) == 0 {
			return nil, ErrEmptyPattern
		}
		return p, nil
	}

	flags := syntax.POSIX
	if p.IgnoreCase {
		flags |= syntax.FoldCase
	}
	tree, err := syntax.Parse(text, flags)
	if err != nil {
		return nil, fmt.Errorf("compiling %q: %w", text, err)
	}
	if p.re, err = compileTree(tree); err != nil {
		return nil, fmt.Errorf("compiling %q: %w", text, err)
	}
	if p.reNotBOL, err = compileTree(dropLineStart(tree)); err != nil {
		return nil, fmt.Errorf("compiling %q: %w", text, err)
	}
	return p, nil
}

func compileTree(tree *syntax.Regexp) (*regexp.Regexp, error) {
	re, err := regexp.Compile(tree.String())
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	re.Longest()
	return re, nil
}

// dropLineStart returns a copy of tree where ^ never matches.
func dropLineStart(tree *syntax.Regexp) *syntax.Regexp {
	cp := *tree
	switch cp.Op {
	case syntax.OpBeginLine, syntax.OpBeginText:
		return &syntax.Regexp{Op: syntax.OpNoMatch, Flags: cp.Flags}
	}
	if len(cp.Sub) > 0 {
		cp.Sub = make([]*syntax.Regexp, len(tree.Sub))
		for i, sub := range tree.Sub {
			cp.Sub[i] = dropLineStart(sub)
		}
	}
	return &cp
}

// Width is the number of cells a literal match covers.
func (p *Pattern) Width() int {
	return len(p.cells)
}

// Forward finds the first match on row py starting at a column in
// [first, last). It returns the start column and the match width in cells.
func (p *Pattern) Forward(g grid.Grid, b *Buffers, py, first, last int) (px, width int, ok bool) {
	if p.Regex {
		return p.forwardRegex(g, b, py, first, last)
	}
	px, ok = p.forwardLiteral(g, py, first, last)
	return px, p.Width(), ok
}

// Backward finds the last match on row py starting at a column in
// [first, last).
func (p *Pattern) Backward(g grid.Grid, b *Buffers, py, first, last int) (px, width int, ok bool) {
	if p.Regex {
		return p.backwardRegex(g, b, py, first, last)
	}
	px, ok = p.backwardLiteral(g, py, first, last)
	return px, p.Width(), ok
}

func (p *Pattern) String() string {
	if p.Regex {
		return "/" + p.Text + "/"
	}
	return p.Text
}
