package copymode

import (
	"strings"

	"github.com/Gaurav-Gosain/copyscope/internal/grid"
	"github.com/Gaurav-Gosain/copyscope/internal/nav"
)

const (
	openBrackets  = "{[("
	closeBrackets = "}])"
)

func (m *Mode) reader() *nav.Reader {
	return nav.NewReader(m.g, m.cx, m.absY())
}

func (m *Mode) cursorStartOfLine() {
	r := m.reader()
	r.StartOfLine(true)
	m.AcquireCursorUp(r.Pos())
}

func (m *Mode) cursorBackToIndentation() {
	r := m.reader()
	r.BackToIndentation()
	m.AcquireCursorUp(r.Pos())
}

func (m *Mode) cursorEndOfLine() {
	r := m.reader()
	r.EndOfLine(true, m.sel != nil && m.rectflag)
	px, py := r.Pos()
	m.acquireCursorDown(px, py, false)
}

func (m *Mode) cursorLeft() {
	r := m.reader()
	r.CursorLeft(true)
	m.AcquireCursorUp(r.Pos())
}

func (m *Mode) cursorRight(all bool) {
	r := m.reader()
	r.CursorRight(true, all)
	m.AcquireCursorDown(r.Pos())
}

func (m *Mode) cursorNextWord(separators string) {
	r := m.reader()
	r.NextWord(separators)
	m.AcquireCursorDown(r.Pos())
}

// nextWordEnd runs the next-word-end movement from (px, py). Vi lands on
// the last character of the word, emacs just past it.
func (m *Mode) nextWordEnd(px, py int, separators string) (int, int) {
	r := nav.NewReader(m.g, px, py)
	vi := m.opts.ModeKeys == Vi
	if vi && !r.InSet(nav.Whitespace) {
		r.CursorRight(false, false)
	}
	r.NextWordEnd(separators)
	if vi {
		r.CursorLeft(true)
	}
	return r.Pos()
}

func (m *Mode) cursorNextWordEnd(separators string, noReset bool) {
	px, py := m.nextWordEnd(m.cx, m.absY(), separators)
	m.acquireCursorDown(px, py, noReset)
}

func (m *Mode) cursorPreviousWord(separators string, already bool) {
	r := m.reader()
	r.PreviousWord(separators, already, m.opts.ModeKeys == Emacs)
	m.AcquireCursorUp(r.Pos())
}

func (m *Mode) previousWordPos(px, py int, separators string) (int, int) {
	r := nav.NewReader(m.g, px, py)
	r.PreviousWord(separators, false, true)
	return r.Pos()
}

func (m *Mode) cursorJump() {
	r := nav.NewReader(m.g, m.cx+1, m.absY())
	if r.Jump(m.jumpchar) {
		px, py := r.Pos()
		m.acquireCursorDown(px, py, false)
	}
}

func (m *Mode) cursorJumpBack() {
	r := m.reader()
	r.CursorLeft(false)
	if r.JumpBack(m.jumpchar) {
		m.AcquireCursorUp(r.Pos())
	}
}

func (m *Mode) cursorJumpTo() {
	r := nav.NewReader(m.g, m.cx+2, m.absY())
	if r.Jump(m.jumpchar) {
		r.CursorLeft(true)
		px, py := r.Pos()
		m.acquireCursorDown(px, py, false)
	}
}

func (m *Mode) cursorJumpToBack() {
	r := m.reader()
	r.CursorLeft(false)
	r.CursorLeft(false)
	if r.JumpBack(m.jumpchar) {
		r.CursorRight(true, false)
		m.AcquireCursorUp(r.Pos())
	}
}

func (m *Mode) runJump(t jumpType) {
	switch t {
	case jumpForward:
		m.cursorJump()
	case jumpBackward:
		m.cursorJumpBack()
	case jumpToForward:
		m.cursorJumpTo()
	case jumpToBackward:
		m.cursorJumpToBack()
	}
}

func (t jumpType) reverse() jumpType {
	switch t {
	case jumpForward:
		return jumpBackward
	case jumpBackward:
		return jumpForward
	case jumpToForward:
		return jumpToBackward
	case jumpToBackward:
		return jumpToForward
	}
	return jumpNone
}

func (m *Mode) previousParagraph() {
	py := nav.PreviousParagraph(m.g, m.absY())
	m.scrollTo(0, py, false)
}

func (m *Mode) nextParagraph() {
	py := nav.NextParagraph(m.g, m.absY())
	m.scrollTo(m.lineLength(py), py, false)
}

// cursorPrompt moves to the next (dir > 0) or previous prompt. With output,
// it looks for the start of command output instead.
func (m *Mode) cursorPrompt(dir int, output bool) {
	flag := grid.LineStartPrompt
	if output {
		flag = grid.LineStartOutput
	}
	line, ok := nav.FindFlagged(m.g, m.absY(), dir, flag)
	if !ok {
		return
	}
	m.moveToRow(line)
}

// bracketAt returns the single-byte character at (px, py), if any.
func (m *Mode) bracketAt(px, py int) (byte, bool) {
	c := m.g.Cell(px, py)
	if grid.IsPadding(c) {
		return 0, false
	}
	s := grid.Text(c)
	if len(s) != 1 {
		return 0, false
	}
	return s[0], true
}

func (m *Mode) previousMatchingBracket(np int) {
	for ; np > 0; np-- {
		px, py := m.cx, m.absY()
		xx := m.lineLength(py)
		if xx == 0 {
			return
		}

		var found byte
		idx := -1
		for tried := false; ; tried = true {
			if c, ok := m.bracketAt(px, py); ok {
				found = c
				idx = strings.IndexByte(closeBrackets, c)
			}
			if idx >= 0 || m.opts.ModeKeys != Emacs || tried || px == 0 {
				break
			}
			px--
		}
		if idx < 0 {
			if m.opts.ModeKeys == Emacs {
				m.cursorPreviousWord(closeBrackets, true)
			}
			continue
		}
		start := openBrackets[idx]

		n := 1
		failed := false
		for n != 0 {
			if px == 0 {
				if py == 0 {
					failed = true
					break
				}
				for {
					py--
					xx = m.lineLength(py)
					if xx != 0 || py == 0 {
						break
					}
				}
				if xx == 0 && py == 0 {
					failed = true
					break
				}
				px = xx - 1
			} else {
				px--
			}

			if c, ok := m.bracketAt(px, py); ok {
				switch c {
				case found:
					n++
				case start:
					n--
				}
			}
		}
		if !failed {
			m.scrollTo(px, py, false)
		}
	}
}

func (m *Mode) nextMatchingBracket(np int) {
	sx := m.g.Width()
	yy := grid.Rows(m.g) - 1

outer:
	for ; np > 0; np-- {
		px, py := m.cx, m.absY()
		xx := m.lineLength(py)
		if xx == 0 {
			return
		}

		var found byte
		idx := -1
		tried := false
		for {
			idx = -1
			if c, ok := m.bracketAt(px, py); ok {
				found = c
				if m.opts.ModeKeys == Vi && strings.IndexByte(closeBrackets, c) >= 0 {
					// On a closing bracket vi goes to its opening one
					// instead, staying put if there is none.
					saved := m.AbsCursor()
					m.scrollTo(px, py, false)
					m.previousMatchingBracket(m.prefix)

					c, ok := m.bracketAt(m.cx, m.absY())
					if ok && strings.IndexByte(closeBrackets, c) >= 0 {
						m.scrollTo(saved.X, saved.Y, false)
					}
					continue outer
				}
				idx = strings.IndexByte(openBrackets, c)
			}
			if idx >= 0 {
				break
			}

			if m.opts.ModeKeys == Emacs {
				if !tried && px <= xx {
					px++
					tried = true
					continue
				}
				m.cursorNextWordEnd(openBrackets, false)
				continue outer
			}

			if px > xx {
				if py == yy || !grid.Wrapped(m.g, py) || m.g.CellSize(py) > sx {
					continue outer
				}
				px = 0
				py++
				xx = m.lineLength(py)
			} else {
				px++
			}
		}
		end := closeBrackets[idx]

		n := 1
		failed := false
		for n != 0 {
			if px > xx {
				if py == yy {
					failed = true
					break
				}
				px = 0
				py++
				xx = m.lineLength(py)
			} else {
				px++
			}

			if c, ok := m.bracketAt(px, py); ok {
				switch c {
				case found:
					n++
				case end:
					n--
				}
			}
		}
		if !failed {
			m.scrollTo(px, py, false)
		}
	}
}
