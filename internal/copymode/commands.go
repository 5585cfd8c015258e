package copymode

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Gaurav-Gosain/copyscope/internal/search"
)

// Action tells the host what to do after a command.
type Action int

const (
	Nothing Action = iota
	Redraw
	Cancel
)

func (a Action) String() string {
	switch a {
	case Redraw:
		return "redraw"
	case Cancel:
		return "cancel"
	}
	return "nothing"
}

// ErrUnknownVerb is returned for a command name that does not exist.
var ErrUnknownVerb = errors.New("unknown copy mode command")

// clearPolicy says whether a command clears the search marks.
type clearPolicy int

const (
	clearAlways clearPolicy = iota
	clearNever
	clearEmacsOnly
)

type cmdState struct {
	m     *Mode
	args  []string
	mouse *MouseEvent
}

func (cs *cmdState) arg(i int) string {
	if i < len(cs.args) {
		return cs.args[i]
	}
	return ""
}

type command struct {
	name    string
	minArgs int
	maxArgs int
	clear   clearPolicy
	fn      func(*cmdState) Action
}

var commands = []command{
	{"append-selection", 0, 0, clearAlways, cmdAppendSelection},
	{"append-selection-and-cancel", 0, 0, clearAlways, cmdAppendSelectionAndCancel},
	{"back-to-indentation", 0, 0, clearAlways, cmdBackToIndentation},
	{"begin-selection", 0, 0, clearAlways, cmdBeginSelection},
	{"bottom-line", 0, 0, clearEmacsOnly, cmdBottomLine},
	{"cancel", 0, 0, clearAlways, cmdCancel},
	{"clear-selection", 0, 0, clearAlways, cmdClearSelection},
	{"copy-end-of-line", 0, 1, clearAlways, cmdCopyEndOfLine},
	{"copy-end-of-line-and-cancel", 0, 1, clearAlways, cmdCopyEndOfLineAndCancel},
	{"copy-pipe-end-of-line", 0, 2, clearAlways, cmdCopyPipeEndOfLine},
	{"copy-pipe-end-of-line-and-cancel", 0, 2, clearAlways, cmdCopyPipeEndOfLineAndCancel},
	{"copy-line", 0, 1, clearAlways, cmdCopyLine},
	{"copy-line-and-cancel", 0, 1, clearAlways, cmdCopyLineAndCancel},
	{"copy-pipe-line", 0, 2, clearAlways, cmdCopyPipeLine},
	{"copy-pipe-line-and-cancel", 0, 2, clearAlways, cmdCopyPipeLineAndCancel},
	{"copy-pipe-no-clear", 0, 2, clearNever, cmdCopyPipeNoClear},
	{"copy-pipe", 0, 2, clearAlways, cmdCopyPipe},
	{"copy-pipe-and-cancel", 0, 2, clearAlways, cmdCopyPipeAndCancel},
	{"copy-selection-no-clear", 0, 1, clearNever, cmdCopySelectionNoClear},
	{"copy-selection", 0, 1, clearAlways, cmdCopySelection},
	{"copy-selection-and-cancel", 0, 1, clearAlways, cmdCopySelectionAndCancel},
	{"cursor-down", 0, 0, clearEmacsOnly, cmdCursorDown},
	{"cursor-down-and-cancel", 0, 0, clearAlways, cmdCursorDownAndCancel},
	{"cursor-left", 0, 0, clearEmacsOnly, cmdCursorLeft},
	{"cursor-right", 0, 0, clearEmacsOnly, cmdCursorRight},
	{"cursor-up", 0, 0, clearEmacsOnly, cmdCursorUp},
	{"end-of-line", 0, 0, clearEmacsOnly, cmdEndOfLine},
	{"goto-line", 1, 1, clearEmacsOnly, cmdGotoLine},
	{"halfpage-down", 0, 0, clearEmacsOnly, cmdHalfpageDown},
	{"halfpage-down-and-cancel", 0, 0, clearAlways, cmdHalfpageDownAndCancel},
	{"halfpage-up", 0, 0, clearEmacsOnly, cmdHalfpageUp},
	{"history-bottom", 0, 0, clearEmacsOnly, cmdHistoryBottom},
	{"history-top", 0, 0, clearEmacsOnly, cmdHistoryTop},
	{"jump-again", 0, 0, clearEmacsOnly, cmdJumpAgain},
	{"jump-backward", 1, 1, clearEmacsOnly, cmdJumpBackward},
	{"jump-forward", 1, 1, clearEmacsOnly, cmdJumpForward},
	{"jump-reverse", 0, 0, clearEmacsOnly, cmdJumpReverse},
	{"jump-to-backward", 1, 1, clearEmacsOnly, cmdJumpToBackward},
	{"jump-to-forward", 1, 1, clearEmacsOnly, cmdJumpToForward},
	{"jump-to-mark", 0, 0, clearAlways, cmdJumpToMark},
	{"next-prompt", 0, 1, clearAlways, cmdNextPrompt},
	{"previous-prompt", 0, 1, clearAlways, cmdPreviousPrompt},
	{"middle-line", 0, 0, clearEmacsOnly, cmdMiddleLine},
	{"next-matching-bracket", 0, 0, clearAlways, cmdNextMatchingBracket},
	{"next-paragraph", 0, 0, clearEmacsOnly, cmdNextParagraph},
	{"next-space", 0, 0, clearEmacsOnly, cmdNextSpace},
	{"next-space-end", 0, 0, clearEmacsOnly, cmdNextSpaceEnd},
	{"next-word", 0, 0, clearEmacsOnly, cmdNextWord},
	{"next-word-end", 0, 0, clearEmacsOnly, cmdNextWordEnd},
	{"other-end", 0, 0, clearEmacsOnly, cmdOtherEnd},
	{"page-down", 0, 0, clearEmacsOnly, cmdPageDown},
	{"page-down-and-cancel", 0, 0, clearAlways, cmdPageDownAndCancel},
	{"page-up", 0, 0, clearEmacsOnly, cmdPageUp},
	{"pipe-no-clear", 0, 1, clearNever, cmdPipeNoClear},
	{"pipe", 0, 1, clearAlways, cmdPipe},
	{"pipe-and-cancel", 0, 1, clearAlways, cmdPipeAndCancel},
	{"previous-matching-bracket", 0, 0, clearAlways, cmdPreviousMatchingBracket},
	{"previous-paragraph", 0, 0, clearEmacsOnly, cmdPreviousParagraph},
	{"previous-space", 0, 0, clearEmacsOnly, cmdPreviousSpace},
	{"previous-word", 0, 0, clearEmacsOnly, cmdPreviousWord},
	{"rectangle-on", 0, 0, clearAlways, cmdRectangleOn},
	{"rectangle-off", 0, 0, clearAlways, cmdRectangleOff},
	{"rectangle-toggle", 0, 0, clearAlways, cmdRectangleToggle},
	{"refresh-from-pane", 0, 0, clearAlways, cmdRefreshFromPane},
	{"scroll-bottom", 0, 0, clearAlways, cmdScrollBottom},
	{"scroll-down", 0, 0, clearEmacsOnly, cmdScrollDown},
	{"scroll-down-and-cancel", 0, 0, clearAlways, cmdScrollDownAndCancel},
	{"scroll-middle", 0, 0, clearAlways, cmdScrollMiddle},
	{"scroll-top", 0, 0, clearAlways, cmdScrollTop},
	{"scroll-up", 0, 0, clearEmacsOnly, cmdScrollUp},
	{"search-again", 0, 0, clearAlways, cmdSearchAgain},
	{"search-backward", 0, 1, clearAlways, cmdSearchBackward},
	{"search-backward-text", 0, 1, clearAlways, cmdSearchBackwardText},
	{"search-backward-incremental", 1, 1, clearAlways, cmdSearchBackwardIncremental},
	{"search-forward", 0, 1, clearAlways, cmdSearchForward},
	{"search-forward-text", 0, 1, clearAlways, cmdSearchForwardText},
	{"search-forward-incremental", 1, 1, clearAlways, cmdSearchForwardIncremental},
	{"search-reverse", 0, 0, clearAlways, cmdSearchReverse},
	{"select-line", 0, 0, clearAlways, cmdSelectLine},
	{"select-word", 0, 0, clearAlways, cmdSelectWord},
	{"set-mark", 0, 0, clearAlways, cmdSetMark},
	{"start-of-line", 0, 0, clearEmacsOnly, cmdStartOfLine},
	{"stop-selection", 0, 0, clearAlways, cmdStopSelection},
	{"toggle-position", 0, 0, clearNever, cmdTogglePosition},
	{"top-line", 0, 0, clearEmacsOnly, cmdTopLine},
}

var commandIndex = func() map[string]*command {
	idx := make(map[string]*command, len(commands))
	for i := range commands {
		idx[commands[i].name] = &commands[i]
	}
	return idx
}()

// Verbs returns every command name, sorted.
func Verbs() []string {
	names := make([]string, 0, len(commands))
	for _, c := range commands {
		names = append(names, c.name)
	}
	slices.Sort(names)
	return names
}

// CheckArgs reports whether verb exists and accepts nargs arguments.
func CheckArgs(verb string, nargs int) error {
	c, ok := commandIndex[verb]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownVerb, verb)
	}
	if nargs < c.minArgs || nargs > c.maxArgs {
		if c.minArgs == c.maxArgs {
			return fmt.Errorf("%s: expected %d arguments, got %d", verb, c.minArgs, nargs)
		}
		return fmt.Errorf("%s: expected %d to %d arguments, got %d", verb, c.minArgs, c.maxArgs, nargs)
	}
	return nil
}

// Execute runs a copy mode command. A mouse event, if given, first moves
// the cursor under the pointer. Commands other than searches clear the
// search marks unless their policy says otherwise.
func (m *Mode) Execute(verb string, args []string, mouse *MouseEvent) Action {
	if verb == "" {
		return Nothing
	}
	if mouse != nil && !mouse.Wheel {
		m.MoveMouse(mouse.X, mouse.Y)
	}

	action := Nothing
	clear := clearNever
	if c, ok := commandIndex[verb]; ok {
		if len(args) >= c.minArgs && len(args) <= c.maxArgs {
			clear = c.clear
			action = c.fn(&cmdState{m: m, args: args, mouse: mouse})
		} else {
			m.logf("%s: wrong number of arguments", verb)
		}
	} else {
		m.logf("%v: %s", ErrUnknownVerb, verb)
	}

	if !strings.HasPrefix(verb, "search-") && m.marks != nil {
		if clear == clearEmacsOnly && m.opts.ModeKeys == Vi {
			clear = clearNever
		}
		if clear != clearNever {
			m.clearMarks()
			m.searchx, m.searchy = -1, -1
		}
		if action == Nothing {
			action = Redraw
		}
	}
	m.prefix = 1

	if action == Redraw {
		m.redrawScreen()
	}
	return action
}

func cmdAppendSelection(cs *cmdState) Action {
	cs.m.appendSelection()
	cs.m.clearSelection()
	return Redraw
}

func cmdAppendSelectionAndCancel(cs *cmdState) Action {
	cs.m.appendSelection()
	cs.m.clearSelection()
	return Cancel
}

func cmdBackToIndentation(cs *cmdState) Action {
	cs.m.cursorBackToIndentation()
	return Nothing
}

func cmdBeginSelection(cs *cmdState) Action {
	m := cs.m
	if cs.mouse != nil {
		m.StartDrag(cs.mouse.X, cs.mouse.Y)
		return Nothing
	}
	m.lineflag = LineSelNone
	m.selflag = SelChar
	m.startSelection()
	return Redraw
}

func cmdStopSelection(cs *cmdState) Action {
	m := cs.m
	m.cursordrag = CursorDragNone
	m.lineflag = LineSelNone
	m.selflag = SelChar
	return Nothing
}

func cmdBottomLine(cs *cmdState) Action {
	m := cs.m
	m.cx = 0
	m.cy = m.g.Height() - 1
	m.updateSelection(true, false)
	return Redraw
}

func cmdMiddleLine(cs *cmdState) Action {
	m := cs.m
	m.cx = 0
	m.cy = (m.g.Height() - 1) / 2
	m.updateSelection(true, false)
	return Redraw
}

func cmdTopLine(cs *cmdState) Action {
	m := cs.m
	m.cx = 0
	m.cy = 0
	m.updateSelection(true, false)
	return Redraw
}

func cmdCancel(*cmdState) Action {
	return Cancel
}

func cmdClearSelection(cs *cmdState) Action {
	cs.m.clearSelection()
	return Redraw
}

// copyToEnd selects from the cursor (or the start of its line) to the end
// of the line np-1 lines down, copies it and puts everything back.
func copyToEnd(cs *cmdState, fromStart, pipe, cancel bool) Action {
	m := cs.m
	np := m.prefix
	ocx, ocy, ooy := m.cx, m.cy, m.oy

	if fromStart {
		m.selflag = SelChar
		m.cursorStartOfLine()
	}
	m.startSelection()
	for ; np > 1; np-- {
		m.cursorDown(false)
	}
	m.cursorEndOfLine()

	if pipe {
		m.copyPipe(cs.arg(1), cs.arg(0))
	} else {
		m.copySelection(cs.arg(0))
	}
	if cancel {
		return Cancel
	}

	m.clearSelection()
	m.cx, m.cy, m.oy = ocx, ocy, ooy
	return Redraw
}

func cmdCopyEndOfLine(cs *cmdState) Action {
	return copyToEnd(cs, false, false, false)
}

func cmdCopyEndOfLineAndCancel(cs *cmdState) Action {
	return copyToEnd(cs, false, false, true)
}

func cmdCopyPipeEndOfLine(cs *cmdState) Action {
	return copyToEnd(cs, false, true, false)
}

func cmdCopyPipeEndOfLineAndCancel(cs *cmdState) Action {
	return copyToEnd(cs, false, true, true)
}

func cmdCopyLine(cs *cmdState) Action {
	return copyToEnd(cs, true, false, false)
}

func cmdCopyLineAndCancel(cs *cmdState) Action {
	return copyToEnd(cs, true, false, true)
}

func cmdCopyPipeLine(cs *cmdState) Action {
	return copyToEnd(cs, true, true, false)
}

func cmdCopyPipeLineAndCancel(cs *cmdState) Action {
	return copyToEnd(cs, true, true, true)
}

func cmdCopySelectionNoClear(cs *cmdState) Action {
	cs.m.copySelection(cs.arg(0))
	return Nothing
}

func cmdCopySelection(cs *cmdState) Action {
	cmdCopySelectionNoClear(cs)
	cs.m.clearSelection()
	return Redraw
}

func cmdCopySelectionAndCancel(cs *cmdState) Action {
	cmdCopySelectionNoClear(cs)
	cs.m.clearSelection()
	return Cancel
}

func cmdCopyPipeNoClear(cs *cmdState) Action {
	cs.m.copyPipe(cs.arg(1), cs.arg(0))
	return Nothing
}

func cmdCopyPipe(cs *cmdState) Action {
	cmdCopyPipeNoClear(cs)
	cs.m.clearSelection()
	return Redraw
}

func cmdCopyPipeAndCancel(cs *cmdState) Action {
	cmdCopyPipeNoClear(cs)
	cs.m.clearSelection()
	return Cancel
}

func cmdPipeNoClear(cs *cmdState) Action {
	cs.m.pipe(cs.arg(0))
	return Nothing
}

func cmdPipe(cs *cmdState) Action {
	cmdPipeNoClear(cs)
	cs.m.clearSelection()
	return Redraw
}

func cmdPipeAndCancel(cs *cmdState) Action {
	cmdPipeNoClear(cs)
	cs.m.clearSelection()
	return Cancel
}

func cmdCursorDown(cs *cmdState) Action {
	m := cs.m
	for range m.prefix {
		m.cursorDown(false)
	}
	return Nothing
}

func cmdCursorDownAndCancel(cs *cmdState) Action {
	m := cs.m
	cy := m.cy
	for range m.prefix {
		m.cursorDown(false)
	}
	if cy == m.cy && m.oy == 0 {
		return Cancel
	}
	return Nothing
}

func cmdCursorLeft(cs *cmdState) Action {
	m := cs.m
	for range m.prefix {
		m.cursorLeft()
	}
	return Nothing
}

func cmdCursorRight(cs *cmdState) Action {
	m := cs.m
	for range m.prefix {
		m.cursorRight(m.sel != nil && m.rectflag)
	}
	return Nothing
}

func cmdCursorUp(cs *cmdState) Action {
	m := cs.m
	for range m.prefix {
		m.cursorUp(false)
	}
	return Nothing
}

func cmdEndOfLine(cs *cmdState) Action {
	cs.m.cursorEndOfLine()
	return Nothing
}

func cmdStartOfLine(cs *cmdState) Action {
	cs.m.cursorStartOfLine()
	return Nothing
}

func cmdGotoLine(cs *cmdState) Action {
	if arg := cs.arg(0); arg != "" {
		cs.m.gotoLine(arg)
	}
	return Nothing
}

func pageDown(cs *cmdState, half, scrollExit bool) Action {
	m := cs.m
	for range m.prefix {
		if m.pageDown1(half, scrollExit) {
			return Cancel
		}
	}
	return Nothing
}

func cmdHalfpageDown(cs *cmdState) Action {
	return pageDown(cs, true, cs.m.opts.ScrollExit)
}

func cmdHalfpageDownAndCancel(cs *cmdState) Action {
	return pageDown(cs, true, true)
}

func cmdPageDown(cs *cmdState) Action {
	return pageDown(cs, false, cs.m.opts.ScrollExit)
}

func cmdPageDownAndCancel(cs *cmdState) Action {
	return pageDown(cs, false, true)
}

func cmdHalfpageUp(cs *cmdState) Action {
	m := cs.m
	for range m.prefix {
		m.pageUp1(true)
	}
	return Nothing
}

func cmdPageUp(cs *cmdState) Action {
	m := cs.m
	for range m.prefix {
		m.pageUp1(false)
	}
	return Nothing
}

func cmdTogglePosition(cs *cmdState) Action {
	cs.m.hidePosition = !cs.m.hidePosition
	return Redraw
}

func cmdHistoryBottom(cs *cmdState) Action {
	cs.m.historyBottom()
	return Redraw
}

func cmdHistoryTop(cs *cmdState) Action {
	cs.m.historyTop()
	return Redraw
}

func cmdJumpAgain(cs *cmdState) Action {
	m := cs.m
	for range m.prefix {
		m.runJump(m.jumptype)
	}
	return Nothing
}

func cmdJumpReverse(cs *cmdState) Action {
	m := cs.m
	for range m.prefix {
		m.runJump(m.jumptype.reverse())
	}
	return Nothing
}

func startJump(cs *cmdState, t jumpType) Action {
	m := cs.m
	c := cs.arg(0)
	if c == "" {
		return Nothing
	}
	m.jumptype = t
	m.jumpchar = c
	for range m.prefix {
		m.runJump(t)
	}
	return Nothing
}

func cmdJumpBackward(cs *cmdState) Action {
	return startJump(cs, jumpBackward)
}

func cmdJumpForward(cs *cmdState) Action {
	return startJump(cs, jumpForward)
}

func cmdJumpToBackward(cs *cmdState) Action {
	return startJump(cs, jumpToBackward)
}

func cmdJumpToForward(cs *cmdState) Action {
	return startJump(cs, jumpToForward)
}

func cmdJumpToMark(cs *cmdState) Action {
	cs.m.jumpToMark()
	return Nothing
}

func cmdNextPrompt(cs *cmdState) Action {
	cs.m.cursorPrompt(1, cs.arg(0) == "-o")
	return Nothing
}

func cmdPreviousPrompt(cs *cmdState) Action {
	cs.m.cursorPrompt(-1, cs.arg(0) == "-o")
	return Nothing
}

func cmdNextMatchingBracket(cs *cmdState) Action {
	cs.m.nextMatchingBracket(cs.m.prefix)
	return Nothing
}

func cmdPreviousMatchingBracket(cs *cmdState) Action {
	cs.m.previousMatchingBracket(cs.m.prefix)
	return Nothing
}

func cmdNextParagraph(cs *cmdState) Action {
	m := cs.m
	for range m.prefix {
		m.nextParagraph()
	}
	return Nothing
}

func cmdPreviousParagraph(cs *cmdState) Action {
	m := cs.m
	for range m.prefix {
		m.previousParagraph()
	}
	return Nothing
}

func cmdNextSpace(cs *cmdState) Action {
	m := cs.m
	for range m.prefix {
		m.cursorNextWord("")
	}
	return Nothing
}

func cmdNextSpaceEnd(cs *cmdState) Action {
	m := cs.m
	for range m.prefix {
		m.cursorNextWordEnd("", false)
	}
	return Nothing
}

func cmdNextWord(cs *cmdState) Action {
	m := cs.m
	for range m.prefix {
		m.cursorNextWord(m.opts.WordSeparators)
	}
	return Nothing
}

func cmdNextWordEnd(cs *cmdState) Action {
	m := cs.m
	for range m.prefix {
		m.cursorNextWordEnd(m.opts.WordSeparators, false)
	}
	return Nothing
}

func cmdPreviousSpace(cs *cmdState) Action {
	m := cs.m
	for range m.prefix {
		m.cursorPreviousWord("", true)
	}
	return Nothing
}

func cmdPreviousWord(cs *cmdState) Action {
	m := cs.m
	for range m.prefix {
		m.cursorPreviousWord(m.opts.WordSeparators, true)
	}
	return Nothing
}

func cmdOtherEnd(cs *cmdState) Action {
	m := cs.m
	m.selflag = SelChar
	if m.prefix%2 == 1 {
		m.otherEnd()
	}
	return Nothing
}

func cmdRectangleOn(cs *cmdState) Action {
	cs.m.lineflag = LineSelNone
	cs.m.rectangleSet(true)
	return Nothing
}

func cmdRectangleOff(cs *cmdState) Action {
	cs.m.lineflag = LineSelNone
	cs.m.rectangleSet(false)
	return Nothing
}

func cmdRectangleToggle(cs *cmdState) Action {
	cs.m.lineflag = LineSelNone
	cs.m.rectangleSet(!cs.m.rectflag)
	return Nothing
}

func cmdRefreshFromPane(cs *cmdState) Action {
	if cs.m.opts.View {
		return Nothing
	}
	cs.m.refreshFromSource()
	return Redraw
}

func cmdScrollBottom(cs *cmdState) Action {
	cs.m.scrollToRow(cs.m.g.Height() - 1)
	return Redraw
}

func cmdScrollMiddle(cs *cmdState) Action {
	cs.m.scrollToRow((cs.m.g.Height() - 1) / 2)
	return Redraw
}

func cmdScrollTop(cs *cmdState) Action {
	cs.m.scrollToRow(0)
	return Redraw
}

func cmdScrollDown(cs *cmdState) Action {
	m := cs.m
	for range m.prefix {
		m.cursorDown(true)
	}
	if m.opts.ScrollExit && m.oy == 0 {
		return Cancel
	}
	return Nothing
}

func cmdScrollDownAndCancel(cs *cmdState) Action {
	m := cs.m
	for range m.prefix {
		m.cursorDown(true)
	}
	if m.oy == 0 {
		return Cancel
	}
	return Nothing
}

func cmdScrollUp(cs *cmdState) Action {
	m := cs.m
	for range m.prefix {
		m.cursorUp(true)
	}
	return Nothing
}

func repeatSearch(cs *cmdState, reverse bool) Action {
	m := cs.m
	dir := search.Up
	switch m.searchtype {
	case searchUp:
	case searchDown:
		dir = search.Down
	default:
		return Nothing
	}
	if reverse {
		if dir == search.Up {
			dir = search.Down
		} else {
			dir = search.Up
		}
	}
	for range m.prefix {
		m.search(dir, m.searchregex)
	}
	return Nothing
}

func cmdSearchAgain(cs *cmdState) Action {
	return repeatSearch(cs, false)
}

func cmdSearchReverse(cs *cmdState) Action {
	return repeatSearch(cs, true)
}

func newSearch(cs *cmdState, t searchType, regex bool) Action {
	m := cs.m
	str := cs.arg(0)
	if str == "" {
		return Nothing
	}
	m.searchtype = t
	m.searchregex = regex
	m.searchstr = str
	m.timeout = false
	dir := search.Up
	if t == searchDown {
		dir = search.Down
	}
	for range m.prefix {
		m.search(dir, regex)
	}
	return Nothing
}

func cmdSearchBackward(cs *cmdState) Action {
	return newSearch(cs, searchUp, true)
}

func cmdSearchBackwardText(cs *cmdState) Action {
	return newSearch(cs, searchUp, false)
}

func cmdSearchForward(cs *cmdState) Action {
	return newSearch(cs, searchDown, true)
}

func cmdSearchForwardText(cs *cmdState) Action {
	return newSearch(cs, searchDown, false)
}

// incrementalSearch handles one keystroke of an incremental search. The
// argument is a prefix character followed by the search text: '=' repeats
// in the search's own direction, '+' and '-' search down and up. Changing
// the text restarts from where the search began.
func incrementalSearch(cs *cmdState, forward bool) Action {
	m := cs.m
	arg := cs.arg(0)
	action := Nothing

	m.timeout = false
	if arg == "" {
		return Nothing
	}
	prefix, text := arg[0], arg[1:]

	if m.searchx == -1 || m.searchy == -1 {
		m.searchx, m.searchy, m.searcho = m.cx, m.cy, m.oy
	} else if m.searchstr != "" && text != m.searchstr {
		m.cx, m.cy, m.oy = m.searchx, m.searchy, m.searcho
		action = Redraw
	}
	if text == "" {
		m.clearMarks()
		return Redraw
	}

	var t searchType
	switch prefix {
	case '=':
		t = searchUp
		if forward {
			t = searchDown
		}
	case '+':
		t = searchDown
	case '-':
		t = searchUp
	default:
		return action
	}

	m.searchtype = t
	m.searchregex = false
	m.searchstr = text
	var found bool
	if t == searchDown {
		found = m.searchDown(false)
	} else {
		found = m.searchUp(false)
	}
	if !found {
		m.clearMarks()
		return Redraw
	}
	return action
}

func cmdSearchForwardIncremental(cs *cmdState) Action {
	return incrementalSearch(cs, true)
}

func cmdSearchBackwardIncremental(cs *cmdState) Action {
	return incrementalSearch(cs, false)
}

func cmdSelectLine(cs *cmdState) Action {
	cs.m.selectLine()
	return Redraw
}

func cmdSelectWord(cs *cmdState) Action {
	cs.m.selectWord()
	return Redraw
}

func cmdSetMark(cs *cmdState) Action {
	m := cs.m
	m.mx, m.my = m.cx, m.absY()
	m.showmark = true
	return Redraw
}
