package menu

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"romselect/internal/errors"
	"romselect/internal/log"
	"romselect/pkg/types"
)

var (
	// ErrQuit is returned when the user asks to quit
	ErrQuit = errors.New("quit requested")
	// ErrInputClosed is returned when input ends before a choice is made
	ErrInputClosed = errors.New("input closed before a rom was selected")
)

// Resolver runs the selection loop over a menu. It moves between the
// Rendering, AwaitingInput, Selected and Quit states; each line of input
// drives exactly one transition.
type Resolver struct {
	menu   *Menu
	in     *bufio.Reader
	out    io.Writer
	theme  Theme
	state  types.State
	choice int
}

// NewResolver creates a resolver reading choices from in and drawing to out
func NewResolver(m *Menu, in io.Reader, out io.Writer) *Resolver {
	return &Resolver{
		menu:  m,
		in:    bufio.NewReader(in),
		out:   out,
		theme: newTheme(out),
		state: types.Rendering,
	}
}

// State returns the current loop state
func (r *Resolver) State() types.State {
	return r.state
}

// Resolve returns the chosen entry. A menu with a single entry is chosen
// without prompting. Quitting returns ErrQuit; running out of input
// returns ErrInputClosed.
func (r *Resolver) Resolve() (types.Entry, error) {
	if r.menu.Len() == 1 {
		e, _ := r.menu.Entry(1)
		fmt.Fprintln(r.out, r.theme.Notice.Render("Single file in archive, not displaying menu."))
		fmt.Fprintln(r.out, e.String())
		r.state = types.Selected
		r.choice = 1
		return e, nil
	}

	if r.menu.Len() == 0 {
		log.Warn("Archive listing produced no entries")
	}

	for !r.state.Done() {
		if r.state == types.Rendering {
			r.menu.Render(r.out)
			r.state = types.AwaitingInput
		}

		r.prompt()
		line, err := r.in.ReadString('\n')
		if err != nil && line == "" {
			if err == io.EOF {
				return types.Entry{}, ErrInputClosed
			}
			return types.Entry{}, errors.Wrap(err, "reading selection")
		}
		r.Step(line)
	}

	if r.state == types.Quit {
		return types.Entry{}, ErrQuit
	}

	e, _ := r.menu.Entry(r.choice)
	return e, nil
}

func (r *Resolver) prompt() {
	if p, ok := r.menu.DefaultPick(); ok {
		fmt.Fprintln(r.out)
		fmt.Fprintf(r.out, "(%s)efault: %s\n", CmdDefault, r.theme.Default.Render(p.Name))
	}
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.theme.Prompt.Render("Which Rom to handle?"))
}

// Step applies one line of input and returns the resulting state.
func (r *Resolver) Step(input string) types.State {
	input = strings.TrimSpace(input)

	switch {
	case isDecimal(input):
		n, err := strconv.Atoi(input)
		if err == nil && n >= 1 && n <= r.menu.Len() {
			r.choice = n
			r.state = types.Selected
			return r.state
		}
	case strings.EqualFold(input, CmdQuit):
		r.state = types.Quit
		return r.state
	case strings.EqualFold(input, CmdRedraw):
		r.state = types.Rendering
		return r.state
	case strings.EqualFold(input, CmdDefault):
		if p, ok := r.menu.DefaultPick(); ok {
			r.choice = p.Index
			r.state = types.Selected
			return r.state
		}
	}

	log.Debugf("Rejected menu input %q", input)
	fmt.Fprintln(r.out, r.theme.Error.Render("Selection not possible"))
	r.state = types.AwaitingInput
	return r.state
}

// Choice returns the selected 1-based index, or 0 before a selection
func (r *Resolver) Choice() int {
	if r.state != types.Selected {
		return 0
	}
	return r.choice
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
