// Package menu builds the numbered selection menu for an archive listing,
// suggests a default entry and runs the interactive selection loop.
package menu

import (
	"fmt"
	"io"
	"strings"

	"romselect/internal/errors"
	"romselect/internal/log"
	"romselect/pkg/types"

	"github.com/gobwas/glob"
)

// Control commands, matched case-insensitively.
const (
	CmdQuit    = "Q"
	CmdRedraw  = "R"
	CmdDefault = "D"
)

var commands = []struct {
	key   string
	label string
}{
	{CmdQuit, "Quit the program, back to shell"},
	{CmdRedraw, "Redraw the menu"},
}

// Options configures a menu. It is copied into the menu on construction.
type Options struct {
	GoodMarker string   // substring marking a known-good dump, e.g. [!]
	Country    string   // region code, matched as "(<code>)"
	Exclude    []string // glob patterns for entry base names to hide
}

// Menu is the numbered list of archive entries. Index i (1-based) refers
// to entries[i-1].
type Menu struct {
	entries []types.Entry
	opts    Options
	pick    types.Pick
}

// New numbers entries in listing order, dropping those whose base name
// matches an exclude pattern, and computes the default pick.
func New(entries []types.Entry, opts Options) (*Menu, error) {
	excludes := make([]glob.Glob, 0, len(opts.Exclude))
	for _, pattern := range opts.Exclude {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.NewConfigError("invalid exclude pattern", pattern, errors.InvalidConfig, err)
		}
		excludes = append(excludes, g)
	}

	m := &Menu{opts: opts}
	for _, e := range entries {
		if excluded(excludes, e.BaseName()) {
			log.Debugf("Excluding %s from menu", e.Name)
			continue
		}
		m.entries = append(m.entries, e)
	}

	names := make([]string, len(m.entries))
	for i, e := range m.entries {
		names[i] = e.Name
	}
	m.pick, _ = DefaultPick(names, opts.GoodMarker, opts.Country)

	return m, nil
}

func excluded(excludes []glob.Glob, name string) bool {
	for _, g := range excludes {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Len returns the number of selectable entries
func (m *Menu) Len() int {
	return len(m.entries)
}

// Entries returns the selectable entries in menu order
func (m *Menu) Entries() []types.Entry {
	out := make([]types.Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Entry returns the entry at the 1-based index
func (m *Menu) Entry(index int) (types.Entry, bool) {
	if index < 1 || index > len(m.entries) {
		return types.Entry{}, false
	}
	return m.entries[index-1], true
}

// Good returns the entries carrying the good marker, with their indices
func (m *Menu) Good() []types.Pick {
	var good []types.Pick
	for i, e := range m.entries {
		if isGood(e.Name, m.opts.GoodMarker) {
			good = append(good, types.Pick{Index: i + 1, Name: e.Name})
		}
	}
	return good
}

// DefaultPick returns the suggested entry, if any
func (m *Menu) DefaultPick() (types.Pick, bool) {
	return m.pick, !m.pick.IsZero()
}

// DefaultPick scans names in order and returns the first one that carries
// both the good marker and the parenthesised country code. This is a first
// match: a later revision of the same dump is never preferred.
func DefaultPick(names []string, good, country string) (types.Pick, bool) {
	tag := countryTag(country)
	for i, name := range names {
		if !isGood(name, good) {
			continue
		}
		if tag != "" && strings.Contains(name, tag) {
			return types.Pick{Index: i + 1, Name: name}, true
		}
	}
	return types.Pick{}, false
}

func isGood(name, marker string) bool {
	return marker != "" && strings.Contains(name, marker)
}

// countryTag wraps a region code in parentheses unless it already is.
func countryTag(country string) string {
	if country == "" {
		return ""
	}
	if strings.HasPrefix(country, "(") && strings.HasSuffix(country, ")") {
		return country
	}
	return "(" + country + ")"
}

// Render writes the menu: every entry, the good entries again below a
// separator, then the control commands.
func (m *Menu) Render(w io.Writer) {
	theme := newTheme(w)

	fmt.Fprintln(w)
	for i, e := range m.entries {
		fmt.Fprintf(w, "%s %s %s\n",
			theme.Index.Render(fmt.Sprintf("%6d:", i+1)),
			theme.Entry.Render(e.Name),
			theme.Size.Render("("+e.HumanSize()+")"))
	}

	if good := m.Good(); len(good) > 0 {
		fmt.Fprintln(w, theme.Separator.Render("---"))
		for _, p := range good {
			fmt.Fprintf(w, "%s %s\n",
				theme.Index.Render(fmt.Sprintf("%6d:", p.Index)),
				theme.Good.Render(p.Name))
		}
	}

	for _, c := range commands {
		fmt.Fprintf(w, "%s %s\n",
			theme.Command.Render(fmt.Sprintf("%6s:", c.key)),
			c.label)
	}
}
