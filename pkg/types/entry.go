package types

import (
	"fmt"
	"path"
	"strings"

	"github.com/dustin/go-humanize"
)

// Entry is one file inside an archive as reported by the archiver listing.
type Entry struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// BaseName returns the entry name without any directory inside the archive.
// Archive listings use forward slashes on every platform.
func (e Entry) BaseName() string {
	return path.Base(strings.ReplaceAll(e.Name, "\\", "/"))
}

// Ext returns the lowercase extension without the leading dot, or "" when
// the name has none.
func (e Entry) Ext() string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(e.BaseName()), "."))
}

// Stem returns the base name with its extension removed.
func (e Entry) Stem() string {
	base := e.BaseName()
	return strings.TrimSuffix(base, path.Ext(base))
}

// HumanSize returns the size in human readable form
func (e Entry) HumanSize() string {
	if e.Size < 0 {
		return "?"
	}
	return humanize.Bytes(uint64(e.Size))
}

// String returns a human-readable representation
func (e Entry) String() string {
	return fmt.Sprintf("%s (%s)", e.Name, e.HumanSize())
}

// Pick is a menu index together with the entry name it selects.
type Pick struct {
	Index int
	Name  string
}

// IsZero reports whether no pick is set
func (p Pick) IsZero() bool {
	return p.Index == 0
}
