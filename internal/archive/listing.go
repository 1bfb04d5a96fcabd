package archive

import (
	"bufio"
	"strconv"
	"strings"

	"romselect/internal/log"
	"romselect/pkg/types"
)

const (
	pathPrefix = "Path = "
	sizePrefix = "Size = "
)

type parseState int

const (
	awaitingPath parseState = iota
	awaitingSize
)

// listingParser pairs every "Path = " line with the next "Size = " line.
// A path that is followed by another path before any size is dropped.
type listingParser struct {
	state     parseState
	candidate string
	entries   []types.Entry
}

func (p *listingParser) feed(line string) {
	line = strings.TrimRight(line, "\r")

	if name, ok := strings.CutPrefix(line, pathPrefix); ok {
		if name == "" {
			return
		}
		if p.state == awaitingSize {
			log.Debugf("Dropping listing path without size: %s", p.candidate)
		}
		p.candidate = name
		p.state = awaitingSize
		return
	}

	if p.state != awaitingSize {
		return
	}

	raw, ok := strings.CutPrefix(line, sizePrefix)
	if !ok || raw == "" {
		return
	}

	size, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		log.Debugf("Unparsable size %q for %s, recording 0", raw, p.candidate)
		size = 0
	}

	p.entries = append(p.entries, types.Entry{Name: p.candidate, Size: size})
	p.candidate = ""
	p.state = awaitingPath
}

// ParseListing turns the technical listing printed by `7z l -slt` into the
// archive entries in listing order. Lines other than Path and Size are
// ignored, so a malformed listing yields fewer entries rather than an error.
func ParseListing(listing string) []types.Entry {
	p := &listingParser{}

	scanner := bufio.NewScanner(strings.NewReader(listing))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		p.feed(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		log.Warnf("Archive listing truncated: %v", err)
	}

	return p.entries
}
