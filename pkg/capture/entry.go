package capture

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gregLibert/esim-trace/pkg/sgp22"
	"github.com/gregLibert/esim-trace/pkg/tlv"
)

// CAPTURE FILE FORMAT:
// One payload per line, preceded by who sent it:
//
//	# profile listing
//	LPA->eUICC BF2D00
//	eUICC->LPA BF2D 0A A0 08 E3 06 5A 04 98 10 32 54
//
// Everything after '#' is a comment. The hex may be split by spaces or
// colons. A line holding only hex decodes with an unknown direction.
//
// Raw APDU exchanges use the "apdu" keyword, the response after a '|':
//
//	apdu 80E2910003BF2E00 | BF2E028000 9000

// maxLineSize bounds a single capture line (bound profile packages can be large).
const maxLineSize = 1 << 20

var (
	ErrBlankLine   = errors.New("blank line")
	ErrMissingData = errors.New("missing payload")
	ErrInvalidHex  = errors.New("invalid hex payload")
)

const apduKeyword = "apdu"

// Entry is one line of a capture file: either a payload or, when Command is
// set, an APDU exchange.
type Entry struct {
	Line      int
	Label     string
	Direction sgp22.Direction
	Payload   string
	Command   string
	Response  string
}

// IsAPDU reports whether the entry holds an APDU exchange.
func (e Entry) IsAPDU() bool {
	return e.Command != ""
}

// ParseLine parses a single capture line. Blank and comment-only lines
// return ErrBlankLine.
func ParseLine(line string) (Entry, error) {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Entry{}, ErrBlankLine
	}

	if strings.EqualFold(fields[0], apduKeyword) {
		return newAPDUEntry(strings.Join(fields[1:], " "))
	}
	if dir := sgp22.ParseDirection(fields[0]); dir != sgp22.DirectionUnknown {
		return newEntry(fields[0], dir, fields[1:])
	}
	if isHex(strings.Join(fields, "")) {
		return newEntry("", sgp22.DirectionUnknown, fields)
	}
	return newEntry(fields[0], sgp22.DirectionUnknown, fields[1:])
}

func newEntry(label string, dir sgp22.Direction, hexFields []string) (Entry, error) {
	if len(hexFields) == 0 {
		return Entry{}, fmt.Errorf("%w after %q", ErrMissingData, label)
	}
	payload := strings.Join(hexFields, "")
	if !isHex(payload) {
		return Entry{}, fmt.Errorf("%w: %q", ErrInvalidHex, payload)
	}
	return Entry{Label: label, Direction: dir, Payload: tlv.Normalize(payload)}, nil
}

func newAPDUEntry(rest string) (Entry, error) {
	cmd, rsp, _ := strings.Cut(rest, "|")
	cmd = strings.Join(strings.Fields(cmd), "")
	rsp = strings.Join(strings.Fields(rsp), "")

	if cmd == "" {
		return Entry{}, fmt.Errorf("%w after %q", ErrMissingData, apduKeyword)
	}
	if !isHex(cmd) {
		return Entry{}, fmt.Errorf("%w: command %q", ErrInvalidHex, cmd)
	}
	if rsp != "" && !isHex(rsp) {
		return Entry{}, fmt.Errorf("%w: response %q", ErrInvalidHex, rsp)
	}
	return Entry{
		Label:     apduKeyword,
		Direction: sgp22.DirectionUnknown,
		Command:   tlv.Normalize(cmd),
		Response:  tlv.Normalize(rsp),
	}, nil
}

func isHex(s string) bool {
	s = strings.ReplaceAll(s, ":", "")
	return s != "" && len(s)%2 == 0 && tlv.Normalize(s) == strings.ToUpper(s)
}

// ReadEntries reads every entry of a capture. It stops at the first
// malformed line and returns the entries read so far.
func ReadEntries(r io.Reader) ([]Entry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var entries []Entry
	for n := 1; scanner.Scan(); n++ {
		e, err := ParseLine(scanner.Text())
		if errors.Is(err, ErrBlankLine) {
			continue
		}
		if err != nil {
			return entries, fmt.Errorf("line %d: %w", n, err)
		}
		e.Line = n
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return entries, fmt.Errorf("read capture: %w", err)
	}
	return entries, nil
}
