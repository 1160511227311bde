package dump

import (
	"strconv"
	"strings"

	"github.com/goeet/eet/data"
	"github.com/goeet/eet/dict"
	"github.com/goeet/eet/errs"
	"github.com/goeet/eet/format"
)

// Undump parses text produced by Dump back into the same bytes
// data.Encode originally produced. dictionary re-interns any
// Inlined_string value it finds — Undump never trusts a numeric
// dictionary index, since the text form doesn't carry one, only the
// literal string.
func Undump(text string, dictionary *dict.Dictionary) ([]byte, error) {
	p := &parser{lines: splitLines(text), dictionary: dictionary}

	encoded, err := p.parseChunk(0)
	if err != nil {
		return nil, err
	}

	if !p.atEnd() {
		return nil, errs.ErrMalformedData
	}

	return encoded, nil
}

func splitLines(text string) []string {
	var lines []string

	for _, l := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(l); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	return lines
}

type parser struct {
	lines      []string
	pos        int
	dictionary *dict.Dictionary
}

func (p *parser) atEnd() bool {
	return p.pos >= len(p.lines)
}

func (p *parser) parseChunk(depth int) ([]byte, error) {
	if depth > format.RecursionLimit {
		return nil, errs.ErrMalformedData
	}

	if p.atEnd() {
		return nil, errs.ErrMalformedData
	}

	line := p.lines[p.pos]
	p.pos++

	kind, rest, err := splitKind(line)
	if err != nil {
		return nil, err
	}

	name, rest, err := splitQuoted(rest)
	if err != nil {
		return nil, err
	}

	if rest == "{" {
		return p.parseGroup(kind, name, depth)
	}

	tag, ok := format.ParseTag(kind)
	if !ok {
		return nil, errs.ErrMalformedData
	}

	payload, err := parseValue(tag, rest, p.dictionary)
	if err != nil {
		return nil, err
	}

	return data.AppendChunk(nil, uint32(tag), name, payload), nil
}

func (p *parser) parseGroup(kind, name string, depth int) ([]byte, error) {
	group, ok := format.ParseGroupTag(kind)
	if !ok {
		return nil, errs.ErrMalformedData
	}

	var body []byte

	for {
		if p.atEnd() {
			return nil, errs.ErrMalformedData
		}

		if p.lines[p.pos] == "}" {
			p.pos++

			break
		}

		child, err := p.parseChunk(depth + 1)
		if err != nil {
			return nil, err
		}

		body = append(body, child...)
	}

	return data.AppendChunk(nil, uint32(group), name, body), nil
}

// splitKind pulls the leading whitespace-delimited kind word off line
// and returns the (trimmed) remainder.
func splitKind(line string) (kind, rest string, err error) {
	i := strings.IndexByte(line, ' ')
	if i < 0 {
		return "", "", errs.ErrMalformedData
	}

	return line[:i], strings.TrimSpace(line[i+1:]), nil
}

// splitQuoted parses a Go-syntax quoted string literal off the start
// of s and returns its unquoted value plus the (trimmed) remainder.
func splitQuoted(s string) (value, rest string, err error) {
	if len(s) == 0 || s[0] != '"' {
		return "", "", errs.ErrMalformedData
	}

	i := 1
	for i < len(s) {
		switch s[i] {
		case '\\':
			i += 2
		case '"':
			unquoted, uerr := strconv.Unquote(s[:i+1])
			if uerr != nil {
				return "", "", uerr
			}

			return unquoted, strings.TrimSpace(s[i+1:]), nil
		default:
			i++
		}
	}

	return "", "", errs.ErrMalformedData
}
