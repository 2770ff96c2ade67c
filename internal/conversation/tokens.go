package conversation

import (
	"errors"
	"strings"
)

type tokenKind int

const (
	tokText tokenKind = iota
	tokField
	tokSplitter
	tokMessage
)

type token struct {
	kind tokenKind
	text string
}

// tokenize walks s once, resolving escapes. Every unescaped '^' starts a
// delimiter; an unescaped '*' outside one is kept as text so rows written
// before escaping existed still decode.
func tokenize(s string) ([]token, error) {
	var (
		toks []token
		buf  strings.Builder
	)
	flush := func() {
		toks = append(toks, token{kind: tokText, text: buf.String()})
		buf.Reset()
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == escape:
			if i+1 >= len(s) {
				return nil, &ParseError{Field: "escape", Err: errors.New("trailing escape character")}
			}
			i++
			buf.WriteByte(s[i])
		case strings.HasPrefix(s[i:], messageSep):
			flush()
			toks = append(toks, token{kind: tokMessage})
			i += len(messageSep) - 1
		case strings.HasPrefix(s[i:], splitter):
			flush()
			toks = append(toks, token{kind: tokSplitter})
			i += len(splitter) - 1
		case c == '^':
			flush()
			toks = append(toks, token{kind: tokField})
		default:
			buf.WriteByte(c)
		}
	}
	flush()
	return toks, nil
}

// splitSegments separates conversation fields from the message block at the
// single splitter token.
func splitSegments(toks []token) (head, block []token, err error) {
	at := -1
	for i, t := range toks {
		if t.kind != tokSplitter {
			continue
		}
		if at >= 0 {
			return nil, nil, &ParseError{Field: "conversation", Err: errors.New("more than one message splitter")}
		}
		at = i
	}
	if at < 0 {
		return nil, nil, &ParseError{Field: "conversation", Err: errors.New("missing message splitter")}
	}
	return toks[:at], toks[at+1:], nil
}

// splitMessages breaks the message block on message separators. An empty
// block holds no messages.
func splitMessages(block []token) [][]token {
	if len(block) == 1 && block[0].kind == tokText && block[0].text == "" {
		return nil
	}
	var (
		out [][]token
		cur []token
	)
	for _, t := range block {
		if t.kind == tokMessage {
			out = append(out, cur)
			cur = nil
			continue
		}
		cur = append(cur, t)
	}
	return append(out, cur)
}

// fieldsOf joins text tokens between field separators.
func fieldsOf(toks []token) []string {
	var (
		fields []string
		cur    strings.Builder
	)
	for _, t := range toks {
		switch t.kind {
		case tokField:
			fields = append(fields, cur.String())
			cur.Reset()
		case tokText:
			cur.WriteString(t.text)
		}
	}
	return append(fields, cur.String())
}
