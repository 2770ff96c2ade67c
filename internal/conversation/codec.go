// Package conversation encodes conversation summaries into the single text
// column stored with each conversation row, and builds them from threads.
package conversation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lu-zhengda/unimail/internal/domain"
)

const (
	fieldSep   = "^"
	splitter   = "^*^"
	messageSep = "^**^"
	escape     = '\\'
)

// ErrMalformed is wrapped by every decoding failure.
var ErrMalformed = errors.New("malformed conversation info")

// ParseError describes which part of a stored conversation string was bad.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s: %v", ErrMalformed, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %s %q: %v", ErrMalformed, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrMalformed, e.Err}
}

// Encode serializes c. A nil conversation encodes to the empty string.
func Encode(c *domain.ConversationInfo) string {
	if c == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(strconv.Itoa(c.MessageCount))
	b.WriteString(fieldSep)
	b.WriteString(strconv.Itoa(c.DraftCount))
	b.WriteString(fieldSep)
	writeEscaped(&b, c.FirstSnippet)
	b.WriteString(fieldSep)
	writeEscaped(&b, c.FirstUnreadSnippet)
	b.WriteString(fieldSep)
	writeEscaped(&b, c.LastSnippet)
	b.WriteString(splitter)
	for i := range c.Messages {
		if i > 0 {
			b.WriteString(messageSep)
		}
		encodeMessage(&b, &c.Messages[i])
	}
	return b.String()
}

func encodeMessage(b *strings.Builder, m *domain.MessageInfo) {
	b.WriteString(flag(m.Read))
	b.WriteString(fieldSep)
	b.WriteString(flag(m.Starred))
	b.WriteString(fieldSep)
	writeEscaped(b, m.Sender)
	if m.Priority != 0 {
		b.WriteString(fieldSep)
		b.WriteString(strconv.Itoa(m.Priority))
	}
}

func flag(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func writeEscaped(b *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case escape, '^', '*':
			b.WriteByte(escape)
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
}

// Decode parses a stored conversation string. Blank input yields (nil, nil),
// meaning no summary is available.
func Decode(s string) (*domain.ConversationInfo, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	toks, err := tokenize(s)
	if err != nil {
		return nil, err
	}

	head, block, err := splitSegments(toks)
	if err != nil {
		return nil, err
	}

	fields := fieldsOf(head)
	if len(fields) != 5 {
		return nil, &ParseError{
			Field: "conversation",
			Err:   fmt.Errorf("expected 5 fields, got %d", len(fields)),
		}
	}
	count, err := parseCount("messageCount", fields[0])
	if err != nil {
		return nil, err
	}
	drafts, err := parseCount("draftCount", fields[1])
	if err != nil {
		return nil, err
	}

	c := domain.NewConversationInfo(count, drafts, fields[2], fields[3], fields[4])
	for _, msgToks := range splitMessages(block) {
		m, err := decodeMessage(fieldsOf(msgToks))
		if err != nil {
			return nil, err
		}
		c.AddMessage(m)
	}
	return c, nil
}

func decodeMessage(fields []string) (domain.MessageInfo, error) {
	var m domain.MessageInfo
	if len(fields) < 2 || len(fields) > 4 {
		return m, &ParseError{
			Field: "message",
			Err:   fmt.Errorf("expected 2 to 4 fields, got %d", len(fields)),
		}
	}
	var err error
	if m.Read, err = parseFlag("read", fields[0]); err != nil {
		return m, err
	}
	if m.Starred, err = parseFlag("starred", fields[1]); err != nil {
		return m, err
	}
	if len(fields) > 2 {
		m.Sender = fields[2]
	}
	if len(fields) == 4 {
		if m.Priority, err = strconv.Atoi(fields[3]); err != nil {
			return m, &ParseError{Field: "priority", Value: fields[3], Err: err}
		}
	}
	return m, nil
}

func parseCount(field, v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &ParseError{Field: field, Value: v, Err: err}
	}
	if n < 0 {
		return 0, &ParseError{Field: field, Value: v, Err: errors.New("negative count")}
	}
	return n, nil
}

func parseFlag(field, v string) (bool, error) {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, &ParseError{Field: field, Value: v, Err: err}
	}
	return b, nil
}
