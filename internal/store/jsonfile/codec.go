package jsonfile

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/colonyops/tasktracker/internal/core/calendar"
	"github.com/colonyops/tasktracker/internal/core/task"
)

// Field names written to and read from the task file, in output order.
const (
	keyID          = "id"
	keyDescription = "description"
	keyStatus      = "status"
	keyCreatedAt   = "createdAt"
	keyUpdatedAt   = "updatedAt"
)

var requiredKeys = []string{keyID, keyDescription, keyStatus, keyCreatedAt, keyUpdatedAt}

// Decode error kinds. A *DecodeError unwraps to one of these.
var (
	ErrSyntax           = errors.New("syntax error")
	ErrInvalidID        = errors.New("invalid task id")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrMissingField     = errors.New("missing field")
	ErrDuplicateID      = errors.New("duplicate task id")
)

// DecodeError reports where and why the task file could not be decoded.
type DecodeError struct {
	Line int
	Kind error // one of the Err* kinds above, or task.ErrInvalidStatus
	Msg  string
	Err  error // underlying cause, if any
}

func (e *DecodeError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Kind)
	}
	return fmt.Sprintf("line %d: %s: %s", e.Line, e.Kind, e.Msg)
}

func (e *DecodeError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// Policy decides what happens when a record field cannot be parsed.
type Policy string

const (
	// PolicyStrict fails the whole decode on the first malformed record.
	PolicyStrict Policy = "strict"
	// PolicyLenient replaces malformed fields with defaults: id 0, status todo
	// and zero timestamp fields. Later duplicate IDs replace earlier ones.
	PolicyLenient Policy = "lenient"
)

// IsValid reports whether p is a known policy.
func (p Policy) IsValid() bool {
	return p == PolicyStrict || p == PolicyLenient
}

// Encode renders tasks as the task file JSON array. Records are written in
// ascending ID order with the fields id, description, status, createdAt and
// updatedAt, all as strings.
func Encode(tasks map[uint32]task.Task) []byte {
	ids := make([]uint32, 0, len(tasks))
	for id := range tasks {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var b strings.Builder
	b.WriteString("[")
	for i, id := range ids {
		t := tasks[id]
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("\n    {\n")
		writeField(&b, keyID, strconv.FormatUint(uint64(id), 10), true)
		writeField(&b, keyDescription, t.Description, true)
		writeField(&b, keyStatus, t.Status.String(), true)
		writeField(&b, keyCreatedAt, t.CreatedAt.Format(), true)
		writeField(&b, keyUpdatedAt, t.UpdatedAt.Format(), false)
		b.WriteString("    }")
	}
	b.WriteString("\n]\n")

	return []byte(b.String())
}

func writeField(b *strings.Builder, key, value string, comma bool) {
	b.WriteString(`        "`)
	b.WriteString(key)
	b.WriteString(`": `)
	writeQuoted(b, value)
	if comma {
		b.WriteByte(',')
	}
	b.WriteByte('\n')
}

const hexDigits = "0123456789abcdef"

func writeQuoted(b *strings.Builder, s string) {
	b.WriteByte('"')
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '"' || c == '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\r':
			b.WriteString(`\r`)
		case c == '\t':
			b.WriteString(`\t`)
		case c < 0x20:
			b.WriteString(`\u00`)
			b.WriteByte(hexDigits[c>>4])
			b.WriteByte(hexDigits[c&0xf])
		case c >= utf8.RuneSelf:
			r, size := utf8.DecodeRuneInString(s[i:])
			if r == utf8.RuneError && size == 1 {
				b.WriteString("\ufffd")
			} else {
				b.WriteString(s[i : i+size])
			}
			i += size
			continue
		default:
			b.WriteByte(c)
		}
		i++
	}
	b.WriteByte('"')
}

// Decode parses task file text produced by Encode. Empty or whitespace-only
// input decodes to an empty mapping. Unknown keys are ignored.
func Decode(data []byte, policy Policy) (map[uint32]task.Task, error) {
	if !policy.IsValid() {
		policy = PolicyStrict
	}

	d := &decoder{lex: newLexer(string(data)), policy: policy}
	if err := d.advance(); err != nil {
		return nil, err
	}

	return d.decodeArray()
}

type decoder struct {
	lex    *lexer
	tok    token
	policy Policy
}

func (d *decoder) advance() error {
	tok, err := d.lex.next()
	if err != nil {
		return err
	}
	d.tok = tok
	return nil
}

func (d *decoder) expect(kind tokenKind) (token, error) {
	tok := d.tok
	if tok.kind != kind {
		return tok, d.syntaxf(tok, "expected %s, found %s", kind, tok.describe())
	}
	return tok, d.advance()
}

func (d *decoder) syntaxf(tok token, format string, args ...any) error {
	return &DecodeError{Line: tok.line, Kind: ErrSyntax, Msg: fmt.Sprintf(format, args...)}
}

func (d *decoder) decodeArray() (map[uint32]task.Task, error) {
	tasks := make(map[uint32]task.Task)

	if d.tok.kind == tokEOF {
		return tasks, nil
	}

	if _, err := d.expect(tokLBracket); err != nil {
		return nil, err
	}

	if d.tok.kind != tokRBracket {
		for {
			if err := d.decodeObject(tasks); err != nil {
				return nil, err
			}

			if d.tok.kind == tokComma {
				if err := d.advance(); err != nil {
					return nil, err
				}
				continue
			}
			break
		}
	}

	if _, err := d.expect(tokRBracket); err != nil {
		return nil, err
	}
	if d.tok.kind != tokEOF {
		return nil, d.syntaxf(d.tok, "unexpected %s after end of array", d.tok.describe())
	}

	return tasks, nil
}

// record accumulates the raw string fields of one object.
type record struct {
	line   int
	fields map[string]string
	lines  map[string]int
}

func (d *decoder) decodeObject(tasks map[uint32]task.Task) error {
	open, err := d.expect(tokLBrace)
	if err != nil {
		return err
	}

	rec := record{
		line:   open.line,
		fields: make(map[string]string, len(requiredKeys)),
		lines:  make(map[string]int, len(requiredKeys)),
	}

	if d.tok.kind != tokRBrace {
		for {
			key, err := d.expect(tokString)
			if err != nil {
				return err
			}
			if _, err := d.expect(tokColon); err != nil {
				return err
			}

			value := d.tok
			if value.kind != tokString {
				return d.syntaxf(value, "expected string value for %q, found %s", key.text, value.describe())
			}
			if err := d.advance(); err != nil {
				return err
			}

			rec.fields[key.text] = value.text
			rec.lines[key.text] = key.line

			if d.tok.kind == tokComma {
				if err := d.advance(); err != nil {
					return err
				}
				continue
			}
			break
		}
	}

	if _, err := d.expect(tokRBrace); err != nil {
		return err
	}

	return d.commit(tasks, rec)
}

func (d *decoder) commit(tasks map[uint32]task.Task, rec record) error {
	if d.policy == PolicyLenient {
		id, t := rec.lenient()
		tasks[id] = t
		return nil
	}

	for _, key := range requiredKeys {
		if _, ok := rec.fields[key]; !ok {
			return &DecodeError{Line: rec.line, Kind: ErrMissingField, Msg: fmt.Sprintf("%q", key)}
		}
	}

	id, err := strconv.ParseUint(rec.fields[keyID], 10, 32)
	if err != nil {
		return &DecodeError{
			Line: rec.lines[keyID],
			Kind: ErrInvalidID,
			Msg:  fmt.Sprintf("%q", rec.fields[keyID]),
			Err:  err,
		}
	}
	if _, exists := tasks[uint32(id)]; exists {
		return &DecodeError{Line: rec.lines[keyID], Kind: ErrDuplicateID, Msg: strconv.FormatUint(id, 10)}
	}

	status, err := task.ParseStatus(rec.fields[keyStatus])
	if err != nil {
		return &DecodeError{
			Line: rec.lines[keyStatus],
			Kind: task.ErrInvalidStatus,
			Msg:  fmt.Sprintf("%q", rec.fields[keyStatus]),
		}
	}

	created, err := parseTimestampField(rec, keyCreatedAt)
	if err != nil {
		return err
	}
	updated, err := parseTimestampField(rec, keyUpdatedAt)
	if err != nil {
		return err
	}

	tasks[uint32(id)] = task.Task{
		Description: rec.fields[keyDescription],
		Status:      status,
		CreatedAt:   created,
		UpdatedAt:   updated,
	}
	return nil
}

func parseTimestampField(rec record, key string) (calendar.Timestamp, error) {
	ts, err := calendar.ParseTimestamp(rec.fields[key])
	if err != nil {
		return calendar.Timestamp{}, &DecodeError{
			Line: rec.lines[key],
			Kind: ErrInvalidTimestamp,
			Msg:  key,
			Err:  err,
		}
	}
	return ts, nil
}

// lenient converts the record using default values for anything missing or
// malformed.
func (r record) lenient() (uint32, task.Task) {
	id, err := strconv.ParseUint(strings.TrimSpace(r.fields[keyID]), 10, 32)
	if err != nil {
		id = 0
	}

	return uint32(id), task.Task{
		Description: r.fields[keyDescription],
		Status:      task.ParseStatusOrDefault(r.fields[keyStatus]),
		CreatedAt:   calendar.ParseTimestampLenient(r.fields[keyCreatedAt]),
		UpdatedAt:   calendar.ParseTimestampLenient(r.fields[keyUpdatedAt]),
	}
}
